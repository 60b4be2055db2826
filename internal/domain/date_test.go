package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCalendarDateJSONShape(t *testing.T) {
	d := CalendarDate{Year: 2026, Month: time.October, Day: 9}
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"day":9,"month":"Oct","year":2026}` {
		t.Fatalf("unexpected json: %s", raw)
	}

	var back CalendarDate
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("expected %v, got %v", d, back)
	}
}

func TestCalendarDateAcceptsNumericStrings(t *testing.T) {
	var d CalendarDate
	if err := json.Unmarshal([]byte(`{"day":"19","month":"Oct","year":"2026"}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d != (CalendarDate{Year: 2026, Month: time.October, Day: 19}) {
		t.Fatalf("unexpected date: %+v", d)
	}

	padded := map[string]int{`"08"`: 8, `"09"`: 9, `"010"`: 10, `" 07 "`: 7, `3.0`: 3}
	for day, want := range padded {
		var got CalendarDate
		body := `{"day":` + day + `,"month":"Oct","year":"2026"}`
		if err := json.Unmarshal([]byte(body), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", body, err)
		}
		if got.Day != want {
			t.Fatalf("day %s: expected %d, got %d", day, want, got.Day)
		}
	}
}

func TestCalendarDateRejectsBadComponents(t *testing.T) {
	cases := []string{
		`{"day":19,"month":"October","year":2026}`,
		`{"day":19,"month":10,"year":2026}`,
		`{"day":"tomorrow","month":"Oct","year":2026}`,
		`{"day":32,"month":"Oct","year":2026}`,
		`{"day":1,"month":"oct","year":2026}`,
		`{"day":"0x1F","month":"Oct","year":2026}`,
		`{"day":7.9,"month":"Oct","year":2026}`,
		`{"day":"7.5","month":"Oct","year":2026}`,
		`{"day":"010","month":"Oct","year":"2026x"}`,
		`{"day":true,"month":"Oct","year":2026}`,
	}
	for _, body := range cases {
		var d CalendarDate
		if err := json.Unmarshal([]byte(body), &d); err == nil {
			t.Fatalf("expected error for %s, got %+v", body, d)
		}
	}
}

func TestCalendarDatePartialAndFallback(t *testing.T) {
	var d CalendarDate
	if err := json.Unmarshal([]byte(`{"month":"Feb"}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Complete() {
		t.Fatalf("partial date reported complete: %+v", d)
	}

	filled := d.Or(CalendarDate{Year: 2026, Month: time.October, Day: 19})
	if filled != (CalendarDate{Year: 2026, Month: time.February, Day: 19}) {
		t.Fatalf("unexpected fill: %+v", filled)
	}

	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"day":null,"month":"Feb","year":null}` {
		t.Fatalf("unexpected partial json: %s", raw)
	}
}

func TestDateOfUsesTimeLocation(t *testing.T) {
	beirut := time.FixedZone("EEST", 3*60*60)
	instant := time.Date(2026, time.October, 18, 22, 30, 0, 0, time.UTC)

	if got := DateOf(instant.In(beirut)); got != (CalendarDate{Year: 2026, Month: time.October, Day: 19}) {
		t.Fatalf("unexpected local date: %+v", got)
	}
	if got := instant.In(beirut).Format(ClockLayout); got != "01:30:00 AM" {
		t.Fatalf("unexpected clock: %s", got)
	}
}

func TestFlexStringAcceptsNumbers(t *testing.T) {
	var cart Cart
	if err := json.Unmarshal([]byte(`{"id":10192026093000,"cartNumber":"7","products":[]}`), &cart); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cart.ID != "10192026093000" {
		t.Fatalf("unexpected id: %q", cart.ID)
	}
	if cart.CartNumber != "7" {
		t.Fatalf("unexpected cart number: %q", cart.CartNumber)
	}
}
