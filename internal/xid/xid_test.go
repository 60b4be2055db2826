package xid

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStampUsesLocalWallClock(t *testing.T) {
	beirut := time.FixedZone("EEST", 3*60*60)
	at := time.Date(2026, time.October, 19, 6, 5, 4, 0, time.UTC).In(beirut)

	if got := Stamp(at); got != "10192026090504" {
		t.Fatalf("unexpected stamp %q", got)
	}
}

func TestSequenceIsStrictlyIncreasing(t *testing.T) {
	var seq Sequence
	now := time.UnixMilli(1_760_000_000_000)

	first := seq.Next(now)
	second := seq.Next(now)
	third := seq.Next(now.Add(-time.Second))

	if first != now.UnixMilli() {
		t.Fatalf("expected first id to be the millisecond timestamp, got %d", first)
	}
	if second <= first || third <= second {
		t.Fatalf("ids not increasing: %d %d %d", first, second, third)
	}
}

func TestRequestIDIsUUID(t *testing.T) {
	if _, err := uuid.Parse(RequestID()); err != nil {
		t.Fatalf("request id is not a uuid: %v", err)
	}
}
