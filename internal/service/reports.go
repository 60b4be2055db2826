package service

import (
	"context"

	"dukkan/backend/internal/domain"
)

// DailyReport aggregates the given day. All three date components are
// required and are matched exactly against stored records.
func (s *Service) DailyReport(ctx context.Context, date domain.CalendarDate) (domain.Report, error) {
	if !date.Complete() {
		return domain.Report{}, invalid("Invalid date format. Please provide day, month, and year.")
	}
	return s.reports.Daily(ctx, date)
}
