package service

import (
	"strings"
	"time"

	"github.com/smallbiznis/gstbilling/internal/dashboard/domain"
)

const dateLayout = "2006-01-02"

// resolveRange turns a preset into a half-open day range ending after today.
// Rolling presets count back from today; fy starts on the 1st of April.
// Custom ranges without a preset are accepted when both dates are given.
func resolveRange(req domain.StatsRequest, now time.Time) (domain.DateRange, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := today.AddDate(0, 0, 1)

	preset := strings.ToLower(strings.TrimSpace(req.Range))
	if preset == "" {
		if strings.TrimSpace(req.StartDate) != "" || strings.TrimSpace(req.EndDate) != "" {
			preset = domain.RangeCustom
		} else {
			preset = domain.RangeToday
		}
	}

	switch preset {
	case domain.RangeToday:
		return domain.DateRange{Start: today, End: end}, nil
	case domain.Range7Days:
		return domain.DateRange{Start: today.AddDate(0, 0, -7), End: end}, nil
	case domain.Range30Days:
		return domain.DateRange{Start: today.AddDate(0, 0, -30), End: end}, nil
	case domain.RangeQuarterly:
		return domain.DateRange{Start: today.AddDate(0, -3, 0), End: end}, nil
	case domain.RangeHalfYearly:
		return domain.DateRange{Start: today.AddDate(0, -6, 0), End: end}, nil
	case domain.RangeYearly:
		return domain.DateRange{Start: today.AddDate(-1, 0, 0), End: end}, nil
	case domain.RangeFY:
		year := today.Year()
		if today.Month() < time.April {
			year--
		}
		return domain.DateRange{Start: time.Date(year, time.April, 1, 0, 0, 0, 0, now.Location()), End: end}, nil
	case domain.RangeCustom:
		return customRange(req, now.Location())
	default:
		return domain.DateRange{}, domain.ErrInvalidRange
	}
}

func customRange(req domain.StatsRequest, loc *time.Location) (domain.DateRange, error) {
	start, err := time.ParseInLocation(dateLayout, strings.TrimSpace(req.StartDate), loc)
	if err != nil {
		return domain.DateRange{}, domain.ErrInvalidDate
	}
	last, err := time.ParseInLocation(dateLayout, strings.TrimSpace(req.EndDate), loc)
	if err != nil {
		return domain.DateRange{}, domain.ErrInvalidDate
	}
	if last.Before(start) {
		return domain.DateRange{}, domain.ErrInvalidRange
	}
	return domain.DateRange{Start: start, End: last.AddDate(0, 0, 1)}, nil
}
