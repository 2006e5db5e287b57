package handler

import (
	"net/url"
	"time"

	"cropclassify/internal/apperr"
	"cropclassify/internal/dto"
)

// DateLayout is the HTML date input format.
const DateLayout = "2006-01-02"

// parseDate parses a date string in the format "2006-01-02" from the request (HTML input format).
func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, apperr.Validationf("invalid date %q, expected YYYY-MM-DD", v)
	}
	return t, nil
}

// parseFilter reads start_date and end_date from the query string.
func parseFilter(q url.Values) (dto.DocumentFilter, error) {
	start, err := parseDate(q.Get("start_date"))
	if err != nil {
		return dto.DocumentFilter{}, err
	}
	end, err := parseDate(q.Get("end_date"))
	if err != nil {
		return dto.DocumentFilter{}, err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return dto.DocumentFilter{}, apperr.Validationf("end_date is before start_date")
	}
	return dto.DocumentFilter{StartDate: start, EndDate: end}, nil
}
