// Package validation checks filter inputs before any query is built. An
// incomplete required pairing (a date range with fewer than two bounds) means
// the whole filter state is invalid and no query may be issued.
package validation

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const dateLayout = "2006-01-02"

var (
	ErrIncompleteDateRange = errors.New("select both a start and an end date")
	ErrInvertedDateRange   = errors.New("start date must be before end date")
)

// DateRange is a validated pair of inclusive date bounds.
type DateRange struct {
	Start string
	End   string
}

func (r DateRange) Validate() error {
	// Fewer than two bounds invalidates the whole filter state.
	if r.Start == "" || r.End == "" {
		return ErrIncompleteDateRange
	}

	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Start, validation.Date(dateLayout)),
		validation.Field(&r.End, validation.Date(dateLayout)),
	); err != nil {
		return err
	}

	start, _ := time.Parse(dateLayout, r.Start)
	end, _ := time.Parse(dateLayout, r.End)
	if start.After(end) {
		return ErrInvertedDateRange
	}

	return nil
}

// ParseDateRange validates the raw query params of a date-range picker.
func ParseDateRange(start, end string) (DateRange, error) {
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Prompt checks whether a filter error should render as an "adjust your
// filters" prompt rather than a hard failure.
func IsFilterPrompt(err error) bool {
	return errors.Is(err, ErrIncompleteDateRange) || errors.Is(err, ErrInvertedDateRange)
}
