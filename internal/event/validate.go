package event

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Input is the full set of user-editable fields. Create and Update both
// take an Input and rewrite the whole record from it.
type Input struct {
	Title            string `validate:"required"`
	Description      *string
	StartDate        *time.Time `validate:"required"`
	EndDate          *time.Time `validate:"required"`
	IsRecurring      bool
	Frequency        *string
	DaysOfWeek       []int `validate:"dive,min=0,max=6"`
	RecurringEndDate *time.Time
	Category         *string
}

// Validate checks the rules shared by create and update. The first
// failing rule decides the message.
func (in Input) Validate() error {
	in.Title = strings.TrimSpace(in.Title)

	failed := map[string]bool{}
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			// Element errors from dive are reported as Field[i].
			name, _, _ := strings.Cut(fe.StructField(), "[")
			failed[name] = true
		}
	}

	if failed["Title"] || failed["StartDate"] || failed["EndDate"] {
		return invalid("Title, start date, and end date are required")
	}
	if !in.StartDate.Before(*in.EndDate) {
		return invalid("End date must be after start date")
	}

	if in.IsRecurring {
		freq := Frequency(strings.ToLower(strings.TrimSpace(deref(in.Frequency))))
		if freq == "" {
			return invalid("Frequency is required for recurring events")
		}
		if !freq.Valid() {
			return invalid("Frequency must be one of daily, weekly, monthly")
		}
		if freq == Weekly && len(in.DaysOfWeek) == 0 {
			return invalid("At least one weekday must be selected for weekly events")
		}
		if freq == Weekly && failed["DaysOfWeek"] {
			return invalid("Weekdays must be between 0 (Sunday) and 6 (Saturday)")
		}
		if in.RecurringEndDate != nil && !in.RecurringEndDate.After(*in.StartDate) {
			return invalid("Recurring end date must be after start date")
		}
	}

	return nil
}

// apply rewrites every user-editable column of e from in. Values that do
// not apply (frequency on a one-off event, weekdays on a non-weekly rule)
// are cleared.
func (in Input) apply(e *Event, cats *Categories) {
	e.Title = strings.TrimSpace(in.Title)
	e.Description = nonEmpty(in.Description)
	e.StartDate = in.StartDate.UTC()
	e.EndDate = in.EndDate.UTC()
	e.IsRecurring = in.IsRecurring

	e.Frequency = nil
	e.DaysOfWeek = nil
	e.RecurringEndDate = nil
	if in.IsRecurring {
		freq := Frequency(strings.ToLower(strings.TrimSpace(deref(in.Frequency))))
		e.Frequency = &freq
		if freq == Weekly && len(in.DaysOfWeek) > 0 {
			e.DaysOfWeek = encodeWeekdays(in.DaysOfWeek)
		}
		if in.RecurringEndDate != nil {
			t := in.RecurringEndDate.UTC()
			e.RecurringEndDate = &t
		}
	}

	e.Category = nonEmpty(in.Category)
	e.Color = nil
	if e.Category != nil {
		c := cats.ColorFor(e.Category)
		e.Color = &c
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}
