package event

import (
	"encoding/json"
	"time"
)

type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

// Event is the only persisted entity. Edits rewrite every column.
type Event struct {
	ID          uint64  `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"type:text;not null" json:"title"`
	Description *string `gorm:"type:text" json:"description"`

	StartDate time.Time `gorm:"index;not null" json:"startDate"`
	EndDate   time.Time `gorm:"not null" json:"endDate"`

	IsRecurring      bool       `gorm:"index;not null;default:false" json:"isRecurring"`
	Frequency        *Frequency `gorm:"type:text" json:"frequency"`
	DaysOfWeek       *string    `gorm:"type:text" json:"daysOfWeek"` // JSON list, 0=Sunday
	RecurringEndDate *time.Time `json:"recurringEndDate"`

	Category *string `gorm:"type:text;index" json:"category"`
	Color    *string `gorm:"type:text" json:"color"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

type WeekdayState int

const (
	WeekdaysAbsent WeekdayState = iota
	WeekdaysParsed
	WeekdaysMalformed
)

// Weekdays is the decoded form of Event.DaysOfWeek.
type Weekdays struct {
	State WeekdayState
	Days  []int
}

func (w Weekdays) Contains(d time.Weekday) bool {
	for _, v := range w.Days {
		if v == int(d) {
			return true
		}
	}
	return false
}

// ParseWeekdays never fails: a payload that is not a JSON list of
// integers comes back as WeekdaysMalformed.
func ParseWeekdays(raw *string) Weekdays {
	if raw == nil || *raw == "" {
		return Weekdays{State: WeekdaysAbsent}
	}
	var days []int
	if err := json.Unmarshal([]byte(*raw), &days); err != nil || days == nil {
		return Weekdays{State: WeekdaysMalformed}
	}
	return Weekdays{State: WeekdaysParsed, Days: days}
}

func (e *Event) Weekdays() Weekdays {
	return ParseWeekdays(e.DaysOfWeek)
}

// FrequencyValue returns the frequency or "" when unset.
func (e *Event) FrequencyValue() Frequency {
	if e.Frequency == nil {
		return ""
	}
	return *e.Frequency
}

func encodeWeekdays(days []int) *string {
	b, _ := json.Marshal(days)
	s := string(b)
	return &s
}
