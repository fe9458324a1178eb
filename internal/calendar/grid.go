package calendar

import "time"

// GridSize is six weeks of seven days, whatever the month's shape.
const GridSize = 42

type Day struct {
	Date           time.Time `json:"date"`
	IsCurrentMonth bool      `json:"isCurrentMonth"`
	DayNumber      int       `json:"dayNumber"`
}

// MonthGrid returns the 42 cells of a Sunday-first month view: trailing
// days of the previous month, every day of the month, then leading days
// of the next month. monthIndex is 0-based. Dates are midnight in loc.
func MonthGrid(year, monthIndex int, loc *time.Location) []Day {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, loc)
	lead := int(first.Weekday())
	inMonth := DaysIn(first.Year(), first.Month(), loc)

	days := make([]Day, 0, GridSize)
	for i := 0; i < GridSize; i++ {
		// time.Date normalizes day offsets across month and year edges.
		d := time.Date(first.Year(), first.Month(), 1-lead+i, 0, 0, 0, 0, loc)
		offset := i - lead
		days = append(days, Day{
			Date:           d,
			IsCurrentMonth: offset >= 0 && offset < inMonth,
			DayNumber:      d.Day(),
		})
	}
	return days
}

func DaysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
