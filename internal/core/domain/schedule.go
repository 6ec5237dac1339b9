package domain

import "time"

// Frequency is a recurring invoice's repetition rule.
type Frequency string

const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
	Custom  Frequency = "CUSTOM"
)

// IntervalType is the unit of a custom frequency.
type IntervalType string

const (
	IntervalDay   IntervalType = "DAY"
	IntervalWeek  IntervalType = "WEEK"
	IntervalMonth IntervalType = "MONTH"
	IntervalYear  IntervalType = "YEAR"
)

// EndType states when a schedule stops producing occurrences.
type EndType string

const (
	EndNever EndType = "NEVER"
	EndAfter EndType = "AFTER" // after MaxOccurrences
	EndOn    EndType = "ON"    // on EndDate
)

// Schedule drives recurring invoice generation. Anchor fields pin the
// occurrence within its period: DayOfWeek for weekly, DayOfMonth for monthly
// and yearly, Month for yearly.
type Schedule struct {
	Frequency     Frequency    `json:"frequency"`
	IntervalType  IntervalType `json:"intervalType"`  // Custom only
	IntervalValue int          `json:"intervalValue"` // Custom only, >= 1

	DayOfWeek  time.Weekday `json:"dayOfWeek"`
	DayOfMonth int          `json:"dayOfMonth"` // 1..31; clamped to shorter months
	Month      time.Month   `json:"month"`

	EndType        EndType    `json:"endType"`
	MaxOccurrences int        `json:"maxOccurrences"`
	EndDate        *time.Time `json:"endDate"`

	StartDate   time.Time  `json:"startDate"`
	NextDate    *time.Time `json:"nextDate"`
	LastDate    *time.Time `json:"lastDate"`
	Occurrences int        `json:"occurrences"`
}

// NextOccurrence computes the occurrence following from. Monthly and yearly
// schedules clamp the anchor day to the target month's length, so an anchor
// of 31 lands on Feb 28 (29 in leap years) rather than rolling into March.
// The second return is false once the schedule's end condition is reached.
func (s Schedule) NextOccurrence(from time.Time) (time.Time, bool) {
	var next time.Time

	switch s.Frequency {
	case Daily:
		next = from.AddDate(0, 0, 1)
	case Weekly:
		next = nextWeekday(from, s.DayOfWeek)
	case Monthly:
		next = addMonthsClamped(from, 1, s.anchorDay())
	case Yearly:
		next = nextYearly(from, s.Month, s.anchorDay())
	case Custom:
		interval := s.IntervalValue
		if interval < 1 {
			interval = 1
		}
		switch s.IntervalType {
		case IntervalDay:
			next = from.AddDate(0, 0, interval)
		case IntervalWeek:
			next = from.AddDate(0, 0, 7*interval)
		case IntervalMonth:
			next = addMonthsClamped(from, interval, s.anchorDay())
		case IntervalYear:
			next = addMonthsClamped(from, 12*interval, s.anchorDay())
		default:
			return time.Time{}, false
		}
	default:
		return time.Time{}, false
	}

	if s.ended(next) {
		return time.Time{}, false
	}
	return next, true
}

// anchorDay falls back to the day of the start date when no explicit
// day-of-month anchor is configured.
func (s Schedule) anchorDay() int {
	if s.DayOfMonth >= 1 && s.DayOfMonth <= 31 {
		return s.DayOfMonth
	}
	return s.StartDate.Day()
}

func (s Schedule) ended(next time.Time) bool {
	switch s.EndType {
	case EndAfter:
		return s.Occurrences >= s.MaxOccurrences
	case EndOn:
		return s.EndDate != nil && next.After(*s.EndDate)
	default:
		return false
	}
}

// nextWeekday returns the first occurrence of weekday strictly after from.
func nextWeekday(from time.Time, weekday time.Weekday) time.Time {
	days := (int(weekday) - int(from.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return from.AddDate(0, 0, days)
}

// addMonthsClamped adds months to from and pins the result to anchorDay,
// clamped to the target month's last day. time.AddDate alone would normalize
// Jan 31 + 1 month into Mar 2/3, which is silently wrong for billing.
func addMonthsClamped(from time.Time, months int, anchorDay int) time.Time {
	year, month, _ := from.Date()
	firstOfTarget := time.Date(year, month, 1, 0, 0, 0, 0, from.Location()).AddDate(0, months, 0)
	return time.Date(
		firstOfTarget.Year(), firstOfTarget.Month(),
		clampDay(anchorDay, firstOfTarget.Year(), firstOfTarget.Month()),
		from.Hour(), from.Minute(), from.Second(), 0, from.Location(),
	)
}

// nextYearly returns the anchor (month, day) in the year after from.
func nextYearly(from time.Time, month time.Month, anchorDay int) time.Time {
	if month < time.January || month > time.December {
		month = from.Month()
	}
	year := from.Year() + 1
	return time.Date(year, month, clampDay(anchorDay, year, month),
		from.Hour(), from.Minute(), from.Second(), 0, from.Location())
}

// clampDay bounds day to the number of days in (year, month).
func clampDay(day, year int, month time.Month) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	if day < 1 {
		return 1
	}
	return day
}
