package tenq

import "time"

// DueDate is the first day of the month four months after ref's month, i.e.
// the first of next month plus three months.
func DueDate(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month()+4, 1, 0, 0, 0, 0, time.UTC)
}

// LastPaymentDateFromDueDate is the 20th of the due date's month, moved to
// the following Monday when it falls on a weekend.
func LastPaymentDateFromDueDate(due time.Time) time.Time {
	d := time.Date(due.Year(), due.Month(), 20, 0, 0, 0, 0, time.UTC)
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

// LastPaymentDate derives the last payment date from a reference date.
func LastPaymentDate(ref time.Time) time.Time {
	return LastPaymentDateFromDueDate(DueDate(ref))
}
