package domain

import "time"

// User is a tracked account. The id is assigned by the persistence layer on
// creation and is opaque to the rest of the system.
type User struct {
	ID       string
	Username string
}

// Exercise is a single log entry owned by exactly one user. The owning
// reference is set at creation and never reassigned.
type Exercise struct {
	ID          string
	UserID      string
	Description string
	Duration    int
	Date        time.Time
}

// DateRange restricts exercises to the calendar days [From, To], both
// inclusive. A range only exists when both bounds were supplied.
type DateRange struct {
	From time.Time
	To   time.Time
}

// UpperBound returns the exclusive end of the range. Entries stamped with a
// time-of-day on the To day still fall inside.
func (r DateRange) UpperBound() time.Time {
	return r.To.AddDate(0, 0, 1)
}

// Contains reports whether t falls within the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.UpperBound())
}

// UserLog bundles a user with their (possibly filtered and limited) exercise
// log and the computed count. Both derived values are computed fresh at read
// time; nothing here is persisted.
type UserLog struct {
	User    User
	Entries []Exercise
	Count   int
}
