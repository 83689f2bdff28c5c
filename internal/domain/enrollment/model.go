package enrollment

import "time"

// Enrollment links a user to a class. The (UserID, ClassID) pair is unique.
type Enrollment struct {
	ID         int64
	UserID     int64
	ClassID    int64
	EnrolledAt time.Time
}

// RosterEntry is one line of a class roster as shown to admins.
type RosterEntry struct {
	FullName   string
	Email      string
	Phone      string
	EnrolledAt time.Time
}
