package model

import "time"

// Attendance statuses as recorded by the register. Anything other than an
// attended status counts towards the absence report.
const (
	AttendanceAttended   = "Attended"
	AttendanceAbsent     = "Absent"
	AttendanceLateAbsent = "Late_Absent"
)

// Learner is one enrolled apprentice, keyed by their unique learner number.
type Learner struct {
	ULN       string
	FirstName string
	LastName  string
	Employer  string
	Route     string
}

func (l *Learner) FullName() string {
	return l.FirstName + " " + l.LastName
}

// TrainingSession is one scheduled teaching session.
type TrainingSession struct {
	ID       string
	Name     string
	DateTime time.Time
}

// SessionAssignment records that a learner is expected at a session.
type SessionAssignment struct {
	SessionID  string
	LearnerULN string
}

// AttendanceRecord is the sign-in outcome for one learner at one session.
// A missing record for an assigned learner is treated as an absence.
type AttendanceRecord struct {
	SessionID  string
	LearnerULN string
	Status     string
}
