package models

import "time"

// AttendanceRecord represents a single work session for one user. It is
// created at clock-in and mutated exactly once, at clock-out. A record with a
// nil ClockOut is an open session.
type AttendanceRecord struct {
	ID       string     `json:"id"`
	UserID   string     `json:"userId"`
	ClockIn  time.Time  `json:"clockIn"`
	ClockOut *time.Time `json:"clockOut"`
	Image1   string     `json:"image1,omitempty"` // data-URI photo captured at clock-in
	Image2   string     `json:"image2,omitempty"` // data-URI photo captured at clock-out
}

// Open reports whether the record is an open session.
func (r AttendanceRecord) Open() bool {
	return r.ClockOut == nil
}
