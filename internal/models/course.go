package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Date layouts accepted from the portal. Course dates are serialised as
// dd/MM/yyyy by the course entity and as ISO dates by the DTO endpoints.
const (
	PortalDateLayout = "02/01/2006"
	ISODateLayout    = "2006-01-02"
)

// PortalDate is a calendar date without a time component.
type PortalDate struct {
	time.Time
}

// MarshalJSON renders the date as an ISO date or null.
func (d PortalDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(ISODateLayout))
}

// UnmarshalJSON accepts null, an empty string, dd/MM/yyyy or yyyy-MM-dd.
func (d *PortalDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = PortalDate{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("portal date: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*d = PortalDate{}
		return nil
	}
	for _, layout := range []string{PortalDateLayout, ISODateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			*d = PortalDate{Time: t}
			return nil
		}
	}
	return fmt.Errorf("portal date: unsupported format %q", raw)
}

// Subject carries the credit information of a course's subject.
type Subject struct {
	ID                   int    `json:"id,omitempty"`
	SubjectID            string `json:"subjectId"`
	SubjectName          string `json:"subjectName"`
	TheoryCreditNumber   int    `json:"theoryCreditNumber"`
	PracticeCreditNumber int    `json:"practiceCreditNumber"`
}

// CourseRecord is one opened course section as served by the portal.
// Only RegisteredNumber changes after load.
type CourseRecord struct {
	ID               int        `json:"id"`
	CourseID         string     `json:"courseId"`
	Subject          Subject    `json:"subject"`
	DayOfWeek        int        `json:"dayOfWeek"`
	BeginShift       int        `json:"beginShift"`
	EndShift         int        `json:"endShift"`
	TotalNumber      int        `json:"totalNumber"`
	RegisteredNumber int        `json:"registeredNumber"`
	Language         string     `json:"language"`
	LecturerName     *string    `json:"lecturerName,omitempty"`
	Room             string     `json:"room"`
	BeginDate        PortalDate `json:"beginDate"`
	EndDate          PortalDate `json:"endDate"`
	WeekDistance     int        `json:"weekDistance"`
	MainCourseID     *string    `json:"mainCourseId,omitempty"`
	SemesterID       *int       `json:"semesterId,omitempty"`
}

// Clone returns a copy that shares no pointers with the receiver.
func (c CourseRecord) Clone() CourseRecord {
	out := c
	if c.LecturerName != nil {
		name := *c.LecturerName
		out.LecturerName = &name
	}
	if c.MainCourseID != nil {
		main := *c.MainCourseID
		out.MainCourseID = &main
	}
	if c.SemesterID != nil {
		semester := *c.SemesterID
		out.SemesterID = &semester
	}
	return out
}

// Full reports whether every seat is taken. Counts above capacity are
// reported as full rather than rejected.
func (c CourseRecord) Full() bool {
	return c.RegisteredNumber >= c.TotalNumber
}

// ShiftSpan is the number of shifts the course occupies on its weekday.
func (c CourseRecord) ShiftSpan() int {
	if c.EndShift < c.BeginShift {
		return 0
	}
	return c.EndShift - c.BeginShift + 1
}

// Lecturer returns the lecturer name or an empty string.
func (c CourseRecord) Lecturer() string {
	if c.LecturerName == nil {
		return ""
	}
	return *c.LecturerName
}

// SeatDelta is a single seat-count update pushed by the portal.
type SeatDelta struct {
	CourseID int `json:"id"`
	Count    int `json:"count"`
}

// StudentInfo is the profile of the signed-in student.
type StudentInfo struct {
	ID          int             `json:"id"`
	FacultyName string          `json:"falcutyName"`
	Program     string          `json:"program"`
	Cohort      int             `json:"khoaTuyen"`
	User        json.RawMessage `json:"user,omitempty"`
}
