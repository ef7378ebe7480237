// Package transcript contains the domain model of an academic transcript
// as exposed by the UQAM portal: semesters, program enrollments and
// course activities. Entries are produced fresh on every fetch and are
// never persisted.
package transcript

import "github.com/uqgrd/uqgrd/internal/domain/semester"

// Entry is one semester's academic record.
type Entry struct {
	// Semester is the portal code for the term (e.g. 20251).
	Semester semester.Code

	// Programs lists the enrollments for that term, in portal order.
	Programs []ProgramEnrollment
}

// ProgramEnrollment groups the activities followed under one program.
type ProgramEnrollment struct {
	Code       string
	Title      string
	Activities []ActivityRecord
}

// ActivityRecord is a single course instance within a program.
type ActivityRecord struct {
	// Sigle is the short course code, e.g. "INF3173".
	Sigle string

	// Title is the course title.
	Title string

	// Group is the section/group number.
	Group int

	// InlineGrade is the letter grade the transcript itself carries, if
	// any. Informational only: the authoritative grade comes from the
	// per-course detail fetch.
	InlineGrade *string
}

// FindSemester returns the entry matching the given code, or nil when
// the student has no record for that term.
func FindSemester(entries []Entry, code semester.Code) *Entry {
	for i := range entries {
		if entries[i].Semester == code {
			return &entries[i]
		}
	}
	return nil
}
