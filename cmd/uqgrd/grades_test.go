package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uqgrd/uqgrd/internal/domain/semester"
	"github.com/uqgrd/uqgrd/internal/domain/transcript"
)

func TestSelectProgram_CurrentStaysNonInteractive(t *testing.T) {
	entry := &transcript.Entry{
		Semester: semester.Code(20251),
		Programs: []transcript.ProgramEnrollment{
			{Code: "7316", Title: "Baccalauréat en informatique et génie logiciel"},
			{Code: "7833", Title: "Certificat en informatique"},
		},
	}

	program, err := selectProgram(entry, true)
	require.NoError(t, err)
	assert.Equal(t, "7316", program.Code)
}

func TestSelectProgram_NoEnrollment(t *testing.T) {
	entry := &transcript.Entry{Semester: semester.Code(20251)}

	_, err := selectProgram(entry, true)
	assert.Error(t, err)
}

func TestSelectSemester_CurrentFallsBackToLatest(t *testing.T) {
	// Codes far in the past so they can never match the live term.
	entries := []transcript.Entry{
		{Semester: semester.Code(20113)},
		{Semester: semester.Code(20112)},
	}

	entry, err := selectSemester(entries, true)
	require.NoError(t, err)
	assert.Equal(t, semester.Code(20113), entry.Semester)
}
