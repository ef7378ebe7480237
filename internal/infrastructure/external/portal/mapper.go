// Package portal implements the UQAM portal API client.
package portal

import (
	"sort"

	"github.com/uqgrd/uqgrd/internal/domain/grade"
	"github.com/uqgrd/uqgrd/internal/domain/semester"
	"github.com/uqgrd/uqgrd/internal/domain/shared"
	"github.com/uqgrd/uqgrd/internal/domain/transcript"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAPPER - DTO to Domain Entity transformations
// ══════════════════════════════════════════════════════════════════════════════

// Mapper handles transformation between portal DTOs and domain entities.
// It keeps the portal's payload shapes out of the rest of the codebase.
type Mapper struct{}

// NewMapper creates a new Mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// EntriesFromDTO converts the transcript payload to domain entries,
// sorted by semester code descending (most recent first). Callers rely
// on that ordering for "latest semester" fallbacks.
func (m *Mapper) EntriesFromDTO(dto *TranscriptResponseDTO) []transcript.Entry {
	entries := make([]transcript.Entry, 0, len(dto.Data.Resultats))
	for _, sem := range dto.Data.Resultats {
		entries = append(entries, transcript.Entry{
			Semester: semester.Code(sem.Trimestre),
			Programs: m.programsFromDTO(sem.Programmes),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Semester > entries[j].Semester
	})

	return entries
}

func (m *Mapper) programsFromDTO(dtos []ProgramDTO) []transcript.ProgramEnrollment {
	programs := make([]transcript.ProgramEnrollment, 0, len(dtos))
	for _, p := range dtos {
		activities := make([]transcript.ActivityRecord, 0, len(p.Activites))
		for _, a := range p.Activites {
			activities = append(activities, transcript.ActivityRecord{
				Sigle:       a.Sigle,
				Title:       a.TitreActivite,
				Group:       a.Groupe,
				InlineGrade: a.Note,
			})
		}
		programs = append(programs, transcript.ProgramEnrollment{
			Code:       p.CodeProg,
			Title:      p.TitreProgramme,
			Activities: activities,
		})
	}
	return programs
}

// DetailFromDTO unwraps the three nested list levels of a course detail
// response. The portal always returns exactly one result, one program
// and one activity for a {semester, sigle, group} query; an empty list
// at any level means the course was not found and is a hard error, not
// an empty detail.
func (m *Mapper) DetailFromDTO(dto *DetailResponseDTO) (grade.Detail, error) {
	if len(dto.Data.Resultats) == 0 {
		return grade.Detail{}, shared.ErrDetailNotFound
	}
	result := dto.Data.Resultats[0]

	if len(result.Programmes) == 0 {
		return grade.Detail{}, shared.ErrDetailNotFound
	}
	program := result.Programmes[0]

	if len(program.Activites) == 0 {
		return grade.Detail{}, shared.ErrDetailNotFound
	}
	activity := program.Activites[0]

	return grade.Detail{
		Total:  activity.Total,
		Letter: activity.Note,
	}, nil
}
