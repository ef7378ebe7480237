// Package portal implements the UQAM portal API client.
// This package handles all communication with the portal: authentication,
// transcript retrieval and per-course result details.
package portal

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION DTOs
// ══════════════════════════════════════════════════════════════════════════════

// AuthRequestDTO is the JSON body posted to the authentication endpoint.
type AuthRequestDTO struct {
	Identifiant string `json:"identifiant"`
	MotDePasse  string `json:"motDePasse"`
}

// AuthResponseDTO is the authentication response.
type AuthResponseDTO struct {
	Token string `json:"token"`
}

// ══════════════════════════════════════════════════════════════════════════════
// TRANSCRIPT (RESUME) DTOs
// ══════════════════════════════════════════════════════════════════════════════

// TranscriptResponseDTO is the top level transcript response wrapper.
type TranscriptResponseDTO struct {
	Data TranscriptDataDTO `json:"data"`
}

// TranscriptDataDTO carries the per-semester results.
type TranscriptDataDTO struct {
	Resultats []SemesterResultDTO `json:"resultats"`
}

// SemesterResultDTO is one semester's record as returned by the portal.
type SemesterResultDTO struct {
	Trimestre  int          `json:"trimestre"`
	Programmes []ProgramDTO `json:"programmes"`
}

// ProgramDTO is a program enrollment within a semester.
type ProgramDTO struct {
	CodeProg       string        `json:"codeProg"`
	TitreProgramme string        `json:"titreProgramme"`
	Activites      []ActivityDTO `json:"activites"`
}

// ActivityDTO is a course instance within a program. Note is the inline
// letter grade the transcript carries; the authoritative grade comes
// from the detail endpoint.
type ActivityDTO struct {
	Sigle         string  `json:"sigle"`
	TitreActivite string  `json:"titreActivite"`
	Note          *string `json:"note"`
	Groupe        int     `json:"groupe"`
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE DETAIL DTOs
// ══════════════════════════════════════════════════════════════════════════════

// DetailResponseDTO is the top level course detail response wrapper.
// The payload nests three list levels deep; the mapper unwraps them.
type DetailResponseDTO struct {
	Data DetailDataDTO `json:"data"`
}

// DetailDataDTO carries the detail results.
type DetailDataDTO struct {
	Resultats []DetailResultDTO `json:"resultats"`
}

// DetailResultDTO is the first unwrapping level.
type DetailResultDTO struct {
	Programmes []DetailProgramDTO `json:"programmes"`
}

// DetailProgramDTO is the second unwrapping level.
type DetailProgramDTO struct {
	Activites []DetailActivityDTO `json:"activites"`
}

// DetailActivityDTO is the innermost detail record.
type DetailActivityDTO struct {
	Total *float64 `json:"total"`
	Note  *string  `json:"note"`
}
