package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uqgrd/uqgrd/internal/domain/shared"
)

func TestDetailFromDTO_Unwraps(t *testing.T) {
	total := 92.5
	note := "A+"
	dto := &DetailResponseDTO{
		Data: DetailDataDTO{
			Resultats: []DetailResultDTO{{
				Programmes: []DetailProgramDTO{{
					Activites: []DetailActivityDTO{{Total: &total, Note: &note}},
				}},
			}},
		},
	}

	detail, err := NewMapper().DetailFromDTO(dto)
	require.NoError(t, err)
	assert.Equal(t, &total, detail.Total)
	assert.Equal(t, &note, detail.Letter)
}

func TestDetailFromDTO_EmptyAtEachLevel(t *testing.T) {
	mapper := NewMapper()

	// Any empty level is a hard failure, not an empty detail.
	cases := map[string]*DetailResponseDTO{
		"no results": {},
		"no programs": {
			Data: DetailDataDTO{Resultats: []DetailResultDTO{{}}},
		},
		"no activities": {
			Data: DetailDataDTO{Resultats: []DetailResultDTO{{
				Programmes: []DetailProgramDTO{{}},
			}}},
		},
	}

	for name, dto := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := mapper.DetailFromDTO(dto)
			assert.ErrorIs(t, err, shared.ErrNotFound)
		})
	}
}

func TestEntriesFromDTO_EmptyTranscript(t *testing.T) {
	entries := NewMapper().EntriesFromDTO(&TranscriptResponseDTO{})
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}
