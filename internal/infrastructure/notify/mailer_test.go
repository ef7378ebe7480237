package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uqgrd/uqgrd/config"
	"github.com/uqgrd/uqgrd/internal/domain/grade"
	"github.com/uqgrd/uqgrd/internal/domain/shared"
)

func TestBody_FullGrade(t *testing.T) {
	total := 78.5
	letter := "B+"
	body := Body("INF3173", "Principes des systèmes d'exploitation", grade.Detail{Total: &total, Letter: &letter})

	assert.Contains(t, body, "INF3173 - Principes des systèmes d'exploitation")
	assert.Contains(t, body, "Grade: B+")
	assert.Contains(t, body, "Total: 78.50%")
	assert.Contains(t, body, "https://monportail.uqam.ca")
}

func TestBody_AbsentValuesRenderNA(t *testing.T) {
	body := Body("INF3173", "Systèmes", grade.Detail{})

	assert.Contains(t, body, "Grade: N/A")
	assert.Contains(t, body, "Total: N/A")
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "UQAM Grade Update: INF3173", Subject("INF3173"))
}

func TestRecipientFor(t *testing.T) {
	assert.Equal(t, "ab123456@uqam.ca", RecipientFor("ab123456", "uqam.ca"))
}

func TestNotify_MissingConfigIsError(t *testing.T) {
	mailer := NewMailer(config.SMTPConfig{Host: "smtp.gmail.com", Port: 587}, nil)

	err := mailer.Notify(context.Background(), "ab123456@uqam.ca", "INF3173", "Systèmes", grade.Detail{})
	assert.ErrorIs(t, err, shared.ErrNotifyConfigMissing)
}

func TestNotify_DeliveryFailure(t *testing.T) {
	mailer := NewMailer(config.SMTPConfig{
		Host:     "127.0.0.1",
		Port:     587,
		Username: "sender@example.com",
		Password: "pw",
	}, nil)

	// A cancelled context makes the dial fail without touching the
	// network.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	total := 80.0
	err := mailer.Notify(ctx, "ab123456@uqam.ca", "INF3173", "Systèmes", grade.Detail{Total: &total})
	assert.ErrorIs(t, err, shared.ErrNotifyFailed)
}
