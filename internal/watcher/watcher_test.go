package watcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uqgrd/uqgrd/internal/domain/grade"
	"github.com/uqgrd/uqgrd/internal/domain/semester"
	"github.com/uqgrd/uqgrd/internal/domain/transcript"
)

// ═══════════════════════════════════════════════════════════════════
// Fakes
// ═══════════════════════════════════════════════════════════════════

type fakeCredentials struct {
	username string
	password string
	err      error
}

func (f *fakeCredentials) Resolve() (string, string, error) {
	return f.username, f.password, f.err
}

type fakePortal struct {
	authErr       error
	transcriptErr error
	entries       []transcript.Entry

	// details maps sigle to the detail returned for it; detailErrs
	// maps sigle to a fetch failure.
	details    map[string]grade.Detail
	detailErrs map[string]error

	detailCalls []string
}

func (f *fakePortal) Authenticate(_ context.Context, _, _ string) (string, error) {
	if f.authErr != nil {
		return "", f.authErr
	}
	return "token-1", nil
}

func (f *fakePortal) FetchTranscript(_ context.Context, _ string) ([]transcript.Entry, error) {
	if f.transcriptErr != nil {
		return nil, f.transcriptErr
	}
	return f.entries, nil
}

func (f *fakePortal) FetchCourseDetail(_ context.Context, _ string, _ semester.Code, sigle string, _ int) (grade.Detail, error) {
	f.detailCalls = append(f.detailCalls, sigle)
	if err, ok := f.detailErrs[sigle]; ok {
		return grade.Detail{}, err
	}
	return f.details[sigle], nil
}

type memoryStates struct {
	state     grade.State
	loadErr   error
	saveErr   error
	saveCount int
}

func (m *memoryStates) Load(_ context.Context) (grade.State, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.state == nil {
		m.state = make(grade.State)
	}
	return m.state, nil
}

func (m *memoryStates) Save(_ context.Context, state grade.State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saveCount++
	m.state = state
	return nil
}

type recordingNotifier struct {
	err   error
	calls []notifyCall
}

type notifyCall struct {
	recipient string
	sigle     string
	detail    grade.Detail
}

func (r *recordingNotifier) Notify(_ context.Context, recipient, sigle, _ string, detail grade.Detail) error {
	r.calls = append(r.calls, notifyCall{recipient: recipient, sigle: sigle, detail: detail})
	return r.err
}

// ═══════════════════════════════════════════════════════════════════
// Helpers
// ═══════════════════════════════════════════════════════════════════

func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string     { return &s }

// winter2025 pins the active semester to 20251.
func winter2025() time.Time {
	return time.Date(2025, time.February, 10, 9, 0, 0, 0, time.UTC)
}

func singleCourseEntries() []transcript.Entry {
	return []transcript.Entry{
		{
			Semester: semester.Code(20251),
			Programs: []transcript.ProgramEnrollment{
				{
					Code:  "7316",
					Title: "Baccalauréat en informatique et génie logiciel",
					Activities: []transcript.ActivityRecord{
						{Sigle: "INF3173", Title: "Principes des systèmes d'exploitation", Group: 10},
					},
				},
			},
		},
	}
}

func newTestWatcher(portal *fakePortal, states *memoryStates, notifier *recordingNotifier) *Watcher {
	creds := &fakeCredentials{username: "ab123456", password: "secret"}
	w := New(creds, portal, states, notifier, nil, Config{RecipientDomain: "uqam.ca"})
	return w.WithClock(winter2025)
}

// ═══════════════════════════════════════════════════════════════════
// Tests
// ═══════════════════════════════════════════════════════════════════

func TestWatcher_DetectsChangeAndStaysQuietUntilNextOne(t *testing.T) {
	portal := &fakePortal{
		entries: singleCourseEntries(),
		details: map[string]grade.Detail{
			"INF3173": {Total: floatPtr(75.0), Letter: strPtr("B")},
		},
	}
	states := &memoryStates{}
	notifier := &recordingNotifier{}
	w := newTestWatcher(portal, states, notifier)

	// First cycle: no prior state, the grade counts as new.
	require.NoError(t, w.Run(context.Background()))
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "ab123456@uqam.ca", notifier.calls[0].recipient)
	assert.Equal(t, "INF3173", notifier.calls[0].sigle)
	assert.Equal(t, 1, states.saveCount)

	snap, ok := states.state["INF3173"]
	require.True(t, ok)
	assert.Equal(t, 75.0, *snap.Total)
	assert.Equal(t, "B", *snap.Letter)

	// Second cycle: same grade, no new notification, no save.
	require.NoError(t, w.Run(context.Background()))
	assert.Len(t, notifier.calls, 1)
	assert.Equal(t, 1, states.saveCount)

	// Third cycle: the grade moved, one more notification.
	portal.details["INF3173"] = grade.Detail{Total: floatPtr(78.5), Letter: strPtr("B+")}
	require.NoError(t, w.Run(context.Background()))
	require.Len(t, notifier.calls, 2)
	assert.Equal(t, 78.5, *notifier.calls[1].detail.Total)
	assert.Equal(t, 2, states.saveCount)
	assert.Equal(t, "B+", *states.state["INF3173"].Letter)
}

func TestWatcher_PerCourseFailureDoesNotBlockOthers(t *testing.T) {
	entries := singleCourseEntries()
	entries[0].Programs[0].Activities = append(entries[0].Programs[0].Activities,
		transcript.ActivityRecord{Sigle: "MAT1600", Title: "Algèbre linéaire", Group: 20},
	)

	portal := &fakePortal{
		entries: entries,
		details: map[string]grade.Detail{
			"MAT1600": {Total: floatPtr(88.0), Letter: strPtr("A")},
		},
		detailErrs: map[string]error{
			"INF3173": errors.New("portal returned 500"),
		},
	}
	states := &memoryStates{}
	notifier := &recordingNotifier{}
	w := newTestWatcher(portal, states, notifier)

	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t, []string{"INF3173", "MAT1600"}, portal.detailCalls)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "MAT1600", notifier.calls[0].sigle)

	_, ok := states.state["INF3173"]
	assert.False(t, ok, "failed course must not gain a snapshot")
}

func TestWatcher_NotifyFailureStillUpdatesState(t *testing.T) {
	portal := &fakePortal{
		entries: singleCourseEntries(),
		details: map[string]grade.Detail{
			"INF3173": {Total: floatPtr(91.2), Letter: strPtr("A+")},
		},
	}
	states := &memoryStates{}
	notifier := &recordingNotifier{err: errors.New("smtp refused")}
	w := newTestWatcher(portal, states, notifier)

	require.NoError(t, w.Run(context.Background()))

	snap, ok := states.state["INF3173"]
	require.True(t, ok)
	assert.Equal(t, 91.2, *snap.Total)

	// The change is already recorded, so the next cycle stays quiet:
	// the missed email is not retried.
	require.NoError(t, w.Run(context.Background()))
	assert.Len(t, notifier.calls, 1)
	assert.Equal(t, 1, states.saveCount)
}

func TestWatcher_NoActiveSemesterSkipsCycle(t *testing.T) {
	portal := &fakePortal{
		entries: []transcript.Entry{
			{Semester: semester.Code(20243)},
		},
	}
	states := &memoryStates{}
	notifier := &recordingNotifier{}
	w := newTestWatcher(portal, states, notifier)

	require.NoError(t, w.Run(context.Background()))
	assert.Empty(t, portal.detailCalls)
	assert.Empty(t, notifier.calls)
	assert.Equal(t, 0, states.saveCount)
}

func TestWatcher_CycleFatalErrors(t *testing.T) {
	t.Run("credentials", func(t *testing.T) {
		creds := &fakeCredentials{err: errors.New("keyring locked")}
		w := New(creds, &fakePortal{}, &memoryStates{}, &recordingNotifier{}, nil, Config{RecipientDomain: "uqam.ca"})
		assert.Error(t, w.Run(context.Background()))
	})

	t.Run("authentication", func(t *testing.T) {
		portal := &fakePortal{authErr: errors.New("bad password")}
		w := newTestWatcher(portal, &memoryStates{}, &recordingNotifier{})
		assert.Error(t, w.Run(context.Background()))
	})

	t.Run("transcript", func(t *testing.T) {
		portal := &fakePortal{transcriptErr: errors.New("timeout")}
		w := newTestWatcher(portal, &memoryStates{}, &recordingNotifier{})
		assert.Error(t, w.Run(context.Background()))
	})

	t.Run("state load", func(t *testing.T) {
		states := &memoryStates{loadErr: errors.New("disk gone")}
		w := newTestWatcher(&fakePortal{}, states, &recordingNotifier{})
		assert.Error(t, w.Run(context.Background()))
	})
}
