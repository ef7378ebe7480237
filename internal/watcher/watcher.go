// Package watcher implements the grade change detection cycle.
//
// A cycle walks the live term's courses, compares each freshly fetched
// result against the persisted snapshot, emails on change and persists
// the updated state. The watcher owns the grade state for the duration
// of a cycle; nothing else mutates it.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/uqgrd/uqgrd/internal/domain/grade"
	"github.com/uqgrd/uqgrd/internal/domain/semester"
	"github.com/uqgrd/uqgrd/internal/domain/shared"
	"github.com/uqgrd/uqgrd/internal/domain/transcript"
	"github.com/uqgrd/uqgrd/internal/infrastructure/notify"
)

// CredentialResolver supplies the portal login.
type CredentialResolver interface {
	Resolve() (username, password string, err error)
}

// PortalClient is the subset of the portal API the watcher needs.
type PortalClient interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	FetchTranscript(ctx context.Context, token string) ([]transcript.Entry, error)
	FetchCourseDetail(ctx context.Context, token string, code semester.Code, sigle string, group int) (grade.Detail, error)
}

// Notifier delivers a grade change alert. Best effort: a failure is
// logged by the watcher and never blocks the state update.
type Notifier interface {
	Notify(ctx context.Context, recipient, sigle, title string, detail grade.Detail) error
}

// Config contains watcher settings.
type Config struct {
	// RecipientDomain builds the alert address as {username}@{domain}.
	RecipientDomain string
}

// CycleStats summarizes one cycle for logging.
type CycleStats struct {
	Semester semester.Code
	Checked  int
	Changed  int
	Notified int
	Failed   int
}

// Watcher runs the change detection cycle. It implements scheduler.Job.
type Watcher struct {
	credentials CredentialResolver
	portal      PortalClient
	states      grade.StateRepository
	notifier    Notifier
	logger      *slog.Logger
	config      Config

	// now is swapped out in tests to pin the active semester.
	now func() time.Time
}

// New creates a Watcher.
func New(
	credentials CredentialResolver,
	portal PortalClient,
	states grade.StateRepository,
	notifier Notifier,
	logger *slog.Logger,
	config Config,
) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		credentials: credentials,
		portal:      portal,
		states:      states,
		notifier:    notifier,
		logger:      logger,
		config:      config,
		now:         time.Now,
	}
}

// Name returns the job name.
func (w *Watcher) Name() string {
	return "check_grades"
}

// Description returns a human-readable description.
func (w *Watcher) Description() string {
	return "Checks the live term's grades against the last observed state and emails on change"
}

// Run executes one full cycle. A returned error means the whole cycle
// was skipped (credentials, auth, transcript, state); per-course
// failures are logged and absorbed so the remaining courses still get
// checked.
func (w *Watcher) Run(ctx context.Context) error {
	log := w.logger.With("cycle_id", uuid.NewString())

	username, password, err := w.credentials.Resolve()
	if err != nil {
		return fmt.Errorf("resolve credentials: %w", err)
	}

	state, err := w.states.Load(ctx)
	if err != nil {
		return fmt.Errorf("load grade state: %w", err)
	}

	token, err := w.portal.Authenticate(ctx, username, password)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	current := semester.CodeAt(w.now())
	entries, err := w.portal.FetchTranscript(ctx, token)
	if err != nil {
		return fmt.Errorf("fetch transcript: %w", err)
	}

	// The daemon only ever tracks the live term. No fallback to an
	// older semester here; that behavior belongs to the one-shot
	// grades command alone.
	entry := transcript.FindSemester(entries, current)
	if entry == nil {
		log.Info("no active semester found, nothing to check",
			"semester", semester.FormatName(current),
		)
		return nil
	}

	stats := w.checkSemester(ctx, log, token, username, entry, state)

	log.Info("cycle completed",
		"semester", semester.FormatName(stats.Semester),
		"checked", stats.Checked,
		"changed", stats.Changed,
		"notified", stats.Notified,
		"failed", stats.Failed,
	)

	if stats.Changed > 0 {
		if err := w.states.Save(ctx, state); err != nil {
			return fmt.Errorf("save grade state: %w", err)
		}
	}

	return nil
}

// checkSemester walks every activity in the entry, mutating state in
// place and returning the cycle stats.
func (w *Watcher) checkSemester(
	ctx context.Context,
	log *slog.Logger,
	token, username string,
	entry *transcript.Entry,
	state grade.State,
) CycleStats {
	stats := CycleStats{Semester: entry.Semester}
	recipient := notify.RecipientFor(username, w.config.RecipientDomain)

	for _, program := range entry.Programs {
		for _, activity := range program.Activities {
			detail, err := w.portal.FetchCourseDetail(ctx, token, entry.Semester, activity.Sigle, activity.Group)
			if err != nil {
				// Per-course skip: the rest of the cycle proceeds.
				stats.Failed++
				log.Warn("failed to fetch course detail",
					"sigle", activity.Sigle,
					"error", err,
				)
				continue
			}
			stats.Checked++

			var prev *grade.Snapshot
			if snap, ok := state[activity.Sigle]; ok {
				prev = &snap
			}

			if !grade.HasChanged(prev, detail) {
				continue
			}
			stats.Changed++

			log.Info("grade change detected",
				"sigle", activity.Sigle,
				"title", activity.Title,
			)

			if err := w.notifier.Notify(ctx, recipient, activity.Sigle, activity.Title, detail); err != nil {
				// An SMTP outage is transient; anything else (bad
				// config, bad address) needs operator attention.
				if shared.IsExternalService(err) {
					log.Warn("notification delivery failed",
						"sigle", activity.Sigle,
						"error", err,
					)
				} else {
					log.Error("failed to send notification",
						"sigle", activity.Sigle,
						"error", err,
					)
				}
			} else {
				stats.Notified++
			}

			// The snapshot tracks observed reality, not delivery:
			// it is updated even when the email failed.
			state[activity.Sigle] = grade.SnapshotOf(detail)
		}
	}

	return stats
}

// WithClock overrides the time source. Test hook.
func (w *Watcher) WithClock(now func() time.Time) *Watcher {
	w.now = now
	return w
}
