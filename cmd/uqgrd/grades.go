package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nexidian/gocliselect"
	"github.com/spf13/cobra"

	"github.com/uqgrd/uqgrd/config"
	"github.com/uqgrd/uqgrd/internal/domain/semester"
	"github.com/uqgrd/uqgrd/internal/domain/shared"
	"github.com/uqgrd/uqgrd/internal/domain/transcript"
	"github.com/uqgrd/uqgrd/internal/infrastructure/credentials"
	"github.com/uqgrd/uqgrd/internal/infrastructure/external/portal"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle       = lipgloss.NewStyle().Bold(true)
)

func newGradesCmd(cfg *config.Config) *cobra.Command {
	var current bool

	cmd := &cobra.Command{
		Use:   "grades",
		Short: "Show the grades of a semester",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showGrades(cmd.Context(), cfg, current)
		},
	}

	cmd.Flags().BoolVar(&current, "current", false, "show the current semester without prompting")

	return cmd
}

func showGrades(ctx context.Context, cfg *config.Config, current bool) error {
	store, err := credentials.NewStore()
	if err != nil {
		return err
	}
	username, password, err := store.Resolve()
	if err != nil {
		if errors.Is(err, shared.ErrCredentialsNotFound) {
			return errors.New("no stored credentials, run 'uqgrd credentials' first")
		}
		return err
	}

	client := portal.NewClient(portal.ClientConfig{
		BaseURL: cfg.Portal.BaseURL,
		Timeout: cfg.Portal.RequestTimeout,
	})

	token, err := client.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}

	entries, err := client.FetchTranscript(ctx, token)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return errors.New("the portal returned an empty transcript")
	}

	entry, err := selectSemester(entries, current)
	if err != nil {
		return err
	}
	program, err := selectProgram(entry, current)
	if err != nil {
		return err
	}

	renderGrades(ctx, client, token, entry, program)
	return nil
}

// selectSemester picks the transcript entry to display. With --current
// the live term is used, falling back to the most recent entry when the
// live term has no results yet. Otherwise the user picks from a menu.
func selectSemester(entries []transcript.Entry, current bool) (*transcript.Entry, error) {
	if current {
		code := semester.CurrentCode()
		if entry := transcript.FindSemester(entries, code); entry != nil {
			return entry, nil
		}
		// Entries are sorted most recent first.
		fmt.Printf("No results for %s yet, showing %s instead.\n",
			semester.FormatName(code), semester.FormatName(entries[0].Semester))
		return &entries[0], nil
	}

	menu := gocliselect.NewMenu("Choose a semester")
	for _, entry := range entries {
		menu.AddItem(semester.FormatName(entry.Semester), strconv.Itoa(int(entry.Semester)))
	}

	choice := menu.Display()
	if choice == "" {
		return nil, errors.New("no semester selected")
	}
	code, err := strconv.Atoi(choice)
	if err != nil {
		return nil, fmt.Errorf("invalid semester selection %q", choice)
	}

	entry := transcript.FindSemester(entries, semester.Code(code))
	if entry == nil {
		return nil, fmt.Errorf("semester %s not found in transcript", semester.FormatName(semester.Code(code)))
	}
	return entry, nil
}

// selectProgram picks the program enrollment to display. With --current
// the first program is taken so the command stays non-interactive; the
// menu only appears when the user is already picking things by hand.
func selectProgram(entry *transcript.Entry, current bool) (*transcript.ProgramEnrollment, error) {
	if len(entry.Programs) == 0 {
		return nil, errors.New("no program enrollment for this semester")
	}
	if current || len(entry.Programs) == 1 {
		return &entry.Programs[0], nil
	}

	menu := gocliselect.NewMenu("Choose a program")
	for i, program := range entry.Programs {
		menu.AddItem(fmt.Sprintf("%s (%s)", program.Title, program.Code), strconv.Itoa(i))
	}

	choice := menu.Display()
	index, err := strconv.Atoi(choice)
	if err != nil || index < 0 || index >= len(entry.Programs) {
		return nil, errors.New("no program selected")
	}
	return &entry.Programs[index], nil
}

// renderGrades prints one table row per course. A failed detail fetch
// becomes an error cell so one broken course never hides the others.
func renderGrades(
	ctx context.Context,
	client *portal.Client,
	token string,
	entry *transcript.Entry,
	program *transcript.ProgramEnrollment,
) {
	fmt.Println()
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s  %s (%s)",
		semester.FormatName(entry.Semester), program.Title, program.Code)))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers("SIGLE", "TITRE", "TOTAL", "NOTE")

	for _, activity := range program.Activities {
		t.Row(gradeRow(ctx, client, token, entry.Semester, activity)...)
	}

	fmt.Println(t)
}

func gradeRow(
	ctx context.Context,
	client *portal.Client,
	token string,
	code semester.Code,
	activity transcript.ActivityRecord,
) []string {
	detail, err := client.FetchCourseDetail(ctx, token, code, activity.Sigle, activity.Group)
	if err != nil {
		// A course with no published detail is normal early in the
		// term; only transport and payload problems show as errors.
		if shared.IsNotFound(err) {
			return []string{activity.Sigle, activity.Title, "N/A", "N/A"}
		}
		return []string{activity.Sigle, activity.Title, "erreur", "erreur"}
	}

	total := "N/A"
	if detail.Total != nil {
		total = fmt.Sprintf("%.2f %%", *detail.Total)
	}

	letter := "N/A"
	switch {
	case detail.Letter != nil:
		letter = *detail.Letter
	case activity.InlineGrade != nil:
		letter = *activity.InlineGrade
	}

	return []string{activity.Sigle, activity.Title, total, letter}
}
