package ui

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/diogo/cryptointel-go/pkg/form"
	"github.com/diogo/cryptointel-go/pkg/models"
)

// SubmissionPrompt asks for a research query interactively.
// Nil In/Out fall back to the terminal.
type SubmissionPrompt struct {
	In         io.Reader
	Out        io.Writer
	Accessible bool
}

// answers holds the values bound to the huh fields.
type answers struct {
	query string
	tier  models.ReportType
	email string
}

func answersFrom(f form.Form) answers {
	tier := f.ReportType
	if !models.IsValidReportType(tier) {
		tier = models.ReportFree
	}
	return answers{query: f.Query, tier: tier, email: f.Email}
}

// apply copies the answers onto f. The email is kept only for the free tier.
func (a answers) apply(f form.Form) form.Form {
	f.Query = strings.TrimSpace(a.query)
	f.ReportType = a.tier
	if a.tier.RequiresEmail() {
		f.Email = strings.TrimSpace(a.email)
	}
	return f
}

func tierOptions() []huh.Option[models.ReportType] {
	options := make([]huh.Option[models.ReportType], len(models.AvailableReportTypes))
	for i, rt := range models.AvailableReportTypes {
		options[i] = huh.NewOption(rt.DisplayName(), rt)
	}
	return options
}

// Run shows the form seeded from initial and returns the filled-in form.
// The email question is only asked for the free tier.
// Returns huh.ErrUserAborted when the user cancels.
func (p SubmissionPrompt) Run(ctx context.Context, initial form.Form) (form.Form, error) {
	a := answersFrom(initial)

	details := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Research query").
				Description("What should the report investigate?").
				Placeholder("e.g. Outlook for Ethereum staking yields in 2026").
				Value(&a.query).
				Validate(form.ValidateQuery),
			huh.NewSelect[models.ReportType]().
				Title("Report type").
				Options(tierOptions()...).
				Value(&a.tier),
		),
	)
	if err := p.run(ctx, details); err != nil {
		return initial, err
	}

	if a.tier.RequiresEmail() {
		contact := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Description("The free report is sent to this address").
					Placeholder("you@example.com").
					Value(&a.email).
					Validate(form.ValidateEmail),
			),
		)
		if err := p.run(ctx, contact); err != nil {
			return initial, err
		}
	}

	return a.apply(initial), nil
}

func (p SubmissionPrompt) run(ctx context.Context, f *huh.Form) error {
	f = f.WithKeyMap(customKeyMap()).WithAccessible(p.Accessible)
	if p.In != nil {
		f = f.WithInput(p.In)
	}
	if p.Out != nil {
		f = f.WithOutput(p.Out)
	}
	return f.RunWithContext(ctx)
}
