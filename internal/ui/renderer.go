// Package ui handles terminal output and formatting.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/diogo/cryptointel-go/pkg/form"
	"github.com/diogo/cryptointel-go/pkg/models"
)

// Renderer handles terminal output formatting.
type Renderer struct {
	mu        sync.Mutex
	out       io.Writer
	mdRender  *glamour.TermRenderer
	width     int
	useColors bool
}

// Styles for different output elements.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("82"))

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	LinkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Underline(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	SpinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
)

const timeLayout = "2006-01-02 15:04"

// NewRenderer creates a new output renderer.
func NewRenderer() (*Renderer, error) {
	return NewRendererWithOptions(os.Stdout, 80, true)
}

// NewRendererWithOptions creates a renderer with custom options.
func NewRendererWithOptions(out io.Writer, width int, useColors bool) (*Renderer, error) {
	style := "dark"
	if !useColors {
		style = "notty"
	}

	mdRender, err := glamour.NewTermRenderer(
		glamour.WithWordWrap(width),
		glamour.WithStylePath(style),
	)
	if err != nil {
		// Fallback to basic renderer
		mdRender, _ = glamour.NewTermRenderer(
			glamour.WithWordWrap(width),
		)
	}

	return &Renderer{
		out:       out,
		mdRender:  mdRender,
		width:     width,
		useColors: useColors,
	}, nil
}

func (r *Renderer) println(styled lipgloss.Style, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.useColors {
		fmt.Fprintln(r.out, styled.Render(msg))
	} else {
		fmt.Fprintln(r.out, msg)
	}
}

// RenderMarkdown renders markdown content.
func (r *Renderer) RenderMarkdown(content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mdRender == nil {
		fmt.Fprintln(r.out, content)
		return nil
	}

	rendered, err := r.mdRender.Render(content)
	if err != nil {
		// Fallback to raw content on error
		fmt.Fprintln(r.out, content)
		return nil
	}

	fmt.Fprint(r.out, rendered)
	return nil
}

// RenderOutcome renders the result of a submission.
// Forms that have not been resolved print nothing.
func (r *Renderer) RenderOutcome(f form.Form) {
	switch f.State() {
	case form.StateSucceeded:
		r.RenderSuccess(f.Message())
	case form.StateFailed:
		r.println(ErrorStyle, f.Message())
	}
}

// TiersMarkdown describes the report tiers as a markdown table.
func TiersMarkdown(midLabel string) string {
	var b strings.Builder
	b.WriteString("## Report tiers\n\n")
	b.WriteString("| Tier | Report | Sent as | Email |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, rt := range models.AvailableReportTypes {
		email := "not sent"
		if rt.RequiresEmail() {
			email = "required"
		}
		fmt.Fprintf(&b, "| %s | %s | `%s` | %s |\n", rt, rt.DisplayName(), rt.WireLabel(midLabel), email)
	}
	b.WriteString("\nPaid tiers open a checkout page in your browser.\n")
	return b.String()
}

// RenderTiers renders the report tier table.
func (r *Renderer) RenderTiers(midLabel string) error {
	return r.RenderMarkdown(TiersMarkdown(midLabel))
}

// RenderTestResponse prints the message of the diagnostic endpoint as sent.
func (r *Renderer) RenderTestResponse(resp *models.TestResponse) {
	if resp.Message == "" {
		r.RenderInfo("(no message)")
		return
	}
	r.RenderSuccess(resp.Message)
}

// RenderHistoryList renders a numbered list of history entries.
func (r *Renderer) RenderHistoryList(entries []models.HistoryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, entry := range entries {
		num := fmt.Sprintf("[%d]", i+1)
		id := entry.ID
		if len(id) > 8 {
			id = id[:8]
		}
		status := entry.State
		if r.useColors {
			num = DimStyle.Render(num)
			id = DimStyle.Render(id)
			status = stateStyle(entry.State).Render(entry.State)
		}
		fmt.Fprintf(r.out, "%s %s %s\n", num, entry.Timestamp.Format(timeLayout), id)
		fmt.Fprintf(r.out, "    %s\n", entry.Query)
		fmt.Fprintf(r.out, "    Tier: %s, %s\n", entry.ReportType, status)
		fmt.Fprintln(r.out)
	}
}

// RenderHistoryEntry renders a single history entry in full.
func (r *Renderer) RenderHistoryEntry(entry models.HistoryEntry) {
	r.RenderTitle("History Entry")

	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "ID:        %s\n", entry.ID)
	fmt.Fprintf(r.out, "Timestamp: %s\n", entry.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(r.out, "Query:     %s\n", entry.Query)
	fmt.Fprintf(r.out, "Tier:      %s\n", entry.ReportType)
	fmt.Fprintf(r.out, "State:     %s\n", entry.State)
	if entry.Message != "" {
		fmt.Fprintf(r.out, "Message:   %s\n", entry.Message)
	}
	if entry.RedirectURL != "" {
		link := entry.RedirectURL
		if r.useColors {
			link = LinkStyle.Render(link)
		}
		fmt.Fprintf(r.out, "Checkout:  %s\n", link)
	}
}

func stateStyle(state string) lipgloss.Style {
	switch state {
	case form.StateSucceeded.String():
		return SuccessStyle
	case form.StateFailed.String():
		return ErrorStyle
	}
	return InfoStyle
}

// RenderError renders an error message.
func (r *Renderer) RenderError(err error) {
	r.println(ErrorStyle, "Error: "+err.Error())
}

// RenderSuccess renders a success message.
func (r *Renderer) RenderSuccess(msg string) {
	r.println(SuccessStyle, msg)
}

// RenderWarning renders a warning message.
func (r *Renderer) RenderWarning(msg string) {
	r.println(WarningStyle, "Warning: "+msg)
}

// RenderInfo renders an info message.
func (r *Renderer) RenderInfo(msg string) {
	r.println(InfoStyle, msg)
}

// RenderKeyValue renders an aligned "key: value" line.
func (r *Renderer) RenderKeyValue(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	label := fmt.Sprintf("%-20s", key+":")
	if r.useColors {
		label = DimStyle.Render(label)
	}
	fmt.Fprintf(r.out, "%s %s\n", label, value)
}

// RenderTitle renders a title.
func (r *Renderer) RenderTitle(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.useColors {
		fmt.Fprintln(r.out, TitleStyle.Render(title))
	} else {
		fmt.Fprintln(r.out, strings.ToUpper(title))
		fmt.Fprintln(r.out, strings.Repeat("=", len(title)))
	}
}

// RenderSpinner renders a spinner character.
func (r *Renderer) RenderSpinner(frame int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := frame % len(SpinnerChars)
	fmt.Fprintf(r.out, "\r%s ", SpinnerChars[idx])
}

// ClearLine clears the current line.
func (r *Renderer) ClearLine() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.out, "\r\033[K")
}

// NewLine prints a newline.
func (r *Renderer) NewLine() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out)
}

// StartSpinner animates a spinner until the returned stop function is called.
// stop clears the spinner line and waits for the animation goroutine to exit.
// It is safe to call stop more than once.
func (r *Renderer) StartSpinner(interval time.Duration) (stop func()) {
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		frame := 0
		for {
			select {
			case <-done:
				r.ClearLine()
				return
			case <-ticker.C:
				r.RenderSpinner(frame)
				frame++
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-exited
		})
	}
}
