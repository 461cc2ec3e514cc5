// Package submission drives a form through a single request to the API.
package submission

import (
	"context"
	"strings"

	"github.com/diogo/cryptointel-go/internal/browser"
	"github.com/diogo/cryptointel-go/pkg/form"
	"github.com/diogo/cryptointel-go/pkg/models"
	"go.uber.org/zap"
)

// Sender posts a submission. *client.Client implements it.
type Sender interface {
	Submit(ctx context.Context, req models.SubmitRequest) (*models.SubmitResult, error)
}

// Recorder stores the result of a submission. *history.Writer implements it.
type Recorder interface {
	Append(entry models.HistoryEntry) (models.HistoryEntry, error)
}

// Runner submits forms.
type Runner struct {
	sender    Sender
	navigator browser.Navigator
	recorder  Recorder
	midLabel  string
	logger    *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder records every resolved submission.
func WithRecorder(r Recorder) Option {
	return func(rn *Runner) { rn.recorder = r }
}

// WithMidTierLabel sets the wire label for the mid tier.
func WithMidTierLabel(label string) Option {
	return func(rn *Runner) { rn.midLabel = label }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(rn *Runner) { rn.logger = l }
}

// NewRunner creates a runner that sends with s and navigates with nav.
// A nil nav leaves checkout URLs in the form message for the caller to show.
func NewRunner(s Sender, nav browser.Navigator, opts ...Option) *Runner {
	r := &Runner{
		sender:    s,
		navigator: nav,
		midLabel:  models.DefaultMidLabel,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run submits f and returns the resolved form.
//
// Validation failures return the unchanged form and the validation error;
// nothing is sent. Once the request is issued, every failure is folded into
// the returned form (state Failed, with a message) and the error is nil.
func (r *Runner) Run(ctx context.Context, f form.Form) (form.Form, error) {
	submitting, err := f.Begin()
	if err != nil {
		return f, err
	}

	r.logger.Debug("submitting research query",
		zap.String("report_type", string(submitting.ReportType)),
		zap.Stringer("state", submitting.State()))

	res, sendErr := r.sender.Submit(ctx, submitting.Payload(r.midLabel))
	resolved := submitting.Resolve(res, sendErr)

	if resolved.State() == form.StateFailed {
		fields := []zap.Field{
			zap.String("report_type", string(resolved.ReportType)),
			zap.String("message", resolved.Message()),
		}
		if res != nil {
			fields = append(fields, zap.Int("status", res.StatusCode))
		}
		r.logger.Warn("submission failed", fields...)
	}

	if resolved.Outcome() == form.OutcomeRedirect && r.navigator != nil {
		navErr := r.navigator.Navigate(resolved.RedirectURL())
		if navErr != nil {
			r.logger.Warn("could not open checkout page", zap.Error(navErr))
		}
		resolved = resolved.Navigated(navErr)
	}

	r.logger.Debug("submission resolved",
		zap.Stringer("state", resolved.State()),
		zap.Stringer("outcome", resolved.Outcome()))

	r.record(resolved)
	return resolved, nil
}

func (r *Runner) record(f form.Form) {
	if r.recorder == nil {
		return
	}

	entry, err := r.recorder.Append(models.HistoryEntry{
		Query:       strings.TrimSpace(f.Query),
		ReportType:  string(f.ReportType),
		State:       f.State().String(),
		Message:     f.Message(),
		RedirectURL: f.RedirectURL(),
	})
	if err != nil {
		r.logger.Warn("failed to record history", zap.Error(err))
		return
	}
	r.logger.Debug("recorded history entry", zap.String("id", entry.ID))
}
