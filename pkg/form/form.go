// Package form models the research query submission form as a finite state
// machine with pure transitions.
//
// A Form is a value. Every transition returns a new Form and leaves the
// receiver untouched, so callers can keep the previous state around.
package form

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/diogo/cryptointel-go/pkg/models"
)

// Validation and transition errors.
var (
	ErrQueryRequired      = errors.New("research query is required")
	ErrEmailRequired      = errors.New("email is required for free reports")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidReportType  = errors.New("invalid report type")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
)

// User-facing messages set by Resolve.
const (
	MsgFreeConfirmed   = "Free report request submitted! Check your email."
	MsgGenericFailure  = "Something went wrong"
	MsgUnexpectedReply = "Unexpected response. Please try again."
)

// Form holds the user's input and the state of the last submission.
type Form struct {
	Query      string
	ReportType models.ReportType
	Email      string

	state       State
	message     string
	outcome     Outcome
	redirectURL string
}

// New returns an idle form on the free tier.
func New() Form {
	return Form{ReportType: models.ReportFree}
}

// State returns the current state.
func (f Form) State() State { return f.state }

// Loading reports whether a request is in flight.
func (f Form) Loading() bool { return f.state == StateSubmitting }

// Message returns the message to show the user, if any.
func (f Form) Message() string { return f.message }

// Outcome returns the outcome of a successful submission.
func (f Form) Outcome() Outcome { return f.outcome }

// RedirectURL returns the checkout URL for a paid-tier success.
func (f Form) RedirectURL() string { return f.redirectURL }

// Validate checks the required-field constraints.
func (f Form) Validate() error {
	if err := ValidateQuery(f.Query); err != nil {
		return err
	}
	if !models.IsValidReportType(f.ReportType) {
		return fmt.Errorf("%w: %q", ErrInvalidReportType, f.ReportType)
	}
	if f.ReportType.RequiresEmail() {
		return ValidateEmail(f.Email)
	}
	return nil
}

// ValidateQuery rejects empty or whitespace-only queries.
func ValidateQuery(q string) error {
	if strings.TrimSpace(q) == "" {
		return ErrQueryRequired
	}
	return nil
}

// ValidateEmail requires a bare address such as user@example.com.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return nil
}

// Payload builds the request body for the current input.
func (f Form) Payload(midLabel string) models.SubmitRequest {
	return models.NewSubmitRequest(
		strings.TrimSpace(f.Query),
		f.ReportType,
		strings.TrimSpace(f.Email),
		midLabel,
	)
}

// Begin moves a valid form into Submitting and clears the previous result.
// An invalid form, or one already submitting, is returned unchanged with an error.
func (f Form) Begin() (Form, error) {
	if f.state == StateSubmitting {
		return f, ErrSubmissionInFlight
	}
	if err := f.Validate(); err != nil {
		return f, err
	}

	f.state = StateSubmitting
	f.message = ""
	f.outcome = OutcomeNone
	f.redirectURL = ""
	return f, nil
}

// Resolve applies the result of the request to a submitting form.
// err is a transport or decoding failure; otherwise res must be non-nil.
// Forms that are not submitting are returned unchanged.
func (f Form) Resolve(res *models.SubmitResult, err error) Form {
	if f.state != StateSubmitting {
		return f
	}

	if err == nil && res == nil {
		err = errors.New("no response")
	}
	if err != nil {
		return f.fail(fmt.Sprintf("Request failed: %s", err.Error()))
	}

	if !res.OK() {
		detail := res.Body.DetailText()
		if detail == "" {
			detail = MsgGenericFailure
		}
		return f.fail(fmt.Sprintf("Error: %s", detail))
	}

	if !f.ReportType.IsPaid() {
		f.state = StateSucceeded
		f.outcome = OutcomeConfirmed
		f.message = MsgFreeConfirmed
		return f
	}

	if res.Body.URL == "" {
		return f.fail(MsgUnexpectedReply)
	}

	f.state = StateSucceeded
	f.outcome = OutcomeRedirect
	f.redirectURL = res.Body.URL
	f.message = fmt.Sprintf("Checkout ready: %s", res.Body.URL)
	return f
}

// Navigated records the result of opening the checkout page.
// A navigation failure keeps the success but tells the user where to go.
func (f Form) Navigated(err error) Form {
	if f.outcome != OutcomeRedirect {
		return f
	}
	if err != nil {
		f.message = fmt.Sprintf("Could not open a browser (%v). Complete checkout at: %s", err, f.redirectURL)
		return f
	}
	f.message = fmt.Sprintf("Opened checkout page: %s", f.redirectURL)
	return f
}

func (f Form) fail(msg string) Form {
	f.state = StateFailed
	f.outcome = OutcomeNone
	f.redirectURL = ""
	f.message = msg
	return f
}
