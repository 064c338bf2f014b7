// Package form drives the login, registration and product forms: per-field
// validation on blur, whole-form validation on submit and mapping of server
// failures to displayable message keys.
package form

import (
	"context"
	"errors"
	"sync"

	"github.com/rogerio-castellano/invoice-pricelist/internal/client/gateway"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/i18n"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/validate"
)

type State int

const (
	Empty State = iota
	Editing
	Submitting
	Success
	Rejected
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

var (
	// ErrInvalid is returned by Submit when client-side validation fails.
	ErrInvalid = errors.New("form has invalid fields")
	// ErrBusy is returned by Submit while a previous submission is running.
	ErrBusy = errors.New("form is already submitting")
)

// Field is a named input with its rules, evaluated in order.
type Field struct {
	Name  string
	Rules []validate.Rule
}

// Submitter sends the validated draft somewhere.
type Submitter func(ctx context.Context, values validate.Values) error

type Form struct {
	mu         sync.Mutex
	fields     []Field
	values     validate.Values
	errors     map[string]string
	formErrors []string
	state      State
	outcome    State
}

func New(fields ...Field) *Form {
	return &Form{
		fields: fields,
		values: validate.Values{},
		errors: map[string]string{},
	}
}

func (f *Form) field(name string) (Field, bool) {
	for _, fd := range f.fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return Field{}, false
}

// Change stores value and clears the field's error and any form-level error.
func (f *Form) Change(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[name] = value
	delete(f.errors, name)
	f.formErrors = nil
	if f.state != Submitting {
		f.state = Editing
	}
}

// Blur validates a single field.
func (f *Form) Blur(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fd, ok := f.field(name)
	if !ok {
		return
	}
	if key := validate.Check(f.values[name], f.values, fd.Rules...); key != "" {
		f.errors[name] = key
	} else {
		delete(f.errors, name)
	}
}

// Submit validates every field and, when all pass, calls submit. A successful
// submission clears the draft. Failures are mapped to message keys and left
// on the form; the returned error is the one that caused them.
func (f *Form) Submit(ctx context.Context, submit Submitter) error {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return ErrBusy
	}

	f.formErrors = nil
	valid := true
	for _, fd := range f.fields {
		if key := validate.Check(f.values[fd.Name], f.values, fd.Rules...); key != "" {
			f.errors[fd.Name] = key
			valid = false
		} else {
			delete(f.errors, fd.Name)
		}
	}
	if !valid {
		f.state = Editing
		f.mu.Unlock()
		return ErrInvalid
	}

	f.state = Submitting
	values := make(validate.Values, len(f.values))
	for k, v := range f.values {
		values[k] = v
	}
	f.mu.Unlock()

	err := submit(ctx, values)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		f.reset()
		f.outcome = Success
		return nil
	}

	f.outcome = Rejected
	f.formErrors = ErrorKeys(err)
	f.state = Editing
	return err
}

// serverMessages maps the API's 400 messages to catalog keys.
var serverMessages = map[string]string{
	"Product/Service name is required":         i18n.ProductRequired,
	"Valid sale price is required":             i18n.SalePriceInvalid,
	"Valid unit is required":                   i18n.UnitInvalid,
	"In price must be a valid number":          i18n.InPriceInvalid,
	"In price must be a valid positive number": i18n.InPriceInvalid,
	"In stock must be a valid number":          i18n.InStockInvalid,
	"In stock must be a valid positive number": i18n.InStockInvalid,
	"All fields are required":                  i18n.FieldsRequired,
	"Email and password are required":          i18n.FieldsRequired,
	"Name must be at least 2 characters":       i18n.NameMinLength,
	"Password must be at least 6 characters":   i18n.PasswordMinLength,
	"Invalid email format":                     i18n.EmailInvalid,
}

// ErrorKeys maps an API failure to the message keys shown for it. Server
// messages without a catalog entry become the generic server error.
func ErrorKeys(err error) []string {
	var vErr *gateway.ValidationError
	var conflict *gateway.ConflictError
	var authErr *gateway.AuthError
	var tooMany *gateway.TooManyRequestsError
	var notFound *gateway.NotFoundError
	switch {
	case errors.As(err, &vErr) && len(vErr.Messages) > 0:
		keys := make([]string, 0, len(vErr.Messages))
		seen := map[string]bool{}
		for _, msg := range vErr.Messages {
			key, ok := serverMessages[msg]
			if !ok {
				key = i18n.ServerError
			}
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
		return keys
	case errors.As(err, &conflict):
		return []string{i18n.EmailAlreadyExists}
	case errors.As(err, &authErr):
		return []string{i18n.LoginFailed}
	case errors.As(err, &tooMany):
		return []string{i18n.TooManyAttempts}
	case errors.As(err, &notFound):
		return []string{i18n.ProductNotFound}
	case errors.Is(err, gateway.ErrSessionExpired):
		return []string{i18n.SessionExpired}
	default:
		return []string{i18n.ServerError}
	}
}

func (f *Form) reset() {
	f.values = validate.Values{}
	f.errors = map[string]string{}
	f.formErrors = nil
	f.state = Empty
}

// Reset discards the draft.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Outcome reports how the last submission ended: Success, Rejected or Empty
// when nothing has been submitted.
func (f *Form) Outcome() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome
}

func (f *Form) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

// Error returns the message key shown under a field, or "".
func (f *Form) Error(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[name]
}

// Errors returns the field errors in field order as name/key pairs.
func (f *Form) Errors() []FieldError {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []FieldError
	for _, fd := range f.fields {
		if key, ok := f.errors[fd.Name]; ok {
			out = append(out, FieldError{Field: fd.Name, Key: key})
		}
	}
	return out
}

// FormErrors returns the messages not tied to a single field.
func (f *Form) FormErrors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.formErrors...)
}

type FieldError struct {
	Field string
	Key   string
}
