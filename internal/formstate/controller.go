// Package formstate keeps the per-visitor state of the alumni form: values,
// visited fields, validation errors, focus and the submission lifecycle.
package formstate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"alumni-form/internal/models"
	"alumni-form/internal/validation"
)

// ErrSubmitInProgress is returned when a second submit arrives while the first
// is still waiting on the submitter.
var ErrSubmitInProgress = errors.New("submission already in progress")

// Submitter sends a completed record somewhere. Implementations must honour
// ctx cancellation.
type Submitter interface {
	Submit(ctx context.Context, record models.FormRecord) (reference string, err error)
}

// Stopper is the part of *time.Timer the controller needs.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Stopper

func realAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// DefaultSuccessDuration applies when Options.SuccessDuration is nil.
const DefaultSuccessDuration = 3 * time.Second

// Options configures a Controller.
type Options struct {
	Submitter Submitter
	// SuccessDuration is how long the confirmation stays up before Reset. It
	// is read on every successful submit so reloaded config takes effect.
	SuccessDuration func() time.Duration
	// AfterFunc defaults to time.AfterFunc.
	AfterFunc AfterFunc
}

// SubmitResult describes the outcome of a submit that did not fail outright.
type SubmitResult struct {
	Submitted    bool
	Reference    string
	FirstInvalid models.Field
}

// FieldState is the derived, render-ready view of one field.
type FieldState struct {
	Field   models.Field
	Value   string
	Touched bool
	Error   string
	Focused bool
}

// HasError reports whether an error should be displayed.
func (s FieldState) HasError() bool {
	return s.Touched && s.Error != ""
}

// IsValid reports whether the field should show the "valid" mark. The national
// ID shows it as soon as it has been visited.
func (s FieldState) IsValid() bool {
	if s.Field == models.NationalID {
		return s.Touched
	}
	return s.Value != "" && s.Error == "" && s.Touched
}

// Snapshot is a copy of the controller state that is safe to render.
type Snapshot struct {
	Record         models.FormRecord
	Fields         map[models.Field]FieldState
	Completion     int
	Submitting     bool
	ShowSuccess    bool
	ShowNationalID bool
	Reference      string
	Failure        string
	// ResetAfter is the delay the pending reset was scheduled with.
	ResetAfter time.Duration
}

// Controller holds the form state for one visitor.
type Controller struct {
	mu sync.Mutex

	record         models.FormRecord
	touched        map[models.Field]bool
	errors         map[models.Field]string
	focused        models.Field
	showNationalID bool
	submitting     bool
	showSuccess    bool
	reference      string
	failure        string
	resetAfter     time.Duration
	resetTimer     Stopper
	// generation changes on every reset and success so a timer that fired
	// late cannot reset newer state.
	generation uint64

	submitter       Submitter
	successDuration func() time.Duration
	afterFunc       AfterFunc
}

// NewController creates an empty form state.
func NewController(opts Options) *Controller {
	after := opts.AfterFunc
	if after == nil {
		after = realAfterFunc
	}
	success := opts.SuccessDuration
	if success == nil {
		success = func() time.Duration { return DefaultSuccessDuration }
	}
	return &Controller{
		touched:         make(map[models.Field]bool),
		errors:          make(map[models.Field]string),
		submitter:       opts.Submitter,
		successDuration: success,
		afterFunc:       after,
	}
}

// Restore loads a previously saved draft. Touched state and errors are not
// part of a draft and start empty.
func (c *Controller) Restore(record models.FormRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record = record
}

// UpdateField stores a new value without validating it.
func (c *Controller) UpdateField(field models.Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record.Set(field, value)
}

// Focus marks field as the one holding input focus.
func (c *Controller) Focus(field models.Field) error {
	if _, err := models.ParseField(string(field)); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.focused = field
	return nil
}

// Blur marks field as touched and validates its current value.
func (c *Controller) Blur(field models.Field) (FieldState, error) {
	if _, err := models.ParseField(string(field)); err != nil {
		return FieldState{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.touched[field] = true
	c.errors[field] = validation.Validate(field, c.record.Get(field))
	if c.focused == field {
		c.focused = ""
	}
	return c.fieldStateLocked(field), nil
}

// ToggleNationalID switches the national ID input between masked and plain.
func (c *Controller) ToggleNationalID() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showNationalID = !c.showNationalID
	return c.showNationalID
}

// ValidateAll validates every field and replaces all stored errors.
func (c *Controller) ValidateAll() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateAllLocked()
}

func (c *Controller) validateAllLocked() bool {
	errs, ok := validation.ValidateAll(c.record)
	c.errors = errs
	return ok
}

// Submit runs the submission flow. Every field is marked touched and
// validated first; an invalid form returns the first invalid field and does
// not reach the submitter. A submitter error is returned as is and leaves the
// entered values in place so the visitor can retry.
func (c *Controller) Submit(ctx context.Context) (SubmitResult, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return SubmitResult{}, ErrSubmitInProgress
	}
	for _, f := range models.Fields {
		c.touched[f] = true
	}
	c.failure = ""
	if !c.validateAllLocked() {
		first, _ := validation.FirstInvalid(c.errors)
		c.mu.Unlock()
		return SubmitResult{FirstInvalid: first}, nil
	}
	if c.submitter == nil {
		c.mu.Unlock()
		return SubmitResult{}, errors.New("no submitter configured")
	}
	c.submitting = true
	record := c.record
	c.mu.Unlock()

	ref, err := c.submitter.Submit(ctx, record)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.failure = err.Error()
		return SubmitResult{}, fmt.Errorf("submit alumni form: %w", err)
	}

	c.showSuccess = true
	c.reference = ref
	c.stopResetTimerLocked()
	c.generation++
	gen := c.generation
	c.resetAfter = c.successDuration()
	c.resetTimer = c.afterFunc(c.resetAfter, func() { c.resetIfCurrent(gen) })
	return SubmitResult{Submitted: true, Reference: ref}, nil
}

// Reset returns the form to its initial empty state.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// resetIfCurrent is the timer callback; it does nothing once the success it
// was scheduled for has been superseded.
func (c *Controller) resetIfCurrent(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return
	}
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.generation++
	c.stopResetTimerLocked()
	c.record = models.FormRecord{}
	c.touched = make(map[models.Field]bool)
	c.errors = make(map[models.Field]string)
	c.focused = ""
	c.showSuccess = false
	c.resetAfter = 0
	c.reference = ""
	c.failure = ""
}

// Close releases the pending reset timer, if any.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.stopResetTimerLocked()
}

func (c *Controller) stopResetTimerLocked() {
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
}

// Record returns a copy of the current values.
func (c *Controller) Record() models.FormRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record
}

// Field returns the render state of a single field.
func (c *Controller) Field(field models.Field) FieldState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldStateLocked(field)
}

// Snapshot copies the whole state for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	fields := make(map[models.Field]FieldState, len(models.Fields))
	for _, f := range models.Fields {
		fields[f] = c.fieldStateLocked(f)
	}
	return Snapshot{
		Record:         c.record,
		Fields:         fields,
		Completion:     c.record.CompletionPercentage(),
		Submitting:     c.submitting,
		ShowSuccess:    c.showSuccess,
		ShowNationalID: c.showNationalID,
		Reference:      c.reference,
		Failure:        c.failure,
		ResetAfter:     c.resetAfter,
	}
}

func (c *Controller) fieldStateLocked(field models.Field) FieldState {
	return FieldState{
		Field:   field,
		Value:   c.record.Get(field),
		Touched: c.touched[field],
		Error:   c.errors[field],
		Focused: c.focused == field,
	}
}
