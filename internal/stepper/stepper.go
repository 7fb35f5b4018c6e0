// Package stepper drives a user through an ordered, fixed sequence of form
// steps, accumulating a draft and submitting it from the last step.
package stepper

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/atinyakov/RentVerify/internal/validate"
)

var (
	// ErrNotAtLastStep is returned by Submit before the last step is reached.
	ErrNotAtLastStep = errors.New("submit is only available on the last step")
	// ErrSubmitInProgress is returned when Submit is called while a previous
	// submission is still pending.
	ErrSubmitInProgress = errors.New("submission already in progress")
)

// Kind tells how raw input for a field is coerced.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindBool
	KindList
)

// Field declares one input of a step.
type Field struct {
	Name  string
	Label string
	Kind  Kind
	// Rules is a validator tag such as "required,email".
	Rules string
	// RequiredWith names a field that must be non-empty for Rules to apply.
	RequiredWith string
}

// Step is one section of the combined result.
type Step struct {
	ID     string
	Label  string
	Fields []Field
}

// SubmitFunc receives a copy of the full draft.
type SubmitFunc func(ctx context.Context, draft map[string]any) error

// ValidationError reports the fields of one step that failed their rules.
type ValidationError struct {
	Step   int
	StepID string
	Fields validate.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %q: %v", e.StepID, e.Fields)
}

func (e *ValidationError) Unwrap() error { return e.Fields }

// Controller holds the cursor, the completed set and the accumulated draft.
// It is safe for concurrent use.
type Controller struct {
	mu         sync.Mutex
	steps      []Step
	draft      map[string]any
	completed  map[int]bool
	cursor     int
	submitting bool

	validate *validator.Validate
	log      *zap.Logger
}

// New creates a controller at step 0 with an optional initial draft.
func New(steps []Step, initial map[string]any, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	draft := make(map[string]any, len(initial))
	for k, v := range initial {
		draft[k] = v
	}
	return &Controller{
		steps:     steps,
		draft:     draft,
		completed: make(map[int]bool),
		validate:  validate.New(),
		log:       log,
	}
}

// Steps returns the step descriptors.
func (c *Controller) Steps() []Step {
	return c.steps
}

// Cursor returns the index of the current step.
func (c *Controller) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// Submitting reports whether a submission is pending.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// IsComplete reports whether step i counts as complete: it lies before the
// cursor or was completed earlier.
func (c *Controller) IsComplete(i int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return i < c.cursor || c.completed[i]
}

// Draft returns a copy of the accumulated draft.
func (c *Controller) Draft() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyDraft()
}

// Advance coerces and validates partial against the current step, merges
// it into the draft, marks the step complete and moves forward. On the last
// step it merges and marks without moving. A failed validation leaves the
// controller unchanged.
func (c *Controller) Advance(partial map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	step := c.steps[c.cursor]
	merged := c.copyDraft()
	for k, v := range partial {
		merged[k] = v
	}
	if err := coerceStep(step, merged); err != nil {
		return &ValidationError{Step: c.cursor, StepID: step.ID, Fields: err}
	}
	if errs := c.validateStep(step, merged); len(errs) > 0 {
		return &ValidationError{Step: c.cursor, StepID: step.ID, Fields: errs}
	}

	c.draft = merged
	c.completed[c.cursor] = true
	if c.cursor < len(c.steps)-1 {
		c.cursor++
	}
	return nil
}

// Retreat moves back one step without touching the draft or completion
// marks. It reports whether the cursor moved.
func (c *Controller) Retreat() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cursor == 0 {
		return false
	}
	c.cursor--
	return true
}

// Submit validates every step and hands the draft to handler. It is only
// available on the last step. While handler runs Submitting reports true.
// A failure is logged and leaves cursor and draft in place for a retry.
func (c *Controller) Submit(ctx context.Context, handler SubmitFunc) error {
	c.mu.Lock()
	if c.cursor != len(c.steps)-1 {
		c.mu.Unlock()
		return ErrNotAtLastStep
	}
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmitInProgress
	}
	for i, step := range c.steps {
		if errs := c.validateStep(step, c.draft); len(errs) > 0 {
			c.mu.Unlock()
			return &ValidationError{Step: i, StepID: step.ID, Fields: errs}
		}
	}
	c.submitting = true
	draft := c.copyDraft()
	c.mu.Unlock()

	err := handler(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.log.Error("form submission failed", zap.Int("step", c.cursor), zap.Error(err))
		return err
	}
	c.completed[c.cursor] = true
	return nil
}

func (c *Controller) copyDraft() map[string]any {
	out := make(map[string]any, len(c.draft))
	for k, v := range c.draft {
		out[k] = v
	}
	return out
}

func (c *Controller) validateStep(step Step, draft map[string]any) validate.FieldErrors {
	errs := validate.FieldErrors{}
	for _, f := range step.Fields {
		if f.Rules == "" {
			continue
		}
		if f.RequiredWith != "" && isEmpty(draft[f.RequiredWith]) {
			continue
		}
		err := c.validate.Var(draft[f.Name], f.Rules)
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			errs[f.Name] = validate.Message(f.Name, ves[0])
		} else if err != nil {
			errs[f.Name] = err.Error()
		}
	}
	return errs
}

// coerceStep converts string input for typed fields in place.
func coerceStep(step Step, draft map[string]any) validate.FieldErrors {
	errs := validate.FieldErrors{}
	for _, f := range step.Fields {
		v, ok := draft[f.Name]
		if !ok {
			continue
		}
		coerced, err := f.Coerce(v)
		if err != nil {
			errs[f.Name] = err.Error()
			continue
		}
		draft[f.Name] = coerced
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Coerce converts raw input to the field's kind. Strings are parsed;
// values already of the right type pass through. Blank input becomes nil.
func (f Field) Coerce(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	s, isString := v.(string)
	if isString {
		s = strings.TrimSpace(s)
	}
	switch f.Kind {
	case KindNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case string:
			if s == "" {
				return nil, nil
			}
			parsed, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, errors.New("Must be a number")
			}
			return parsed, nil
		}
	case KindBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			switch strings.ToLower(s) {
			case "", "n", "no", "false":
				return false, nil
			case "y", "yes", "true":
				return true, nil
			}
			return nil, errors.New("Answer yes or no")
		}
	case KindList:
		switch l := v.(type) {
		case []string:
			return l, nil
		case []any:
			out := make([]string, 0, len(l))
			for _, item := range l {
				out = append(out, fmt.Sprint(item))
			}
			return out, nil
		case string:
			if s == "" {
				return []string{}, nil
			}
			parts := strings.Split(s, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			return out, nil
		}
	default:
		if isString {
			return s, nil
		}
		return v, nil
	}
	return nil, fmt.Errorf("unexpected value of type %T", v)
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}
