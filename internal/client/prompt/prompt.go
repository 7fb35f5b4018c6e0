// Package prompt reads form answers from a line-oriented terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/atinyakov/RentVerify/internal/stepper"
)

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// New returns a Prompter over in and out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Line prints label and returns the trimmed answer. It returns io.EOF
// once input is exhausted.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// Step asks for every field of step. An empty answer keeps the value
// already in draft. Answers that do not parse as the field's kind are
// asked again.
func (p *Prompter) Step(step stepper.Step, draft map[string]any) (map[string]any, error) {
	fmt.Fprintf(p.out, "== %s ==\n", step.Label)
	out := make(map[string]any, len(step.Fields))
	for _, f := range step.Fields {
		current, has := draft[f.Name]
		for {
			label := f.Label
			if has && current != nil {
				label += fmt.Sprintf(" [%s]", display(current))
			}
			answer, err := p.Line(label + ": ")
			if err != nil {
				return nil, err
			}
			if answer == "" && has {
				out[f.Name] = current
				break
			}
			v, err := f.Coerce(answer)
			if err != nil {
				fmt.Fprintf(p.out, "  %s\n", err)
				continue
			}
			out[f.Name] = v
			break
		}
	}
	return out, nil
}

func display(v any) string {
	switch t := v.(type) {
	case []string:
		return strings.Join(t, ", ")
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ", ")
	case bool:
		if t {
			return "yes"
		}
		return "no"
	case float64:
		return fmt.Sprintf("%g", t)
	}
	return fmt.Sprint(v)
}
