// Package fieldpath describes descent into nested length-delimited
// sub-messages as an ordered list of (field number, occurrence) steps.
package fieldpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/anirudhraja/protoscan/wire"
)

// ErrInvalidPath is returned by Parse for malformed path text.
var ErrInvalidPath = errors.New("invalid field path")

// Step selects the Index-th (1-based) occurrence of Field.
type Step struct {
	Field wire.FieldNumber
	Index int
}

// Occurrence returns the 1-based occurrence, treating zero as the first.
func (s Step) Occurrence() int {
	if s.Index < 1 {
		return 1
	}
	return s.Index
}

func (s Step) String() string {
	return fmt.Sprintf("%d[%d]", s.Field, s.Occurrence())
}

// Path is an ordered sequence of steps.
type Path []Step

// New builds a path from steps
func New(steps ...Step) Path {
	return Path(steps)
}

// Of builds a path selecting the first occurrence of each field
func Of(fields ...int) Path {
	p := make(Path, len(fields))
	for i, f := range fields {
		p[i] = Step{Field: wire.FieldNumber(f), Index: 1}
	}
	return p
}

// Append returns a new path with steps added to the end
func (p Path) Append(steps ...Step) Path {
	out := make(Path, 0, len(p)+len(steps))
	out = append(out, p...)
	return append(out, steps...)
}

// Parent returns the path without its last step
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Last returns the final step
func (p Path) Last() (Step, bool) {
	if len(p) == 0 {
		return Step{}, false
	}
	return p[len(p)-1], true
}

// String formats the path in canonical form, e.g. "1[1].2[3]"
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Segments returns the formatted steps, used to label decode errors
func (p Path) Segments() []string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return parts
}

// Parse reads a path such as "2", "2[1]" or "1[1].2[3].4". A step without
// an index selects the first occurrence.
func Parse(text string) (Path, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPath)
	}

	parts := strings.Split(text, ".")
	p := make(Path, 0, len(parts))
	for i, part := range parts {
		step, err := parseStep(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: step %d %q: %v", ErrInvalidPath, i+1, part, err)
		}
		p = append(p, step)
	}
	return p, nil
}

// MustParse is like Parse but panics on error. It is meant for constants.
func MustParse(text string) Path {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}

func parseStep(s string) (Step, error) {
	if s == "" {
		return Step{}, errors.New("empty step")
	}

	number, index := s, "1"
	if open := strings.IndexByte(s, '['); open >= 0 {
		if !strings.HasSuffix(s, "]") {
			return Step{}, errors.New("unterminated index")
		}
		number, index = s[:open], s[open+1:len(s)-1]
	}

	f, err := strconv.ParseInt(number, 10, 64)
	if err != nil {
		return Step{}, fmt.Errorf("field number: %v", err)
	}
	if f < 1 || f > int64(wire.MaxFieldNumber) {
		return Step{}, fmt.Errorf("field number %d out of range", f)
	}

	n, err := strconv.Atoi(index)
	if err != nil {
		return Step{}, fmt.Errorf("index: %v", err)
	}
	if n < 1 {
		return Step{}, fmt.Errorf("index %d must be at least 1", n)
	}

	return Step{Field: wire.FieldNumber(f), Index: n}, nil
}
