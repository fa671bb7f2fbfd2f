package fieldpath

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input     string
		expected  Path
		canonical string
	}{
		{input: "2", expected: Path{{Field: 2, Index: 1}}, canonical: "2[1]"},
		{input: "2[2]", expected: Path{{Field: 2, Index: 2}}, canonical: "2[2]"},
		{
			input:     "1[1].2[3].4",
			expected:  Path{{Field: 1, Index: 1}, {Field: 2, Index: 3}, {Field: 4, Index: 1}},
			canonical: "1[1].2[3].4[1]",
		},
		{input: " 11 . 5 ", expected: Path{{Field: 11, Index: 1}, {Field: 5, Index: 1}}, canonical: "11[1].5[1]"},
		{input: "536870911", expected: Path{{Field: 536870911, Index: 1}}, canonical: "536870911[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if !reflect.DeepEqual(p, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, p)
			}
			if p.String() != tt.canonical {
				t.Errorf("expected canonical %q, got %q", tt.canonical, p.String())
			}

			// The canonical form parses back to the same path
			again, err := Parse(p.String())
			if err != nil || !reflect.DeepEqual(again, p) {
				t.Errorf("canonical form did not round-trip: %v, %v", again, err)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"1..2",
		"0",
		"-1",
		"536870912",
		"a",
		"1[0]",
		"1[-2]",
		"1[2",
		"1[x]",
		"1.",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if !errors.Is(err, ErrInvalidPath) {
				t.Fatalf("expected ErrInvalidPath for %q, got %v", input, err)
			}
		})
	}
}

func TestPathHelpers(t *testing.T) {
	p := Of(1, 2, 3)
	if p.String() != "1[1].2[1].3[1]" {
		t.Fatalf("unexpected path %s", p)
	}

	if got := p.Parent().String(); got != "1[1].2[1]" {
		t.Errorf("unexpected parent %s", got)
	}
	last, ok := p.Last()
	if !ok || last.Field != 3 {
		t.Errorf("unexpected last step %v", last)
	}
	if _, ok := Path(nil).Last(); ok {
		t.Error("empty path should have no last step")
	}
	if Path(nil).Parent() != nil {
		t.Error("empty path should have no parent")
	}

	extended := p.Parent().Append(Step{Field: 9, Index: 2})
	if extended.String() != "1[1].2[1].9[2]" {
		t.Errorf("unexpected appended path %s", extended)
	}
	if p.String() != "1[1].2[1].3[1]" {
		t.Errorf("Append modified the original path: %s", p)
	}

	if (Step{Field: 4}).Occurrence() != 1 {
		t.Error("zero index should select the first occurrence")
	}
	if !reflect.DeepEqual(p.Segments(), []string{"1[1]", "2[1]", "3[1]"}) {
		t.Errorf("unexpected segments %v", p.Segments())
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustParse("bad")
}
