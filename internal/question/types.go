// Package question holds the immutable multiple-choice question pool.
package question

import (
	"fmt"
	"strings"
)

// Letter labels an answer choice. Valid letters are "a" through "e".
type Letter string

// Letters lists every choice label in display order.
var Letters = []Letter{"a", "b", "c", "d", "e"}

// ParseLetter normalizes s (trimmed, case-insensitive) into a Letter.
func ParseLetter(s string) (Letter, error) {
	l := Letter(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("invalid choice letter %q", s)
	}
	return l, nil
}

// Valid reports whether l is one of a–e.
func (l Letter) Valid() bool {
	for _, v := range Letters {
		if l == v {
			return true
		}
	}
	return false
}

// Upper returns the display form of the letter.
func (l Letter) Upper() string {
	return strings.ToUpper(string(l))
}

// Choice is a single labeled answer option.
type Choice struct {
	Letter Letter
	Text   string
}

// Record is one loaded question. Records are never mutated after load.
type Record struct {
	ID          string
	Subject     string
	Stem        string
	Choices     map[Letter]string
	Correct     Letter
	Explanation string

	// Anchor is optional supplementary text shown with the stem.
	Anchor string

	// ImagePath is empty when no <id>.<ext> asset exists.
	ImagePath string
}

// Choice returns the text for letter l.
func (r Record) Choice(l Letter) (string, bool) {
	text, ok := r.Choices[l]
	return text, ok
}

// OrderedChoices returns the present choices in a–e order.
func (r Record) OrderedChoices() []Choice {
	out := make([]Choice, 0, len(r.Choices))
	for _, l := range Letters {
		if text, ok := r.Choices[l]; ok {
			out = append(out, Choice{Letter: l, Text: text})
		}
	}
	return out
}

// CorrectText returns the text of the correct choice.
func (r Record) CorrectText() string {
	return r.Choices[r.Correct]
}

// IsCorrect reports whether l is the correct choice.
func (r Record) IsCorrect(l Letter) bool {
	return l == r.Correct
}

// Validate checks the integrity invariant: the correct letter must name a
// present choice.
func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("missing id")
	}
	if len(r.Choices) == 0 {
		return fmt.Errorf("question %s has no answer choices", r.ID)
	}
	if !r.Correct.Valid() {
		return fmt.Errorf("question %s has invalid correct answer %q", r.ID, r.Correct)
	}
	if _, ok := r.Choices[r.Correct]; !ok {
		return fmt.Errorf("question %s: correct answer %q has no choice text", r.ID, r.Correct)
	}
	return nil
}
