package access

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// rotationLayout is the date format of a roster rotation start.
const rotationLayout = "2006-01-02"

// Roster maps passcodes to participants. It is read from a TOML file:
//
//	[recipients]
//	"PASS_aaa" = "ann@example.org|2026-03-01"
//
//	[subjects]
//	aaa = "Respiratory"
type Roster struct {
	Recipients map[string]string `toml:"recipients"`

	// Subjects maps a passcode designation (the text after its last "_")
	// to a subject filter.
	Subjects map[string]string `toml:"subjects"`
}

// Entry is a parsed roster line.
type Entry struct {
	Passcode      string
	ParticipantID string
	Recipient     string
	RotationStart time.Time
	Subject       string
}

// LoadRoster reads and decodes a roster file.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return ParseRoster(data)
}

// ParseRoster decodes TOML roster data.
func ParseRoster(data []byte) (*Roster, error) {
	var r Roster
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	if r.Recipients == nil {
		return nil, fmt.Errorf("decode roster: missing [recipients] table")
	}
	return &r, nil
}

// Lookup resolves passcode. Unknown passcodes and malformed entries both
// wrap ErrInvalidPasscode; the wrapped message carries the reason.
func (r *Roster) Lookup(passcode string) (Entry, error) {
	raw, ok := r.Recipients[passcode]
	if !ok {
		return Entry{}, ErrInvalidPasscode
	}

	email, start, found := strings.Cut(raw, "|")
	email = strings.TrimSpace(email)
	if !found || email == "" {
		return Entry{}, fmt.Errorf("%w: entry %q is not email|YYYY-MM-DD", ErrInvalidPasscode, raw)
	}
	rotation, err := time.Parse(rotationLayout, strings.TrimSpace(start))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: rotation start: %v", ErrInvalidPasscode, err)
	}

	return Entry{
		Passcode:      passcode,
		ParticipantID: ParticipantID(email),
		Recipient:     email,
		RotationStart: rotation,
		Subject:       r.subjectFor(passcode),
	}, nil
}

func (r *Roster) subjectFor(passcode string) string {
	i := strings.LastIndex(passcode, "_")
	if i < 0 || len(r.Subjects) == 0 {
		return ""
	}
	designation := strings.ToLower(passcode[i+1:])
	for k, v := range r.Subjects {
		if strings.ToLower(k) == designation {
			return v
		}
	}
	return ""
}

// Passcodes returns every passcode in the roster.
func (r *Roster) Passcodes() []string {
	out := make([]string, 0, len(r.Recipients))
	for p := range r.Recipients {
		out = append(out, p)
	}
	return out
}

// ParticipantID normalizes an email into a participant identity.
func ParticipantID(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
