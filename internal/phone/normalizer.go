// Package phone validates, normalizes and detects the country of phone numbers
// for the supported country profiles.
package phone

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrInvalidFormat is returned when a number matches no supported profile or
	// fails its country's subscriber pattern.
	ErrInvalidFormat = errors.New("invalid phone number format")
	// ErrCountryMismatch is returned when the detected country differs from the expected one.
	ErrCountryMismatch = errors.New("phone number country mismatch")
)

// ValidationError carries the details of a rejected number. It unwraps to
// ErrInvalidFormat or ErrCountryMismatch.
type ValidationError struct {
	Kind     error
	Country  string // detected country, if any
	Expected string // expected country for mismatches
	Example  string // example number of the detected country, if any
}

func (e *ValidationError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrCountryMismatch):
		return fmt.Sprintf("%s: got %s, want %s", e.Kind, e.Country, e.Expected)
	case e.Example != "":
		return fmt.Sprintf("%s for %s (example: %s)", e.Kind, e.Country, e.Example)
	default:
		return e.Kind.Error()
	}
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// Result is a validated, normalized phone number.
type Result struct {
	Country       string
	CountryName   string
	CallingCode   string
	International string // "+" followed by digits
	Display       string
	National      string // subscriber digits without calling code or trunk prefix
	LineType      string
}

// Normalizer validates numbers against an ordered list of profiles.
// Profiles are consulted in order and the first match wins.
type Normalizer struct {
	profiles []Profile
}

// New returns a Normalizer over profiles. Every profile must have an ID, a
// calling code, national and subscriber patterns, and an example.
func New(profiles ...Profile) (*Normalizer, error) {
	if len(profiles) == 0 {
		return nil, errors.New("phone: at least one profile is required")
	}
	seen := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		if p.ID == "" || !strings.HasPrefix(p.CallingCode, "+") {
			return nil, fmt.Errorf("phone: profile %q: id and calling code are required", p.ID)
		}
		if p.National == nil || p.Subscriber == nil {
			return nil, fmt.Errorf("phone: profile %s: national and subscriber patterns are required", p.ID)
		}
		if p.Example == "" {
			return nil, fmt.Errorf("phone: profile %s: example is required", p.ID)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("phone: duplicate profile %s", p.ID)
		}
		seen[p.ID] = true
	}
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return &Normalizer{profiles: out}, nil
}

// MustNew is like New but panics on error.
func MustNew(profiles ...Profile) *Normalizer {
	n, err := New(profiles...)
	if err != nil {
		panic(err)
	}
	return n
}

// Profiles returns a copy of the normalizer's profiles in detection order.
func (n *Normalizer) Profiles() []Profile {
	out := make([]Profile, len(n.profiles))
	copy(out, n.profiles)
	return out
}

// Lookup returns the profile with the given country id (case-insensitive).
func (n *Normalizer) Lookup(id string) (Profile, bool) {
	for _, p := range n.profiles {
		if strings.EqualFold(p.ID, id) {
			return p, true
		}
	}
	return Profile{}, false
}

// DetectCountry returns the first profile matching raw. Numbers starting with
// "+" (or "00") match on calling code; others match the national pattern.
func (n *Normalizer) DetectCountry(raw string) (Profile, bool) {
	return n.detect(clean(raw))
}

func (n *Normalizer) detect(cleaned string) (Profile, bool) {
	if cleaned == "" {
		return Profile{}, false
	}
	if cleaned[0] == '+' {
		for _, p := range n.profiles {
			if strings.HasPrefix(cleaned, p.CallingCode) {
				return p, true
			}
		}
		return Profile{}, false
	}
	for _, p := range n.profiles {
		if p.National.MatchString(cleaned) {
			return p, true
		}
	}
	return Profile{}, false
}

// Validate checks raw against the supported profiles and returns the
// normalized number. When expected is non-empty the detected country must equal it.
func (n *Normalizer) Validate(raw, expected string) (*Result, error) {
	cleaned := clean(raw)
	p, ok := n.detect(cleaned)
	if !ok {
		return nil, &ValidationError{Kind: ErrInvalidFormat}
	}
	if expected != "" && !strings.EqualFold(expected, p.ID) {
		return nil, &ValidationError{Kind: ErrCountryMismatch, Country: p.ID, Expected: strings.ToUpper(expected)}
	}
	international := ToInternational(p, cleaned)
	sub := strings.TrimPrefix(international, p.CallingCode)
	if !p.Subscriber.MatchString(sub) {
		return nil, &ValidationError{Kind: ErrInvalidFormat, Country: p.ID, Example: p.Example}
	}
	return &Result{
		Country:       p.ID,
		CountryName:   p.Name,
		CallingCode:   p.CallingCode,
		International: international,
		Display:       Format(p, international),
		National:      sub,
		LineType:      lineType(international),
	}, nil
}

// Normalize returns the international form of raw.
func (n *Normalizer) Normalize(raw string) (string, error) {
	r, err := n.Validate(raw, "")
	if err != nil {
		return "", err
	}
	return r.International, nil
}

// clean removes formatting characters and rewrites a leading "00" to "+".
func clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		switch r {
		case '-', '(', ')', '.':
			continue
		}
		b.WriteRune(r)
	}
	s := b.String()
	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}
	return s
}

var defaultNormalizer = MustNew(DefaultProfiles()...)

// Default returns the normalizer built from DefaultProfiles.
func Default() *Normalizer { return defaultNormalizer }

// DetectCountry detects the country of raw using the default profiles.
func DetectCountry(raw string) (Profile, bool) { return defaultNormalizer.DetectCountry(raw) }

// Validate validates raw using the default profiles.
func Validate(raw, expected string) (*Result, error) {
	return defaultNormalizer.Validate(raw, expected)
}

// Normalize normalizes raw using the default profiles.
func Normalize(raw string) (string, error) { return defaultNormalizer.Normalize(raw) }

// Lookup returns the default profile for a country id.
func Lookup(id string) (Profile, bool) { return defaultNormalizer.Lookup(id) }
