// Package pspurl provides URL canonicalization and identity-key parsing for
// www.psp.cz pages. URLs are canonicalized before visited-set checks and
// storage lookups so that the same page expressed differently produces the
// same key.
package pspurl

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	errEmptyInput          = errors.New("canonicalize url: empty input")
	errMissingSchemeOrHost = errors.New("canonicalize url: missing scheme or host")

	// ErrNoSittingKey is returned when a URL carries no o/s ordering parameters.
	ErrNoSittingKey = errors.New("no sitting ordering key in url")

	// ErrNoMemberID is returned when a member URL carries no stable id parameter.
	ErrNoMemberID = errors.New("no member id in url")
)

// sittingKeyRe matches the term (o) and sitting number (s) query parameters
// that order sittings within the voting archive.
var sittingKeyRe = regexp.MustCompile(`o=([0-9]+)&s=([0-9]+)`)

// Canonical resolves ref against base and normalizes the result: scheme and
// host are lowercased, the fragment is dropped and empty queries removed.
// Query parameter order is preserved because psp.cz treats some parameters
// positionally in legacy pages.
func Canonical(base, ref string) (string, error) {
	if ref == "" {
		return "", errEmptyInput
	}

	var resolved *url.URL
	if base != "" {
		b, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("canonicalize url: parse base: %w", err)
		}
		r, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("canonicalize url: parse ref: %w", err)
		}
		resolved = b.ResolveReference(r)
	} else {
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("canonicalize url: %w", err)
		}
		resolved = u
	}

	if resolved.Scheme == "" || resolved.Host == "" {
		return "", errMissingSchemeOrHost
	}

	resolved.Scheme = strings.ToLower(resolved.Scheme)
	resolved.Host = strings.ToLower(resolved.Host)
	resolved.Fragment = ""

	return resolved.String(), nil
}

// SittingKey orders sittings by decoded (term, sitting number) integers.
// Comparison must be numeric: the URL strings themselves do not sort
// correctly ("s=9" > "s=10" lexically).
type SittingKey struct {
	Term   int
	Number int
}

// ParseSittingKey decodes the ordering key from a sitting URL.
func ParseSittingKey(rawURL string) (SittingKey, error) {
	m := sittingKeyRe.FindStringSubmatch(rawURL)
	if m == nil {
		return SittingKey{}, fmt.Errorf("%w: %s", ErrNoSittingKey, rawURL)
	}

	term, err := strconv.Atoi(m[1])
	if err != nil {
		return SittingKey{}, fmt.Errorf("parse sitting key term: %w", err)
	}
	number, err := strconv.Atoi(m[2])
	if err != nil {
		return SittingKey{}, fmt.Errorf("parse sitting key number: %w", err)
	}

	return SittingKey{Term: term, Number: number}, nil
}

// Compare returns -1, 0 or 1 comparing k against other, term first.
func (k SittingKey) Compare(other SittingKey) int {
	if k.Term != other.Term {
		if k.Term < other.Term {
			return -1
		}
		return 1
	}
	if k.Number != other.Number {
		if k.Number < other.Number {
			return -1
		}
		return 1
	}
	return 0
}

// Before reports whether k is strictly older than other.
func (k SittingKey) Before(other SittingKey) bool { return k.Compare(other) < 0 }

// String renders the key as "term/number".
func (k SittingKey) String() string {
	return strconv.Itoa(k.Term) + "/" + strconv.Itoa(k.Number)
}

// MemberID extracts the stable numeric member identifier from a member detail
// URL. The id parameter is durable across terms, unlike the remaining query
// parameters which drift between the current-term and historical views of the
// same person.
func MemberID(rawURL string) (int, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("parse member url: %w", err)
	}

	raw := u.Query().Get("id")
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", ErrNoMemberID, rawURL)
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse member id %q: %w", raw, err)
	}

	return id, nil
}
