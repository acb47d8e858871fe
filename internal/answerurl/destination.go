package answerurl

import (
	"net/url"
	"regexp"
	"strings"
)

// DestinationKeys are the query parameters consulted for the dial target, in
// priority order. The platform sends "To"; the other spellings cover manual tests
// and older integrations. Keys are case-sensitive.
var DestinationKeys = []string{"To", "to", "Destination", "destination"}

// SourceDefault marks a Resolution that fell back to the configured default.
const SourceDefault = "default"

// sipUserPattern captures the user part of sip:user@host and sips:user@host.
var sipUserPattern = regexp.MustCompile(`^sips?:([^@]+)@`)

// Resolution is the outcome of reading the destination from a request.
type Resolution struct {
	// Raw is the parameter value as received ("" when defaulted).
	Raw string
	// Destination is what ends up in the bridge directive.
	Destination string
	// Source is the query key the value came from, or SourceDefault.
	Source string
	// Normalized reports whether a SIP URI was reduced to its user part.
	Normalized bool
}

// ExtractDestination returns the first present, non-empty destination parameter.
func ExtractDestination(q url.Values) (value, key string, ok bool) {
	for _, k := range DestinationKeys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return v, k, true
		}
	}
	return "", "", false
}

// NormalizeDestination reduces a SIP URI to its user part. Anything that does not
// match is returned unchanged with ok=false.
func NormalizeDestination(raw string) (string, bool) {
	m := sipUserPattern.FindStringSubmatch(raw)
	if len(m) != 2 || m[1] == "" {
		return raw, false
	}
	return m[1], true
}

// ResolveDestination applies extraction, normalization and the default fallback.
// It never fails.
func ResolveDestination(q url.Values, defaultDestination string) Resolution {
	raw, key, ok := ExtractDestination(q)
	if !ok {
		return Resolution{Destination: defaultDestination, Source: SourceDefault}
	}
	dest, normalized := NormalizeDestination(raw)
	return Resolution{Raw: raw, Destination: dest, Source: key, Normalized: normalized}
}
