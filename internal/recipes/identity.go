package recipes

import "strings"

// Identity is the (name, prompt) pair that serves as the sole lookup key for
// a recipe across edit, delete, recency, and favorites operations. Renaming
// either half produces a new identity.
type Identity struct {
	Name   string
	Prompt string
}

// NormalizeWhitespace collapses every run of whitespace to a single space and
// trims the ends. Identity comparison happens on normalized values so trivial
// formatting drift between the caller's copy and the on-disk line still matches.
func NormalizeWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func (i Identity) normalized() Identity {
	return Identity{Name: NormalizeWhitespace(i.Name), Prompt: NormalizeWhitespace(i.Prompt)}
}

// Equal compares two identities under whitespace normalization.
func (i Identity) Equal(other Identity) bool {
	return i.normalized() == other.normalized()
}

// Pair renders the identity in its persisted (name, prompt) form.
func (i Identity) Pair() [2]string { return [2]string{i.Name, i.Prompt} }

// IdentityFromPair reconstructs an identity from its persisted form.
func IdentityFromPair(pair [2]string) Identity {
	return Identity{Name: pair[0], Prompt: pair[1]}
}
