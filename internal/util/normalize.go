package util

import (
	"net/mail"
	"strings"
)

// NormalizeAddress extracts and normalizes an email address from a single
// address value.
// - Parses RFC 5322 values like "Name <User@Example.COM>"
// - Lowercases
// Returns empty string if parsing fails or address is missing.
func NormalizeAddress(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(addr.Address))
}

// SplitRecipients splits a recipients field on commas and semicolons and
// trims each entry. Empty entries are dropped; entries are otherwise returned
// as typed, in order, so the server can reject unknown or malformed ones.
func SplitRecipients(field string) []string {
	parts := strings.FieldsFunc(field, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinRecipients is the inverse of SplitRecipients for display in a form.
func JoinRecipients(addrs []string) string {
	return strings.Join(addrs, ", ")
}

// Dedupe removes repeated addresses, comparing normalized forms, and drops
// any address equal to one of exclude. Order of first appearance is kept.
func Dedupe(addrs []string, exclude ...string) []string {
	seen := make(map[string]struct{}, len(addrs)+len(exclude))
	for _, e := range exclude {
		if n := NormalizeAddress(e); n != "" {
			seen[n] = struct{}{}
		}
	}
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		key := NormalizeAddress(a)
		if key == "" {
			key = strings.ToLower(strings.TrimSpace(a))
		}
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}
