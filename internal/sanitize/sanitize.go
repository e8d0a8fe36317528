// Package sanitize escapes the HTML metacharacters of text inserted into the
// rendered document and reverses that escaping when displayed text is read
// back into a form.
package sanitize

import "strings"

// Replacers make a single pass over the input, so an entity produced for one
// character is never rescanned and escaped again.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#039;",
	"<", "&lt;",
	">", "&gt;",
)

var unescaper = strings.NewReplacer(
	"&quot;", `"`,
	"&#039;", "'",
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
)

// Escape replaces &, ", ', < and > with their HTML entities.
func Escape(text string) string {
	return escaper.Replace(text)
}

// Unescape is the inverse of Escape. Only the five entities Escape produces
// are decoded; numeric character references are left untouched.
func Unescape(text string) string {
	return unescaper.Replace(text)
}
