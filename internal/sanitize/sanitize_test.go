package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"a & b", "a &amp; b"},
		{`<script>alert("x")</script>`, "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;"},
		{"it's", "it&#039;s"},
		{"&lt;", "&amp;lt;"},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Escape(tc.in), "Escape(%q)", tc.in)
	}
}

func TestEscape_AllGuardedCharactersInAnyOrder(t *testing.T) {
	want := map[rune]string{
		'&': "&amp;",
		'"': "&quot;",
		'\'': "&#039;",
		'<': "&lt;",
		'>': "&gt;",
	}
	orders := []string{`&<>"'`, `'"><&`, `<&'>"`, `>"&'<`}
	for _, in := range orders {
		expected := ""
		for _, r := range in {
			expected += want[r]
		}
		assert.Equal(t, expected, Escape(in), "Escape(%q)", in)
		assert.Equal(t, in, Unescape(Escape(in)))
	}
}

func TestUnescape(t *testing.T) {
	assert.Equal(t, `<b>"Tom" & 'Jerry'</b>`, Unescape("&lt;b&gt;&quot;Tom&quot; &amp; &#039;Jerry&#039;&lt;/b&gt;"))
	// Numeric references other than &#039; are not decoded.
	assert.Equal(t, "&#60;", Unescape("&#60;"))
	assert.Equal(t, "&lt;", Unescape("&amp;lt;"))
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"hello world",
		"&&&",
		"&amp;",
		"&quot;&#039;&lt;&gt;",
		`Re: <urgent> "deploy" & 'rollback'`,
		"line one\nline two & <three>",
		"a&b<c>d\"e'f",
	}
	for _, in := range inputs {
		assert.Equal(t, in, Unescape(Escape(in)), "round trip of %q", in)
	}
}
