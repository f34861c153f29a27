package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation", "Hello, World!", "hello-world"},
		{"title and date", "Go Tips-2024-03-01", "go-tips-2024-03-01"},
		{"whitespace runs", "  many   spaces\there  ", "many-spaces-here"},
		{"hyphen runs", "a -- b", "a-b"},
		{"accents dropped", "Café Crème", "caf-crme"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
		{"keeps leading hyphen", "-lead", "-lead"},
		{"no-break space", "Hello\u00a0World", "hello-world"},
		{"vertical tab", "Tab\vSep", "tab-sep"},
		{"ideographic space", "Ideo\u3000Space", "ideo-space"},
		{"en quad and thin space", "a\u2000b\u2009c", "a-b-c"},
		{"line separator", "one\u2028two", "one-two"},
		{"byte order mark trimmed", "\ufeffTitle\u00a0", "title"},
		{"mixed unicode run", "x \u00a0\u202f y", "x-y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestMake_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello World",
		"Rust & Go: A Love Story-2023-12-31",
		" --weird--  input__ ",
		"Ünïcödé Títle",
		"tabs\tand\nnewlines",
		"\u00a0nbsp\u3000title\ufeff",
	}

	for _, in := range inputs {
		once := Make(in)
		assert.Equal(t, once, Make(once), "input %q", in)
	}
}
