package bionic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		words      []string
		separators []string
	}{
		{"empty", "", nil, nil},
		{"single", "go", []string{"go"}, nil},
		{"two words", "hello world", []string{"hello", "world"}, []string{" "}},
		{"trailing", "a b\n", []string{"a", "b"}, []string{" ", "\n"}},
		{"mixed runs", "a \t\nb  c", []string{"a", "b", "c"}, []string{" \t\n", "  "}},
		{"leading", "  a b", []string{"a", "b"}, []string{"  ", " "}},
		{"only spaces", "   ", nil, []string{"   "}},
		{"unicode space", "사과　배", []string{"사과", "배"}, []string{"　"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, separators := SplitWords(tt.text)
			assert.Equal(t, tt.words, words)
			assert.Equal(t, tt.separators, separators)
		})
	}
}

func TestSplitWordsRoundTrip(t *testing.T) {
	inputs := []string{
		"hello world",
		"one  two\tthree\n",
		"안녕하세요, 세계!\n\n다음 줄",
		"x",
		"trailing   ",
		"a\x1fb",
		"bad\xffbyte here",
	}
	for _, in := range inputs {
		words, separators := SplitWords(in)
		var b strings.Builder
		for i, w := range words {
			b.WriteString(w)
			if i < len(separators) {
				b.WriteString(separators[i])
			}
		}
		assert.Equal(t, in, b.String())
	}
}

func TestSimpleBoldLength(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {6, 3},
		{7, 3}, {8, 4}, {10, 4}, {11, 5}, {20, 8},
	}
	prev := 0
	for _, tt := range tests {
		got := SimpleBoldLength(tt.count)
		assert.Equal(t, tt.want, got, "SimpleBoldLength(%d)", tt.count)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestBoldWord(t *testing.T) {
	tests := []struct {
		word string
		want Segment
	}{
		{"go", Segment{Bold: "g", Normal: "o"}},
		{"end", Segment{Bold: "en", Normal: "d"}},
		{"hello", Segment{Bold: "hel", Normal: "lo"}},
		{"안녕하세요", Segment{Bold: "안녕하", Normal: "세요"}},
		{"...", Segment{Normal: "...", Plain: true}},
		{"(hello)", Segment{Bold: "(hel", Normal: "lo)"}},
		{"it's", Segment{Bold: "it", Normal: "'s"}},
		{"a-b", Segment{Bold: "a", Normal: "-b"}},
		// non-eligible characters follow the current count, not the next eligible one
		{"x--yz", Segment{Bold: "x--y", Normal: "z"}},
		{"a.b.c.d", Segment{Bold: "a.b", Normal: ".c.d"}},
		{"international", Segment{Bold: "intern", Normal: "ational"}},
	}
	for _, tt := range tests {
		got := BoldWord(tt.word)
		assert.Equal(t, tt.want, got, "BoldWord(%q)", tt.word)
		assert.Equal(t, tt.word, got.Text())
	}
}

func TestRenderSimple(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"two words", "hello world", "<b>hel</b>lo <b>wor</b>ld"},
		{"short word", "go", "<b>g</b>o"},
		{"punctuation only token", "... end", "... <b>en</b>d"},
		{"keeps spacing", "a  b\n", "<b>a</b>  <b>b</b>\n"},
		{"korean", "사과를 먹다", "<b>사과</b>를 <b>먹</b>다"},
		{"no escaping", "<i>", "<b><i</b>>"},
		{"empty", "", ""},
		{"blank", " \n ", ""},
		{"leading space moves after first word", " a b", "<b>a</b> <b>b</b> "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderSimple(tt.in))
		})
	}
}
