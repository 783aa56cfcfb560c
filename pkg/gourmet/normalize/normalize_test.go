package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t\n  ", ""},
		{"newlines become spaces", "Hello\nWorld!!", "Hello World!!"},
		{"parenthesized aside removed", "อาหาร (ดีมาก) อร่อย", "อาหาร อร่อย"},
		{"multiple asides", "a (x) b (y) c", "a b c"},
		{"nested parens", "(a (b) c) d", "c d"},
		{"emoji dropped", "ราคา 120฿ 😀", "ราคา 120฿"},
		{"symbols dropped", "Great food :) #yum", "Great food yum"},
		{"punctuation kept", "ดี, มาก. จริง! ไหม?", "ดี, มาก. จริง! ไหม?"},
		{"accented latin dropped", "café", "caf"},
		{"unicode spaces collapsed", "a\u00a0\u00a0b", "a b"},
		{"tabs collapsed", "a\t\t b", "a b"},
		{"mixed script", "ร้าน BTS สยาม 5 นาที", "ร้าน BTS สยาม 5 นาที"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.input))
		})
	}
}

func TestTextIdempotent(t *testing.T) {
	inputs := []string{
		"อาหาร (ดีมาก) อร่อย",
		"(a (b) c) d",
		"  x\n\ny  ",
		"ราคา 120฿ 😀 !!",
		"((()))",
	}
	for _, in := range inputs {
		once := Text(in)
		assert.Equal(t, once, Text(once), "input %q", in)
	}
}

func TestValue(t *testing.T) {
	s := " อร่อย\n"
	var nilStr *string

	assert.Equal(t, "อร่อย", Value(s))
	assert.Equal(t, "อร่อย", Value(&s))
	assert.Equal(t, "", Value(nil))
	assert.Equal(t, "", Value(nilStr))
	assert.Equal(t, "", Value(4.5))
}
