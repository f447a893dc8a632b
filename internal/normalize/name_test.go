package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercase and whitespace collapse",
			input: "  Cafe   de   Paris  ",
			want:  "cafe de paris",
		},
		{
			name:  "full-width forms fold to ascii",
			input: "ＢＩＳＴＲＯ　Ｎ／Ｎ",
			want:  "bistro n/n",
		},
		{
			name:  "curly apostrophe unified",
			input: "Ichiran’s Ramen",
			want:  "ichiran's ramen",
		},
		{
			name:  "curly quotes unified",
			input: "“Golden” Pavilion",
			want:  `golden" pavilion`,
		},
		{
			name:  "edge punctuation stripped",
			input: "*** Fushimi Inari ***",
			want:  "fushimi inari",
		},
		{
			name:  "cjk characters preserved",
			input: "伏見稲荷大社",
			want:  "伏見稲荷大社",
		},
		{
			name:  "interior punctuation kept",
			input: "Bistro n/n",
			want:  "bistro n/n",
		},
		{
			name:  "whitespace only",
			input: "   \t  ",
			want:  "",
		},
		{
			name:  "punctuation only",
			input: "---",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.input))
		})
	}
}

func TestKeyIdempotent(t *testing.T) {
	inputs := []string{
		"  Cafe   de   Paris  ",
		"ＢＩＳＴＲＯ　Ｎ／Ｎ",
		"*** Fushimi Inari ***",
		"伏見稲荷大社",
		"Ichiran’s Ramen",
		// NFKC folds these to uppercase "T" / "No"; the key must not change
		// case on a second pass.
		"ᵀokyo Bar",
		"№1 Ramen",
		"",
	}

	for _, in := range inputs {
		once := Key(in)
		assert.Equal(t, once, Key(once), "Key must be idempotent for %q", in)
	}
}

func TestKeyLowercasesAfterFold(t *testing.T) {
	assert.Equal(t, "tokyo bar", Key("ᵀokyo Bar"))
	assert.Equal(t, "no1 ramen", Key("№1 Ramen"))
}

func TestKeyEquivalenceClasses(t *testing.T) {
	// Names that differ only in the dimensions Key collapses must share a key.
	groups := [][]string{
		{"Cafe de Paris", "cafe   de paris", "  CAFE DE PARIS  "},
		{"Bistro n/n", "ＢＩＳＴＲＯ　Ｎ／Ｎ"},
		{"Ichiran's", "Ichiran’s", "Ichiran`s"},
	}

	for _, g := range groups {
		want := Key(g[0])
		for _, s := range g[1:] {
			assert.Equal(t, want, Key(s), "%q should normalize equal to %q", s, g[0])
		}
	}
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   "))
	assert.True(t, IsBlank("!!!"))
	assert.False(t, IsBlank("Kinkakuji"))
}
