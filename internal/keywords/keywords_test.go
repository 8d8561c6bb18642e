package keywords

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_PrefixesOfEveryWord(t *testing.T) {
	t.Parallel()

	got := Generate("Attack on Titan")

	want := []string{
		"a", "at", "att", "atta", "attac", "attack",
		"o", "on",
		"t", "ti", "tit", "tita", "titan",
	}
	assert.ElementsMatch(t, want, got)
}

func TestGenerate_DuplicatePrefixesCollapse(t *testing.T) {
	t.Parallel()

	// "to" and "titan" share the "t" prefix; it must appear once.
	got := Generate("Titan to Titan")
	count := 0
	for _, k := range got {
		if k == "t" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestGenerate_CapsAtTwentyRunes(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 30)
	got := Generate(long)

	require.NotEmpty(t, got)
	longest := ""
	for _, k := range got {
		if len(k) > len(longest) {
			longest = k
		}
	}
	assert.Len(t, longest, 20)
	assert.Len(t, got, 20)
}

func TestGenerate_Idempotent(t *testing.T) {
	t.Parallel()

	first := Generate("Attack on Titan")
	second := Generate(Canonicalize("Attack on Titan"))
	assert.Equal(t, first, second)
}

func TestCanonicalize_ThaiSaraAmVariantsCollapse(t *testing.T) {
	t.Parallel()

	// Precomposed SARA AM vs NIKHAHIT + SARA AA.
	composed := "นำ"
	decomposed := "นํา"
	assert.Equal(t, Canonicalize(composed), Canonicalize(decomposed))

	// Tone mark on either side of SARA AM.
	toneFirst := "ก้ำ"
	toneAfter := "กำ้"
	assert.Equal(t, Canonicalize(toneFirst), Canonicalize(toneAfter))
}

func TestCanonicalize_Lowercases(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "attack on titan", Canonicalize("Attack ON Titan"))
}
