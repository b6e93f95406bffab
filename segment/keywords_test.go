package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywordsFiltersShortAndStopWords(t *testing.T) {
	text := "The kernel scheduler is about the kernel, and the kernel runs tasks."
	keywords := ExtractKeywords(text, 20)

	assert.Equal(t, []string{"kernel", "scheduler", "tasks"}, keywords)
}

func TestExtractKeywordsOrdersByFrequencyThenAlphabet(t *testing.T) {
	text := "zebra apple zebra apple mango mango cherry"
	keywords := ExtractKeywords(text, 20)

	// apple/mango/zebra all appear twice, cherry once.
	assert.Equal(t, []string{"apple", "mango", "zebra", "cherry"}, keywords)
}

func TestExtractKeywordsRespectsLimit(t *testing.T) {
	words := []string{"alpha1", "bravo2", "charlie", "deltas", "echoes", "foxtrot"}
	text := strings.Join(words, " ")

	keywords := ExtractKeywords(text, 3)
	assert.Len(t, keywords, 3)
}

func TestExtractKeywordsStripsPunctuation(t *testing.T) {
	keywords := ExtractKeywords("Pipelines! (pipelines) 'pipelines,'", 20)
	assert.Equal(t, []string{"pipelines"}, keywords)
}

func TestExtractKeywordsEmptyInput(t *testing.T) {
	assert.Nil(t, ExtractKeywords("", 20))
	assert.Nil(t, ExtractKeywords("a to of in", 20))
	assert.Nil(t, ExtractKeywords("anything", 0))
}

func TestSharedKeywords(t *testing.T) {
	a := []string{"kernel", "scheduler", "memory"}
	b := []string{"memory", "kernel", "disk"}

	assert.Equal(t, []string{"kernel", "memory"}, SharedKeywords(a, b))
	assert.Nil(t, SharedKeywords(a, []string{"disk"}))
	assert.Nil(t, SharedKeywords(nil, b))
}
