package dictionary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tom-bartk/tuicub-server/internal/dictionary"
)

func TestContainsRecognizesGroup(t *testing.T) {
	d := dictionary.Build()

	// color 0 value 1 -> id 0, color 1 value 1 -> id 26, color 2 value 1 -> id 52
	group := []int{0, 26, 52}
	assert.True(t, d.Contains(group))
}

func TestContainsRecognizesRun(t *testing.T) {
	d := dictionary.Build()

	// color 0, values 1,2,3 -> ids 0,1,2
	run := []int{0, 1, 2}
	assert.True(t, d.Contains(run))
}

func TestContainsRejectsInvalidSet(t *testing.T) {
	d := dictionary.Build()

	// two tiles of the same color and value are not a legal group (needs
	// distinct colors), and not consecutive either.
	notValid := []int{0, 0}
	assert.False(t, d.Contains(notValid))
}

func TestContainsRejectsRunAcrossColors(t *testing.T) {
	d := dictionary.Build()
	// id 0 (color 0, value 1), id 1 (color 0, value 2), id 27 (color 1, value 2)
	assert.False(t, d.Contains([]int{0, 1, 27}))
}

func TestEntriesOfSizeReturnsOnlyThatSize(t *testing.T) {
	d := dictionary.Build()
	entries := d.EntriesOfSize(3)
	assert.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Len(t, e, 3)
	}
}

func TestRunLengthThirteenHasEntries(t *testing.T) {
	d := dictionary.Build()
	entries := d.EntriesOfSize(13)
	// the full-color run of all 13 values has only one starting point.
	assert.NotEmpty(t, entries)
}
