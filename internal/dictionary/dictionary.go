package dictionary

import (
	"sort"

	"github.com/tom-bartk/tuicub-server/internal/tile"
)

// entry is one legal non-joker tileset, stored by its sorted tile ids.
type entry struct {
	ids []int
	key string
}

// Dictionary is the preloaded immutable catalog of every legal non-joker
// tileset: groups (3-4 tiles of equal value, distinct colors) and runs
// (>=3 consecutive values, same color) over real tile ids — each of the
// two physical copies of a (color, value) pair is its own interchangeable
// id, so the catalog enumerates every copy combination (§4.2).
type Dictionary struct {
	bySize map[int][]entry
	byKey  map[string]struct{}
}

const numColors = 4

// Build generates the full dictionary. It is deterministic and has no
// dependency on randomness or I/O, so it is safe to call once at process
// start and share the result read-only across goroutines.
func Build() *Dictionary {
	d := &Dictionary{
		bySize: make(map[int][]entry),
		byKey:  make(map[string]struct{}),
	}
	d.addGroups()
	d.addRuns()
	return d
}

func colorCopies(color, value int) (int, int) {
	base := color*26 + (value - 1)
	return base, base + 13
}

func (d *Dictionary) add(ids []int) {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	key := keyOf(sorted)
	if _, exists := d.byKey[key]; exists {
		return
	}
	d.byKey[key] = struct{}{}
	d.bySize[len(sorted)] = append(d.bySize[len(sorted)], entry{ids: sorted, key: key})
}

func keyOf(sortedIDs []int) string {
	b := make([]byte, 0, len(sortedIDs)*4)
	for i, id := range sortedIDs {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendInt(b, id)
	}
	return string(b)
}

func appendInt(b []byte, n int) []byte {
	if n == 0 {
		return append(b, '0')
	}
	start := len(b)
	for n > 0 {
		b = append(b, byte('0'+n%10))
		n /= 10
	}
	// reverse the digits just appended
	for i, j := start, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

// addGroups enumerates every (value, color-subset, copy-choice) group of
// size 3 or 4.
func (d *Dictionary) addGroups() {
	for value := 1; value <= tile.MaxValue; value++ {
		for size := 3; size <= numColors; size++ {
			for _, colors := range combinations(numColors, size) {
				d.addGroupCopies(value, colors, nil)
			}
		}
	}
}

func (d *Dictionary) addGroupCopies(value int, colors []int, chosen []int) {
	if len(chosen) == len(colors) {
		d.add(chosen)
		return
	}
	color := colors[len(chosen)]
	a, b := colorCopies(color, value)
	d.addGroupCopies(value, colors, append(chosen, a))
	d.addGroupCopies(value, colors, append(chosen, b))
}

// addRuns enumerates every same-colored consecutive run of length 3..13,
// for every starting value and every copy choice at each position.
func (d *Dictionary) addRuns() {
	for color := 0; color < numColors; color++ {
		for length := 3; length <= tile.MaxValue; length++ {
			for start := 1; start+length-1 <= tile.MaxValue; start++ {
				values := make([]int, length)
				for i := 0; i < length; i++ {
					values[i] = start + i
				}
				d.addRunCopies(color, values, nil)
			}
		}
	}
}

func (d *Dictionary) addRunCopies(color int, values []int, chosen []int) {
	if len(chosen) == len(values) {
		d.add(chosen)
		return
	}
	value := values[len(chosen)]
	a, b := colorCopies(color, value)
	d.addRunCopies(color, values, append(chosen, a))
	d.addRunCopies(color, values, append(chosen, b))
}

// combinations returns every size-length subset of {0,...,n-1}.
func combinations(n, size int) [][]int {
	var out [][]int
	chosen := make([]int, 0, size)
	var rec func(start int)
	rec = func(start int) {
		if len(chosen) == size {
			out = append(out, append([]int(nil), chosen...))
			return
		}
		for i := start; i < n; i++ {
			chosen = append(chosen, i)
			rec(i + 1)
			chosen = chosen[:len(chosen)-1]
		}
	}
	rec(0)
	return out
}

// Contains reports whether sortedIDs is exactly a dictionary entry.
func (d *Dictionary) Contains(sortedIDs []int) bool {
	_, ok := d.byKey[keyOf(sortedIDs)]
	return ok
}

// EntriesOfSize returns every dictionary entry with exactly n tiles, as
// their sorted tile-id slices. The caller must not mutate the result.
func (d *Dictionary) EntriesOfSize(n int) [][]int {
	entries := d.bySize[n]
	out := make([][]int, len(entries))
	for i, e := range entries {
		out[i] = e.ids
	}
	return out
}
