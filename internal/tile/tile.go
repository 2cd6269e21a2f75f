// Package tile holds the immutable tile, tileset, board, and pile
// primitives the rest of the engine builds on. Nothing here performs I/O
// or randomness beyond what a caller-supplied picker provides.
package tile

import "sort"

// Jokers are the two wildcard tile ids; everything else is a "colored"
// tile in [0,103].
const (
	JokerOne = 104
	JokerTwo = 105

	// MaxValue is the highest face value a colored tile can have.
	MaxValue = 13

	// DeckSize is the total number of distinct tile ids, 0..105 inclusive.
	DeckSize = 106
)

// IsJoker reports whether id is one of the two joker tiles.
func IsJoker(id int) bool {
	return id == JokerOne || id == JokerTwo
}

// Color returns the tile's color index in [0,3]. Undefined for jokers.
func Color(id int) int {
	return id / 26
}

// Value returns the tile's face value in [1,13]. Undefined for jokers.
func Value(id int) int {
	return (id % 13) + 1
}

// PresentationOrder returns the key used to reorder a tileset for wire
// presentation (§4.1): tiles below 52 or jokers sort by their own id,
// tiles at or above 52 sort by id-52, so a color 2 or 3 tile shares its
// key with the color 0 or 1 tile of the same value and copy (5 and 57
// are both value 6, colors 0 and 2). The two copies of one (color,
// value), id and id+13, keep different keys.
func PresentationOrder(id int) int {
	if id < 52 || IsJoker(id) {
		return id
	}
	return id - 52
}

// FullDeck returns the 106 tile ids 0..105, in ascending order.
func FullDeck() []int {
	deck := make([]int, DeckSize)
	for i := range deck {
		deck[i] = i
	}
	return deck
}

// Tileset is a canonically-sorted, deduplicated-by-construction set of
// tile ids. The zero value is an empty tileset.
type Tileset struct {
	tiles []int
}

// NewTileset sorts and returns a Tileset over the given ids. Callers that
// need duplicate detection should check separately (§4.3 precondition 4):
// NewTileset itself does not reject duplicates, since a Board's tilesets
// are assembled from potentially-duplicated client input before that
// check runs.
func NewTileset(ids ...int) Tileset {
	cp := make([]int, len(ids))
	copy(cp, ids)
	sort.Ints(cp)
	return Tileset{tiles: cp}
}

// Tiles returns the canonical sorted tile ids. The returned slice must
// not be mutated by the caller.
func (t Tileset) Tiles() []int {
	return t.tiles
}

// Len returns the number of tiles in the set.
func (t Tileset) Len() int {
	return len(t.tiles)
}

// Contains reports whether id is present.
func (t Tileset) Contains(id int) bool {
	for _, v := range t.tiles {
		if v == id {
			return true
		}
	}
	return false
}

// JokerCount returns how many of the set's tiles are jokers.
func (t Tileset) JokerCount() int {
	n := 0
	for _, v := range t.tiles {
		if IsJoker(v) {
			n++
		}
	}
	return n
}

// WithoutJokers returns the subset of non-joker tiles.
func (t Tileset) WithoutJokers() Tileset {
	out := make([]int, 0, len(t.tiles))
	for _, v := range t.tiles {
		if !IsJoker(v) {
			out = append(out, v)
		}
	}
	return Tileset{tiles: out}
}

// WithNewTile returns a new Tileset with id added, re-sorted.
func (t Tileset) WithNewTile(id int) Tileset {
	out := make([]int, len(t.tiles)+1)
	copy(out, t.tiles)
	out[len(t.tiles)] = id
	sort.Ints(out)
	return Tileset{tiles: out}
}

// Equal reports whether two tilesets contain the same ids (order is
// already canonical, so this is a plain slice comparison).
func (t Tileset) Equal(other Tileset) bool {
	if len(t.tiles) != len(other.tiles) {
		return false
	}
	for i, v := range t.tiles {
		if other.tiles[i] != v {
			return false
		}
	}
	return true
}

// Presentation returns the tile ids reordered for wire presentation
// per PresentationOrder, leaving the canonical Tiles() untouched.
func (t Tileset) Presentation() []int {
	out := make([]int, len(t.tiles))
	copy(out, t.tiles)
	sort.Slice(out, func(i, j int) bool {
		return PresentationOrder(out[i]) < PresentationOrder(out[j])
	})
	return out
}

// Set returns the tileset's tiles as a membership set, used for the
// conservation and superset/subset checks in §4.3.
func (t Tileset) Set() map[int]struct{} {
	s := make(map[int]struct{}, len(t.tiles))
	for _, v := range t.tiles {
		s[v] = struct{}{}
	}
	return s
}

// HasDuplicates reports whether ids contains the same tile id twice; used
// to evaluate §4.3 move precondition 4 before constructing a Tileset.
func HasDuplicates(ids []int) bool {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
