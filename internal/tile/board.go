package tile

// Board is an ordered sequence of tilesets. Order has no rule meaning but
// is preserved on the wire so clients render a stable layout (§4.1).
type Board struct {
	sets []Tileset
}

// NewBoard wraps the given tilesets in board order.
func NewBoard(sets ...Tileset) Board {
	cp := make([]Tileset, len(sets))
	copy(cp, sets)
	return Board{sets: cp}
}

// Sets returns the board's tilesets in order. Must not be mutated.
func (b Board) Sets() []Tileset {
	return b.sets
}

// Len returns the number of tilesets on the board.
func (b Board) Len() int {
	return len(b.sets)
}

// AllTiles flattens every tileset on the board into one membership set,
// used for the conservation and superset/subset checks in §4.3.
func (b Board) AllTiles() map[int]struct{} {
	out := make(map[int]struct{})
	for _, s := range b.sets {
		for _, id := range s.Tiles() {
			out[id] = struct{}{}
		}
	}
	return out
}

// AllTileIDs flattens every tileset on the board into one slice, in board
// then per-tileset order.
func (b Board) AllTileIDs() []int {
	out := make([]int, 0)
	for _, s := range b.sets {
		out = append(out, s.Tiles()...)
	}
	return out
}

// HasDuplicateTiles reports whether any tile id appears more than once
// across the whole board — §4.3 move precondition 4.
func (b Board) HasDuplicateTiles() bool {
	return HasDuplicates(b.AllTileIDs())
}

// NewTilesetsSince returns the tilesets present on b but not present (by
// set-of-ids comparison) in prior. This is the board-diff the opening-meld
// rule and board_changed event operate on (§4.3, §4.7).
func (b Board) NewTilesetsSince(prior Board) []Tileset {
	priorSets := make([]map[int]struct{}, len(prior.sets))
	for i, s := range prior.sets {
		priorSets[i] = s.Set()
	}

	var out []Tileset
	for _, s := range b.sets {
		candidate := s.Set()
		found := false
		for _, p := range priorSets {
			if setsEqual(candidate, p) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, s)
		}
	}
	return out
}

func setsEqual(a, b map[int]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
