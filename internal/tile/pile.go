package tile

// Picker selects one element from a slice of n remaining items and
// returns its index; the caller (Pile.Draw) removes it. It lets Pile stay decoupled from any
// concrete randomness source (the rng package supplies the real one;
// tests can supply a deterministic stub).
type Picker func(n int) int

// Pile is a shuffled multiset of undealt tile ids backing uniform-random
// draws (§3). It is a value type; every mutating method returns a new
// Pile, consistent with the engine's pure-function design (§4.3).
type Pile struct {
	tiles []int
}

// NewPile wraps ids as a pile in the given order (already shuffled by the
// caller via rng.Shuffle).
func NewPile(ids []int) Pile {
	cp := make([]int, len(ids))
	copy(cp, ids)
	return Pile{tiles: cp}
}

// Tiles returns the pile's tile ids. Must not be mutated.
func (p Pile) Tiles() []int {
	return p.tiles
}

// Len returns the number of tiles remaining in the pile.
func (p Pile) Len() int {
	return len(p.tiles)
}

// Draw removes one tile chosen by pick and returns it along with the
// resulting pile. Returns ok=false if the pile is empty (§9: pile
// exhaustion is unreachable at deck size 106 but must surface as a
// business error rather than panic).
func (p Pile) Draw(pick Picker) (tileID int, result Pile, ok bool) {
	if len(p.tiles) == 0 {
		return 0, p, false
	}
	idx := pick(len(p.tiles))
	tileID = p.tiles[idx]

	remaining := make([]int, 0, len(p.tiles)-1)
	remaining = append(remaining, p.tiles[:idx]...)
	remaining = append(remaining, p.tiles[idx+1:]...)
	return tileID, Pile{tiles: remaining}, true
}

// DrawRack removes `count` tiles chosen by pick and returns them as a
// Tileset along with the resulting pile. Used at game start to deal the
// initial 14-tile rack (§4.3).
func (p Pile) DrawRack(count int, pick Picker) (rack Tileset, result Pile) {
	drawn := make([]int, 0, count)
	cur := p
	for i := 0; i < count; i++ {
		var id int
		var ok bool
		id, cur, ok = cur.Draw(pick)
		if !ok {
			break
		}
		drawn = append(drawn, id)
	}
	return NewTileset(drawn...), cur
}

// Return appends tiles (e.g. a disconnecting player's rack) back into the
// pile in the given shuffled order.
func (p Pile) Return(shuffledTiles []int) Pile {
	out := make([]int, 0, len(p.tiles)+len(shuffledTiles))
	out = append(out, p.tiles...)
	out = append(out, shuffledTiles...)
	return Pile{tiles: out}
}
