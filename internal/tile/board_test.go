package tile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tom-bartk/tuicub-server/internal/tile"
)

func TestBoardLenAndSets(t *testing.T) {
	a := tile.NewTileset(1, 2, 3)
	b := tile.NewTileset(4, 5, 6)
	board := tile.NewBoard(a, b)
	require.Equal(t, 2, board.Len())
	assert.Equal(t, []tile.Tileset{a, b}, board.Sets())
}

func TestBoardAllTilesAndIDs(t *testing.T) {
	a := tile.NewTileset(1, 2)
	b := tile.NewTileset(3)
	board := tile.NewBoard(a, b)

	ids := board.AllTileIDs()
	assert.ElementsMatch(t, []int{1, 2, 3}, ids)

	all := board.AllTiles()
	for _, id := range []int{1, 2, 3} {
		_, ok := all[id]
		assert.True(t, ok)
	}
}

func TestBoardHasDuplicateTiles(t *testing.T) {
	clean := tile.NewBoard(tile.NewTileset(1, 2), tile.NewTileset(3))
	assert.False(t, clean.HasDuplicateTiles())

	dup := tile.NewBoard(tile.NewTileset(1, 2), tile.NewTileset(2, 3))
	assert.True(t, dup.HasDuplicateTiles())
}

func TestBoardNewTilesetsSince(t *testing.T) {
	prior := tile.NewBoard(tile.NewTileset(1, 2, 3))
	next := tile.NewBoard(tile.NewTileset(1, 2, 3), tile.NewTileset(4, 5, 6))

	added := next.NewTilesetsSince(prior)
	require.Len(t, added, 1)
	assert.Equal(t, []int{4, 5, 6}, added[0].Tiles())
}

func TestBoardNewTilesetsSinceIgnoresReorderedIdenticalSets(t *testing.T) {
	prior := tile.NewBoard(tile.NewTileset(1, 2, 3))
	// Same set of ids, different tileset construction order — same set by
	// membership, so it must not be reported as "new".
	next := tile.NewBoard(tile.NewTileset(3, 2, 1))

	assert.Empty(t, next.NewTilesetsSince(prior))
}
