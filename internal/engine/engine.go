// Package engine implements the pure game rules of §4.3: every exported
// operation takes a model.Game (and whatever inputs it needs) and
// returns a new model.Game. Persistence, randomness sourcing, and event
// fan-out are all the caller's concern.
package engine

import (
	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/apperr"
	"github.com/tom-bartk/tuicub-server/internal/dictionary"
	"github.com/tom-bartk/tuicub-server/internal/model"
	"github.com/tom-bartk/tuicub-server/internal/rng"
	"github.com/tom-bartk/tuicub-server/internal/tile"
)

const (
	initialRackSize  = 14
	openingMeldValue = 30
	minPlayers       = 2
	maxPlayers       = 4
)

// StartGame deals a fresh game for gameroomID: shuffles the 106-tile
// deck, deals 14 tiles to each user in shuffled order, and fixes the
// resulting order as TurnOrder (§4.3). Callers (the lobby engine) must
// already have checked 2 <= len(users) <= 4.
func StartGame(gameroomID uuid.UUID, users []model.User, src rng.Source) model.Game {
	order := make([]model.User, len(users))
	copy(order, users)
	shuffledIdx := rng.ShuffledDeck(src, indices(len(order)))
	shuffled := make([]model.User, len(order))
	for i, idx := range shuffledIdx {
		shuffled[i] = order[idx]
	}

	pick := rng.Picker(src)
	pile := tile.NewPile(rng.ShuffledDeck(src, tile.FullDeck()))

	players := make([]model.Player, len(shuffled))
	turnOrder := make([]uuid.UUID, len(shuffled))
	for i, u := range shuffled {
		var rack tile.Tileset
		rack, pile = pile.DrawRack(initialRackSize, pick)
		players[i] = model.Player{
			ID:     uuid.New(),
			UserID: u.ID,
			Name:   u.Name,
			Rack:   rack,
		}
		turnOrder[i] = u.ID
	}

	firstTurn := model.Turn{
		ID:            uuid.New(),
		PlayerID:      players[0].ID,
		StartingRack:  players[0].Rack,
		StartingBoard: tile.NewBoard(),
		Moves:         nil,
		Revision:      0,
	}

	game := model.Game{
		ID:         uuid.New(),
		GameroomID: gameroomID,
		GameState: model.GameState{
			ID:      uuid.New(),
			Players: players,
			Board:   tile.NewBoard(),
			Pile:    pile,
		},
		Turn:      firstTurn,
		TurnOrder: turnOrder,
		MadeMeld:  make(map[uuid.UUID]struct{}),
		Winner:    nil,
	}
	game.GameState.GameID = game.ID
	game.Turn.GameID = game.ID
	return game
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// currentPlayer validates preconditions 1-3 common to every mutating
// operation: the game has no winner, user is seated, and it is their
// turn.
func currentPlayer(game model.Game, userID uuid.UUID) (model.Player, error) {
	if game.Winner != nil {
		return model.Player{}, apperr.GameEnded()
	}
	player, ok := game.GameState.PlayerByUserID(userID)
	if !ok {
		return model.Player{}, apperr.UserNotInGame()
	}
	if game.Turn.PlayerID != player.ID {
		return model.Player{}, apperr.NotUserTurn()
	}
	return player, nil
}

func setPlayerRack(game *model.Game, playerID uuid.UUID, rack tile.Tileset) {
	for i := range game.GameState.Players {
		if game.GameState.Players[i].ID == playerID {
			game.GameState.Players[i].Rack = rack
			return
		}
	}
}

// Move applies candidateBoard as the player's new board arrangement
// (§4.3 move preconditions 1-6).
func Move(game model.Game, userID uuid.UUID, candidateBoard tile.Board) (model.Game, error) {
	player, err := currentPlayer(game, userID)
	if err != nil {
		return game, err
	}

	if candidateBoard.HasDuplicateTiles() {
		return game, apperr.DuplicateTiles()
	}

	currentTiles := game.GameState.Board.AllTiles()
	candidateTiles := candidateBoard.AllTiles()
	for id := range currentTiles {
		if _, ok := candidateTiles[id]; !ok {
			return game, apperr.MissingBoardTiles()
		}
	}

	newTileIDs := make([]int, 0)
	for id := range candidateTiles {
		if _, ok := currentTiles[id]; !ok {
			newTileIDs = append(newTileIDs, id)
		}
	}

	rackSet := player.Rack.Set()
	for _, id := range newTileIDs {
		if _, ok := rackSet[id]; !ok {
			return game, apperr.NewTilesNotFromRack()
		}
	}

	next := game.Clone()
	newRackIDs := make([]int, 0, player.Rack.Len())
	newTileSet := make(map[int]struct{}, len(newTileIDs))
	for _, id := range newTileIDs {
		newTileSet[id] = struct{}{}
	}
	for _, id := range player.Rack.Tiles() {
		if _, removed := newTileSet[id]; !removed {
			newRackIDs = append(newRackIDs, id)
		}
	}
	newRack := tile.NewTileset(newRackIDs...)
	setPlayerRack(&next, player.ID, newRack)
	next.GameState.Board = candidateBoard

	keptMoves := make([]model.Move, 0, len(next.Turn.Moves))
	for _, m := range next.Turn.Moves {
		if m.Revision <= next.Turn.Revision {
			keptMoves = append(keptMoves, m)
		}
	}
	newRevision := next.Turn.Revision + 1
	keptMoves = append(keptMoves, model.Move{
		ID:       uuid.New(),
		TurnID:   next.Turn.ID,
		Revision: newRevision,
		Board:    candidateBoard,
		Rack:     newRack,
	})
	next.Turn.Moves = keptMoves
	next.Turn.Revision = newRevision

	return next, nil
}

// Undo steps the turn's visible move back by one (§4.3).
func Undo(game model.Game, userID uuid.UUID) (model.Game, error) {
	player, err := currentPlayer(game, userID)
	if err != nil {
		return game, err
	}

	if game.Turn.Revision == 0 {
		return game, apperr.NoMoveToUndo()
	}

	next := game.Clone()
	if game.Turn.Revision == 1 {
		next.GameState.Board = next.Turn.StartingBoard
		setPlayerRack(&next, player.ID, next.Turn.StartingRack)
		next.Turn.Revision = 0
		return next, nil
	}

	target, ok := next.Turn.MoveAtRevision(next.Turn.Revision - 1)
	if !ok {
		return game, apperr.NoMoveToUndo()
	}
	next.GameState.Board = target.Board
	setPlayerRack(&next, player.ID, target.Rack)
	next.Turn.Revision--
	return next, nil
}

// Redo steps the turn's visible move forward by one, if a later move
// exists in the ledger (§4.3).
func Redo(game model.Game, userID uuid.UUID) (model.Game, error) {
	player, err := currentPlayer(game, userID)
	if err != nil {
		return game, err
	}

	target, ok := game.Turn.MoveAtRevision(game.Turn.Revision + 1)
	if !ok {
		return game, apperr.NoMoveToRedo()
	}

	next := game.Clone()
	next.GameState.Board = target.Board
	setPlayerRack(&next, player.ID, target.Rack)
	next.Turn.Revision++
	return next, nil
}

// advanceTurn computes the next Turn following the current player's
// board, shared by EndTurn and Draw.
func advanceTurn(game model.Game, currentUserID uuid.UUID) (model.Game, error) {
	next := game.Clone()
	nextUserID, ok := next.NextInOrder(currentUserID)
	if !ok {
		return game, apperr.PlayerNotFound()
	}
	nextPlayer, ok := next.GameState.PlayerByUserID(nextUserID)
	if !ok {
		return game, apperr.PlayerNotFound()
	}
	next.Turn = model.Turn{
		ID:            uuid.New(),
		GameID:        next.ID,
		PlayerID:      nextPlayer.ID,
		StartingRack:  nextPlayer.Rack,
		StartingBoard: next.GameState.Board,
		Moves:         nil,
		Revision:      0,
	}
	return next, nil
}

// EndTurn validates the resulting board, applies the opening-meld rule,
// and either declares a winner or advances to the next player (§4.3).
func EndTurn(game model.Game, userID uuid.UUID, dict *dictionary.Service) (model.Game, error) {
	player, err := currentPlayer(game, userID)
	if err != nil {
		return game, err
	}
	if game.Turn.Revision < 1 {
		return game, apperr.NoMovesPerformed()
	}

	newTiles := boardTileDiff(game.GameState.Board, game.Turn.StartingBoard)
	if len(newTiles) == 0 {
		return game, apperr.NoNewTiles()
	}
	startingRackSet := game.Turn.StartingRack.Set()
	for id := range newTiles {
		if _, ok := startingRackSet[id]; !ok {
			return game, apperr.NewTilesNotFromRack()
		}
	}
	for _, ts := range game.GameState.Board.Sets() {
		if !dict.IsValid(ts) {
			return game, apperr.InvalidTilesets()
		}
	}

	next := game.Clone()
	if !next.HasMadeMeld(userID) {
		newSets := next.GameState.Board.NewTilesetsSince(next.Turn.StartingBoard)
		for _, ts := range newSets {
			for _, id := range ts.Tiles() {
				if _, ok := startingRackSet[id]; !ok {
					return game, apperr.NewTilesNotFromRack()
				}
			}
		}
		total := 0
		for _, ts := range newSets {
			total += dict.ValueOf(ts)
		}
		if total < openingMeldValue {
			return game, apperr.InvalidMeld()
		}
		next.MadeMeld[userID] = struct{}{}
	}

	if player.Rack.Len() == 0 {
		winner := player
		next.Winner = &winner
		return next, nil
	}

	return advanceTurn(next, userID)
}

func boardTileDiff(current, starting tile.Board) map[int]struct{} {
	curSet := current.AllTiles()
	startSet := starting.AllTiles()
	diff := make(map[int]struct{})
	for id := range curSet {
		if _, ok := startSet[id]; !ok {
			diff[id] = struct{}{}
		}
	}
	return diff
}

// Draw removes one tile uniformly at random from the pile into the
// acting player's rack, then advances the turn (§4.3). Never produces a
// winner, since a draw strictly grows the rack.
func Draw(game model.Game, userID uuid.UUID, src rng.Source) (model.Game, error) {
	player, err := currentPlayer(game, userID)
	if err != nil {
		return game, err
	}
	if game.Turn.Revision != 0 {
		return game, apperr.MovesPerformed()
	}

	drawnID, newPile, ok := game.GameState.Pile.Draw(rng.Picker(src))
	if !ok {
		return game, apperr.PileEmpty()
	}

	next := game.Clone()
	next.GameState.Pile = newPile
	setPlayerRack(&next, player.ID, player.Rack.WithNewTile(drawnID))

	return advanceTurn(next, userID)
}

// DisconnectGame removes userID's player from a running game (§4.3). If
// one player remains, they win; otherwise the rack returns to the pile
// and, if the disconnecting player held the turn, a fresh turn starts
// for the next player in the post-removal order.
func DisconnectGame(game model.Game, userID uuid.UUID, src rng.Source) (model.Game, error) {
	if game.Winner != nil {
		return game, apperr.GameEnded()
	}
	player, ok := game.GameState.PlayerByUserID(userID)
	if !ok {
		return game, apperr.UserNotInGame()
	}

	next := game.Clone()
	remainingPlayers := make([]model.Player, 0, len(next.GameState.Players)-1)
	for _, p := range next.GameState.Players {
		if p.ID != player.ID {
			remainingPlayers = append(remainingPlayers, p)
		}
	}
	next.GameState.Players = remainingPlayers

	remainingOrder := make([]uuid.UUID, 0, len(next.TurnOrder)-1)
	for _, id := range next.TurnOrder {
		if id != userID {
			remainingOrder = append(remainingOrder, id)
		}
	}
	next.TurnOrder = remainingOrder

	if len(remainingPlayers) == 1 {
		winner := remainingPlayers[0]
		next.Winner = &winner
		return next, nil
	}

	returned := append([]int(nil), player.Rack.Tiles()...)
	src.Shuffle(returned)
	next.GameState.Pile = next.GameState.Pile.Return(returned)

	if next.Turn.PlayerID == player.ID {
		next.GameState.Board = next.Turn.StartingBoard
		leftAt := 0
		for i, id := range game.TurnOrder {
			if id == userID {
				leftAt = i
			}
		}
		nextUserID := remainingOrder[leftAt%len(remainingOrder)]
		nextPlayer, ok := next.GameState.PlayerByUserID(nextUserID)
		if !ok {
			return game, apperr.PlayerNotFound()
		}
		next.Turn = model.Turn{
			ID:            uuid.New(),
			GameID:        next.ID,
			PlayerID:      nextPlayer.ID,
			StartingRack:  nextPlayer.Rack,
			StartingBoard: next.GameState.Board,
			Moves:         nil,
			Revision:      0,
		}
	}

	return next, nil
}

// minMax are referenced by the lobby engine's start-game precondition;
// exported so the two packages agree on the same bounds (§3, §4.4).
func MinPlayers() int { return minPlayers }
func MaxPlayers() int { return maxPlayers }
