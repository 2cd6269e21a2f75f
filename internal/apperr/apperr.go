// Package apperr is the application's single error sum type. Every
// business/validation/auth failure in the system is an *apperr.Error so
// that the HTTP layer can map it to {code, message, error_name} in one
// place instead of threading status codes through every layer.
package apperr

import "fmt"

// Kind buckets an Error for status-code mapping.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindConflict     Kind = "conflict"
	KindBusiness     Kind = "business"
)

// Error is the sum type every handler-visible failure takes the shape of.
type Error struct {
	Kind      Kind
	HTTPCode  int
	ErrorName string
	Message   string
	Info      map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorName, e.Message)
}

func newErr(kind Kind, code int, name, message string, info map[string]any) *Error {
	return &Error{Kind: kind, HTTPCode: code, ErrorName: name, Message: message, Info: info}
}

// Validation wraps a request-shape failure with a human reason.
func Validation(reason string) *Error {
	return newErr(KindValidation, 400, "validation", reason, nil)
}

// InvalidIdentifier signals a malformed UUID path/body parameter.
func InvalidIdentifier() *Error {
	return newErr(KindValidation, 400, "invalid_identifier", "The identifier is not a valid UUID.", nil)
}

// Unauthorized signals a missing or invalid bearer token or shared secret.
func Unauthorized() *Error {
	return newErr(KindUnauthorized, 401, "unauthorized", "The authentication token is either missing or is invalid.", nil)
}

// Forbidden signals a semantically disallowed action (not owner, not your
// turn, not a member of the gameroom/game).
func Forbidden() *Error {
	return newErr(KindForbidden, 403, "forbidden", "Forbidden.", nil)
}

// NotFound signals that resource with id does not exist or is deleted.
func NotFound(resource, id string) *Error {
	return newErr(KindNotFound, 404, "not_found", "Resource not found.", map[string]any{
		"resource": resource,
		"id":       id,
	})
}

// Conflict signals the store observed a concurrent-mutation failure on the
// same aggregate (§4.5); always maps to the same user-visible message.
func Conflict() *Error {
	return newErr(KindConflict, 400, "conflict", "Another operation is pending. Try again.", nil)
}

// Business constructs a named rule-violation error (the taxonomy in §7).
func Business(name, message string) *Error {
	return newErr(KindBusiness, 400, name, message, nil)
}

// Business rule constructors, one per name in spec §7. Kept as functions
// (not a giant map) so each carries its own fixed message text.

func AlreadyInGameroom() *Error {
	return Business("already_in_gameroom", "You are already in a gameroom.")
}

func GameroomFull() *Error {
	return Business("gameroom_full", "The gameroom is full.")
}

func GameAlreadyStarted() *Error {
	return Business("game_already_started", "The game has already started.")
}

func LeavingOwnGameroom() *Error {
	return Business("leaving_own_gameroom", "The owner cannot leave their own gameroom.")
}

func NotGameroomOwner() *Error {
	return Business("not_gameroom_owner", "Only the gameroom owner can perform this action.")
}

func NotEnoughPlayers() *Error {
	return Business("not_enough_players", "At least 2 players are required to start a game.")
}

func UserNotInGame() *Error {
	return Business("user_not_in_game", "You are not a player in this game.")
}

func NotUserTurn() *Error {
	return Business("not_user_turn", "It is not your turn.")
}

func GameEnded() *Error {
	return Business("game_ended", "The game has already ended.")
}

func NoMoveToUndo() *Error {
	return Business("no_move_to_undo", "There is no move to undo.")
}

func NoMoveToRedo() *Error {
	return Business("no_move_to_redo", "There is no move to redo.")
}

func NoMovesPerformed() *Error {
	return Business("no_moves_performed", "No moves were performed this turn.")
}

func MovesPerformed() *Error {
	return Business("moves_performed", "Moves have already been performed this turn.")
}

func DuplicateTiles() *Error {
	return Business("duplicate_tiles", "The board contains duplicate tiles.")
}

func MissingBoardTiles() *Error {
	return Business("missing_board_tiles", "The board is missing tiles that were already in play.")
}

func NewTilesNotFromRack() *Error {
	return Business("new_tiles_not_from_rack", "The new tiles are not in your rack.")
}

func NoNewTiles() *Error {
	return Business("no_new_tiles", "No new tiles were played.")
}

func InvalidTilesets() *Error {
	return Business("invalid_tilesets", "The board contains an invalid tileset.")
}

func InvalidMeld() *Error {
	return Business("invalid_meld", "The opening meld must total at least 30 points.")
}

func PlayerNotFound() *Error {
	return Business("player_not_found", "Player not found.")
}

func PileEmpty() *Error {
	return Business("pile_empty", "The pile is empty.")
}

// As extracts *Error from err, returning (nil, false) for anything else.
func As(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}
