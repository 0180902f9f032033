package domain

import "errors"

// Structural rejections.
var (
	ErrMalformedMove       = errors.New("malformed move")
	ErrMeldIndexOutOfRange = errors.New("meld index out of range")
	ErrInvalidCard         = errors.New("card out of range")
)

// Legality rejections.
var (
	ErrNotYourTurn         = errors.New("not your turn")
	ErrAlreadyMoved        = errors.New("move already made this turn")
	ErrCardNotInHand       = errors.New("card not in hand")
	ErrCardNotInMeld       = errors.New("card not in meld")
	ErrInvalidCombination  = errors.New("invalid combination")
	ErrDealConstraintUnmet = errors.New("deal constraint not satisfied")
	ErrFirstTurnMeld       = errors.New("cannot meld on first turn of a deal")
	ErrDiscardRequired     = errors.New("discard required")
	ErrAlreadyBought       = errors.New("already bought this round")
	ErrNoChips             = errors.New("no chips left")
	ErrDiscardEmpty        = errors.New("discard pile empty")
	ErrNotTopDiscard       = errors.New("card is not the top discard")
	ErrNoCardsLeft         = errors.New("no cards left to draw")
)

// Session lifecycle rejections.
var (
	ErrNotWaiting      = errors.New("session not waiting for players")
	ErrNotInProgress   = errors.New("session not in progress")
	ErrSessionFull     = errors.New("session full")
	ErrDuplicatePlayer = errors.New("player already joined")
	ErrUnknownPlayer   = errors.New("player not in session")
	ErrTooFewPlayers   = errors.New("not enough players to start")
)
