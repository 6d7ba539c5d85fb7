package domain

import (
	"fmt"
	"strings"
)

// Validation is the verdict of the move validator for one raw input.
type Validation struct {
	Input  string
	Move   Move         // normalized move; empty when rejected
	Reason RejectReason // empty when valid
}

// Valid reports whether the input was accepted as a move.
func (v Validation) Valid() bool {
	return v.Reason == ""
}

// ParseMove normalizes a raw token into a Move. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParseMove(input string) (Move, bool) {
	candidate := Move(strings.ToLower(strings.TrimSpace(input)))
	for _, m := range AllMoves {
		if m == candidate {
			return m, true
		}
	}
	return "", false
}

// ValidateMove checks a raw input against the acting player's bomb flag.
func ValidateMove(input string, bombUsed bool) Validation {
	move, ok := ParseMove(input)
	if !ok {
		return Validation{Input: input, Reason: ReasonUnrecognizedMove}
	}
	if move == MoveBomb && bombUsed {
		return Validation{Input: input, Reason: ReasonBombAlreadyUsed}
	}
	return Validation{Input: input, Move: move}
}

type movePair struct {
	user Move
	bot  Move
}

// outcomeTable is the complete decision table, seen from the user's side.
var outcomeTable = map[movePair]Outcome{
	{MoveRock, MoveRock}:     OutcomeDraw,
	{MoveRock, MovePaper}:    OutcomeBotWin,
	{MoveRock, MoveScissors}: OutcomeUserWin,
	{MoveRock, MoveBomb}:     OutcomeBotWin,

	{MovePaper, MoveRock}:     OutcomeUserWin,
	{MovePaper, MovePaper}:    OutcomeDraw,
	{MovePaper, MoveScissors}: OutcomeBotWin,
	{MovePaper, MoveBomb}:     OutcomeBotWin,

	{MoveScissors, MoveRock}:     OutcomeBotWin,
	{MoveScissors, MovePaper}:    OutcomeUserWin,
	{MoveScissors, MoveScissors}: OutcomeDraw,
	{MoveScissors, MoveBomb}:     OutcomeBotWin,

	{MoveBomb, MoveRock}:     OutcomeUserWin,
	{MoveBomb, MovePaper}:    OutcomeUserWin,
	{MoveBomb, MoveScissors}: OutcomeUserWin,
	{MoveBomb, MoveBomb}:     OutcomeDraw,
}

// ResolveRound decides a round. A rejected user move wastes the round and the
// bot move is ignored. It panics on a move pair outside the table.
func ResolveRound(user Validation, bot Move) Outcome {
	if !user.Valid() {
		return OutcomeInvalidWasted
	}
	outcome, ok := outcomeTable[movePair{user: user.Move, bot: bot}]
	if !ok {
		panic(fmt.Sprintf("domain: no outcome for %q vs %q", user.Move, bot))
	}
	return outcome
}

// Explain renders the referee announcement for a resolved round.
func Explain(outcome Outcome, user Validation, bot Move) string {
	switch outcome {
	case OutcomeDraw:
		return fmt.Sprintf("Both played %s. It's a draw!", user.Move)
	case OutcomeUserWin:
		return fmt.Sprintf("%s beats %s. You win this round!", capitalize(string(user.Move)), bot)
	case OutcomeBotWin:
		return fmt.Sprintf("%s beats %s. Bot wins this round!", capitalize(string(bot)), user.Move)
	case OutcomeInvalidWasted:
		if user.Reason == ReasonBombAlreadyUsed {
			return "You have already used the bomb this game. The round is wasted and goes to the bot."
		}
		return fmt.Sprintf("Invalid move %q. Valid moves are: rock, paper, scissors, bomb. The round is wasted and goes to the bot.", user.Input)
	default:
		return ""
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
