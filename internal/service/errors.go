package service

import "errors"

// 서비스 레이어 공통 에러
// 핸들러는 이 센티널들로 HTTP 상태 코드를 결정한다.
var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrMatchNotFound     = errors.New("match not found")
	ErrLadderNotFound    = errors.New("ladder not found")

	ErrSelfChallenge        = errors.New("players cannot challenge themselves")
	ErrInvalidChallengeType = errors.New("invalid challenge type")
	ErrDuplicateChallenge   = errors.New("an unresolved challenge already exists between these players")
	ErrChallengerIneligible = errors.New("challenger is not eligible to issue challenges")
	ErrDefenderUnavailable  = errors.New("defender cannot be challenged right now")
	ErrDefenderImmune       = errors.New("defender is under challenge immunity")
	ErrTargetOutOfRange     = errors.New("target position is outside the allowed challenge window")
	ErrCrossLadder          = errors.New("players are not on the same ladder")
	ErrNotLadderJumpSource  = errors.New("only top players of the lowest ladder may ladder jump")
	ErrNotLadderJumpTarget  = errors.New("ladder jump target must sit in the bottom four of a higher ladder")
	ErrSmackbackNotEarned   = errors.New("smackback requires a recent smackdown win as defender")
	ErrTermsBelowMinimum    = errors.New("proposed terms are below the ladder minimums")

	ErrChallengeExpired     = errors.New("challenge deadline has passed")
	ErrChallengeNotPending  = errors.New("challenge is not pending")
	ErrChallengeNotOpen     = errors.New("challenge is already resolved")
	ErrNotChallengeParty    = errors.New("player is not a party to this challenge")
	ErrNotDefender          = errors.New("only the defender may respond to a challenge")
	ErrNotChallenger        = errors.New("only the challenger may respond to a counter-proposal")
	ErrNoCounterProposal    = errors.New("challenge has no counter-proposal to resolve")
	ErrChallengeNotScheduled = errors.New("challenge has no scheduled match")

	ErrMatchNotScheduled     = errors.New("match is not scheduled")
	ErrMatchAlreadyCompleted = errors.New("match result has already been recorded")
	ErrMatchNotCompleted     = errors.New("match is not completed")
	ErrNotMatchParticipant   = errors.New("player did not take part in this match")
	ErrMissingWinner         = errors.New("reported winner is not a participant of this match")

	ErrAlreadyTopLadder = errors.New("player is already on the top ladder")
	ErrPositionTaken    = errors.New("target position is occupied")
	ErrInvalidPosition  = errors.New("position must be within the ladder range")

	ErrInvalidCredentials = errors.New("invalid email or PIN")
	ErrPlayerInactive     = errors.New("player account is inactive")
)
