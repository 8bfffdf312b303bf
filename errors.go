package league

import (
	"errors"
	"fmt"
)

// Errors returned by League operations. They are user-facing conditions,
// not failures: the host layer turns them into replies and no state is
// corrupted by any of them.
var (
	ErrNoActiveSession    = errors.New("no active match in this chat")
	ErrWrongState         = errors.New("match is not in the right state for that")
	ErrAlreadyJoined      = errors.New("player already joined this match")
	ErrSessionFull        = errors.New("match already has four players")
	ErrNotFinalist        = errors.New("playoffs are running, finalists only")
	ErrNotAParticipant    = errors.New("player is not part of this match")
	ErrUnknownOrder       = errors.New("unknown standings order")
	ErrNoData             = errors.New("nothing recorded for this chat yet")
	ErrAlreadyInPlayoffs  = errors.New("playoffs already started")
	ErrWrongFinalistCount = errors.New("playoffs need exactly four distinct finalists")
	ErrNotInPlayoffs      = errors.New("playoffs have not started")
)

// ScoreSumError reports four submitted scores that do not add up to the
// table total. The session stays in playing state so any participant can
// resubmit a corrected score.
type ScoreSumError struct {
	Total  int
	Diff   int          // Total - TableTotal, signed
	Scores []TableScore // current submissions, in join order
}

func (e *ScoreSumError) Error() string {
	return fmt.Sprintf("scores sum to %d, off by %+d", e.Total, e.Diff)
}
