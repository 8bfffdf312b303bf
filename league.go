package league

import (
	"sort"

	"github.com/uber-go/zap"

	"github.com/VegeTB/N-League/model"
	"github.com/VegeTB/N-League/repo"
)

// State of a match session
type State string

// session states; settled and cancelled sessions are simply removed
const (
	Recruiting State = "recruiting"
	Playing    State = "playing"
)

// session is one running match inside a chat context. It lives only in
// process memory: a restart drops it, together with any submitted scores.
type session struct {
	players []model.Player // join order
	scores  map[model.PlayerID]int
	state   State
}

func newSession() *session {
	return &session{
		scores: make(map[model.PlayerID]int),
		state:  Recruiting,
	}
}

func (s *session) player(id model.PlayerID) (model.Player, bool) {
	for _, p := range s.players {
		if p.ID == id {
			return p, true
		}
	}
	return model.Player{}, false
}

// tableScores returns the current submissions in join order.
func (s *session) tableScores() []TableScore {
	out := make([]TableScore, 0, len(s.players))
	for _, p := range s.players {
		if score, ok := s.scores[p.ID]; ok {
			out = append(out, TableScore{Player: p, Score: score})
		}
	}
	return out
}

// TableScore is one player's submitted raw table score.
type TableScore struct {
	Player model.Player
	Score  int
}

// League tracks matches and career statistics per chat context. Contexts
// are fully independent; within one context callers are expected to run
// one operation at a time (the chat frameworks serialize per chat).
type League struct {
	store    repo.Store
	data     map[string]*model.ContextState
	sessions map[string]*session
}

// New loads the durable records from store. A load failure is logged and
// treated as an empty store, it never prevents startup.
func New(store repo.Store) *League {
	data, err := store.Load()
	if err != nil {
		log.Error("loading record store failed, starting empty", zap.Error(err))
		storeLoadFailCount.Inc(1)
		data = nil
	}
	if data == nil {
		data = make(map[string]*model.ContextState)
	}

	return &League{
		store:    store,
		data:     data,
		sessions: make(map[string]*session),
	}
}

func (l *League) context(chanID string) *model.ContextState {
	cs, ok := l.data[chanID]
	if !ok {
		cs = model.NewContextState()
		l.data[chanID] = cs
	}
	return cs
}

// persist writes the whole data set back to the store. A failure is
// logged and counted; the in-memory state keeps the update either way.
func (l *League) persist() {
	if err := l.store.Save(l.data); err != nil {
		log.Error("saving record store failed", zap.Error(err))
		storeSaveFailCount.Inc(1)
	}
}

// ContextCount returns the number of chat contexts with recorded data.
func (l *League) ContextCount() int {
	return len(l.data)
}

// PlayerCount returns the number of player records across all contexts.
func (l *League) PlayerCount() int {
	n := 0
	for _, cs := range l.data {
		n += len(cs.Players)
	}
	return n
}

// Contexts returns the ids of all chat contexts with recorded data, sorted.
func (l *League) Contexts() []string {
	ids := make([]string, 0, len(l.data))
	for id := range l.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SessionCount returns the number of matches currently recruiting or playing.
func (l *League) SessionCount() int {
	return len(l.sessions)
}

// IsPlayoffs reports whether the context has entered playoffs.
func (l *League) IsPlayoffs(chanID string) bool {
	cs, ok := l.data[chanID]
	return ok && cs.IsPlayoffs
}

// StartMatch opens a fresh recruiting session for the context. Any
// previous session, whatever its state, is discarded silently.
func (l *League) StartMatch(chanID string) {
	l.sessions[chanID] = newSession()
	matchStartedCount.Inc(1)
	log.Info("match recruiting", zap.String("chanID", chanID))
}

// Join adds a player to the recruiting session. It returns the number of
// joined players and whether the table is now complete and playing.
// During playoffs only designated finalists can join.
func (l *League) Join(chanID string, p model.Player) (joined int, ready bool, err error) {
	s, ok := l.sessions[chanID]
	if !ok {
		return 0, false, ErrNoActiveSession
	}
	if _, ok := s.player(p.ID); ok {
		return len(s.players), false, ErrAlreadyJoined
	}
	// the 4th join flips to playing, so a full table outranks state
	if len(s.players) >= MatchPlayers {
		return len(s.players), false, ErrSessionFull
	}
	if s.state != Recruiting {
		return len(s.players), false, ErrWrongState
	}
	if cs, ok := l.data[chanID]; ok && cs.IsPlayoffs {
		rec, ok := cs.Players[p.ID]
		if !ok || !rec.IsFinalist() {
			return len(s.players), false, ErrNotFinalist
		}
	}

	s.players = append(s.players, p)
	playerJoinedCount.Inc(1)
	if len(s.players) == MatchPlayers {
		s.state = Playing
		ready = true
	}
	log.Info("player joined", zap.String("chanID", chanID), zap.String("playerID", string(p.ID)), zap.Int("joined", len(s.players)))

	return len(s.players), ready, nil
}

// Cancel destroys the session regardless of its state, discarding any
// partially submitted scores.
func (l *League) Cancel(chanID string) error {
	if _, ok := l.sessions[chanID]; !ok {
		return ErrNoActiveSession
	}
	delete(l.sessions, chanID)
	matchCancelledCount.Inc(1)
	log.Info("match cancelled", zap.String("chanID", chanID))
	return nil
}

// SubmitResult reports the outcome of a score submission. Settlement is
// nil until the fourth distinct score arrives and the sum checks out.
type SubmitResult struct {
	Submitted  int
	Settlement *Settlement
}

// SubmitScore records a participant's final table score. Resubmitting
// overwrites the previous value. Once all four participants have a score
// the sum is validated against TableTotal: a mismatch is returned as a
// *ScoreSumError with the full breakdown and the session stays open for
// corrections, a match is settled otherwise and the session is removed.
func (l *League) SubmitScore(chanID string, playerID model.PlayerID, score int) (*SubmitResult, error) {
	s, ok := l.sessions[chanID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	if s.state != Playing {
		return nil, ErrWrongState
	}
	if _, ok := s.player(playerID); !ok {
		return nil, ErrNotAParticipant
	}

	s.scores[playerID] = score
	res := &SubmitResult{Submitted: len(s.scores)}
	log.Info("score submitted", zap.String("chanID", chanID), zap.String("playerID", string(playerID)), zap.Int("score", score))
	if len(s.scores) < MatchPlayers {
		return res, nil
	}

	total := 0
	for _, v := range s.scores {
		total += v
	}
	if total != TableTotal {
		scoreSumMismatchCount.Inc(1)
		return nil, &ScoreSumError{Total: total, Diff: total - TableTotal, Scores: s.tableScores()}
	}

	res.Settlement = l.settle(chanID, s)
	delete(l.sessions, chanID)
	l.persist()

	return res, nil
}

// ResetSeason wipes the context: all career records, the playoffs flag
// and any active session. There is no undo and no backup.
func (l *League) ResetSeason(chanID string) {
	delete(l.sessions, chanID)
	delete(l.data, chanID)
	l.persist()
	seasonResetCount.Inc(1)
	log.Info("season reset", zap.String("chanID", chanID))
}
