package bot

import (
	"sync"

	"github.com/crewcheck/crewcheck/internal/model"
)

// State is the per-chat dialogue position.
type State int

const (
	StateIdle State = iota
	StateRegistering
	StateEditingField
	StateEditingLeave
	StateSearching
	StateInfoSearch
	StateInfoAddKeyword
	StateInfoAddContent
	StateInfoDelete
	StateAdminAdd
	StateAdminRemove
	StateAdminSearch
)

// Session holds the dialogue state of one chat. All cross-message UX
// state lives here, never in process-wide maps.
type Session struct {
	State       State
	Step        int           // registration step index
	EditField   model.FieldID // field being edited
	InfoKeyword string        // pending info-base keyword
	LastBotMsg  int64         // last menu-style message, cleaned up before the next one
	LastQuery   string        // last search query, for de-duplication
}

// Sessions is a mutex-guarded session table keyed by chat id.
type Sessions struct {
	mu sync.Mutex
	m  map[int64]*Session
}

func NewSessions() *Sessions {
	return &Sessions{m: make(map[int64]*Session)}
}

// Get returns the session for the chat, creating an idle one on first use.
func (s *Sessions) Get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[chatID]
	if !ok {
		sess = &Session{}
		s.m[chatID] = sess
	}
	return sess
}

// Reset drops the dialogue back to idle, keeping the UX bookkeeping.
func (s *Sessions) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.m[chatID]; ok {
		last, query := sess.LastBotMsg, sess.LastQuery
		*sess = Session{LastBotMsg: last, LastQuery: query}
	}
}
