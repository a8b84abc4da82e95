package services

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"applyflow/autofill-engine/internal/models"
)

// SessionTracker maps raw repeated-group identifiers to stable sequential
// slot indices within one form-resolution episode. Sessions are keyed by a
// form signature derived from the presented field set, so repeat visits to
// the same form reuse the same index assignment. The session table is an
// LRU so unbounded distinct signatures cannot grow memory without limit.
type SessionTracker interface {
	FormID(fields []models.Field) string
	GroupIndex(formID string, rawGroupID int) int
	Sessions() int
}

type formSession struct {
	groupToIndex map[int]int
	nextIndex    int
}

type sessionTracker struct {
	mu       sync.Mutex
	sessions *lru.Cache[string, *formSession]
}

func NewSessionTracker(maxSessions int) (SessionTracker, error) {
	if maxSessions <= 0 {
		maxSessions = 256
	}

	sessions, err := lru.New[string, *formSession](maxSessions)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	return &sessionTracker{sessions: sessions}, nil
}

// FormID implements SessionTracker. The signature covers every field id and
// label presented together, so the same logical form hashes identically on
// repeat visits as long as the upstream scraper keeps field order stable.
func (t *sessionTracker) FormID(fields []models.Field) string {
	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(f.FieldID)
		sb.WriteByte(':')
		sb.WriteString(f.Label)
	}

	h := fnv.New64a()
	h.Write([]byte(sb.String()))
	return fmt.Sprintf("form_%x", h.Sum64())
}

// GroupIndex implements SessionTracker. The first raw group id seen within a
// session gets index 0, the next distinct id gets 1, and so on; a raw id
// always resolves to its originally assigned index for the remainder of the
// session, and two distinct raw ids never share an index.
func (t *sessionTracker) GroupIndex(formID string, rawGroupID int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	session, ok := t.sessions.Get(formID)
	if !ok {
		session = &formSession{groupToIndex: make(map[int]int)}
		t.sessions.Add(formID, session)
	}

	if idx, ok := session.groupToIndex[rawGroupID]; ok {
		return idx
	}

	idx := session.nextIndex
	session.groupToIndex[rawGroupID] = idx
	session.nextIndex++
	return idx
}

// Sessions implements SessionTracker.
func (t *sessionTracker) Sessions() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessions.Len()
}
