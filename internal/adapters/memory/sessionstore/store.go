package sessionstore

import (
	"context"
	"sync"

	"github.com/apa-portal/member-portal/internal/domain"
	"github.com/apa-portal/member-portal/internal/ports/out/sessionstore"
)

// Store is an in-memory implementation of sessionstore.Store.
// It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex
	m  map[domain.SessionID]sessionstore.Session
}

func NewStore() *Store {
	return &Store{m: make(map[domain.SessionID]sessionstore.Session)}
}

func (s *Store) Create(ctx context.Context, sess sessionstore.Session) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sess.ID] = sess
	return nil
}

func (s *Store) Get(ctx context.Context, id domain.SessionID) (sessionstore.Session, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.m[id]
	if !ok {
		return sessionstore.Session{}, sessionstore.ErrNotFound
	}
	return sess, nil
}

func (s *Store) Delete(ctx context.Context, id domain.SessionID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

func (s *Store) DeleteByMember(ctx context.Context, memberID domain.MemberID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.m {
		if sess.MemberID == memberID {
			delete(s.m, id)
		}
	}
	return nil
}
