package otp

import (
	"strings"
	"sync"
	"time"
)

// PendingCode — одна активная запись на email (повторная отправка перезаписывает).
type PendingCode struct {
	Email      string
	Code       string
	IssuedAt   time.Time
	ExpiresAt  time.Time
	Attempts   int
	LastSentAt time.Time
}

func (p *PendingCode) ExpiredAt(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// Store — in-process registry of pending one-time codes keyed by normalized
// email. State lives in memory only: a restart drops all pending codes, which
// is acceptable because the user can simply request a new one. For a
// multi-instance deployment this must be swapped for a shared TTL store.
type Store struct {
	mu      sync.Mutex
	entries map[string]*PendingCode

	// Now is replaceable in tests
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]*PendingCode),
		Now:     time.Now,
	}
}

// NormalizeEmail — единая нормализация ключа (trim + lower).
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Put — unconditionally overwrites any existing entry for the email.
func (s *Store) Put(email, code string, ttl time.Duration) *PendingCode {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	key := NormalizeEmail(email)
	entry := &PendingCode{
		Email:      key,
		Code:       code,
		IssuedAt:   now,
		ExpiresAt:  now.Add(ttl),
		Attempts:   0,
		LastSentAt: now,
	}
	s.entries[key] = entry
	return entry
}

// Get returns a copy of the entry so callers cannot mutate store state
// outside the lock. Expired entries are still returned; expiry policy
// belongs to the caller.
func (s *Store) Get(email string) (PendingCode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[NormalizeEmail(email)]
	if !ok {
		return PendingCode{}, false
	}
	return *entry, true
}

func (s *Store) Remove(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, NormalizeEmail(email))
}

// Touch — +1 failed attempt, returns the new count. False if no entry.
func (s *Store) Touch(email string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[NormalizeEmail(email)]
	if !ok {
		return 0, false
	}
	entry.Attempts++
	return entry.Attempts, true
}

// PurgeExpired — удаляем протухшие записи, возвращаем сколько снесли.
// Correctness does not depend on this (expiry is checked on read); it only
// bounds memory.
func (s *Store) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	purged := 0
	for key, entry := range s.entries {
		if now.After(entry.ExpiresAt) {
			delete(s.entries, key)
			purged++
		}
	}
	return purged
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartSweeper — periodic purge until the stop channel closes.
func (s *Store) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.PurgeExpired()
			case <-stop:
				return
			}
		}
	}()
}
