package collector

import "sync"

// TokenRecord is what a device remembers about its own submission for one
// invitation token: the credential needed to edit it later plus enough
// context to prefill the flow.
type TokenRecord struct {
	EditToken    string `json:"edit_token"`
	SubmissionID uint   `json:"submission_id"`
	Identity     string `json:"identity"`
	Response     string `json:"response"`
}

// TokenStore is the per-device edit-token cache, keyed by invitation token.
// The collector's edit-mode entry point requires a record to be present.
type TokenStore interface {
	Get(invitationToken string) (TokenRecord, bool)
	Set(invitationToken string, record TokenRecord)
	Remove(invitationToken string)
}

// MemoryTokenStore is an in-process TokenStore.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	records map[string]TokenRecord
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{records: make(map[string]TokenRecord)}
}

func (s *MemoryTokenStore) Get(invitationToken string) (TokenRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[invitationToken]
	return record, ok
}

func (s *MemoryTokenStore) Set(invitationToken string, record TokenRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[invitationToken] = record
}

func (s *MemoryTokenStore) Remove(invitationToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, invitationToken)
}
