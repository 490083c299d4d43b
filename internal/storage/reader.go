package storage

import (
	"sort"

	"github.com/carson-networks/atm-ledger/internal/storage/account"
)

// Find returns a copy of the account with the given id. Changes to the copy
// are never seen by the store.
func (s *Storage) Find(id string) (account.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.accounts[id]
	if !ok {
		return account.Account{}, false
	}
	return *acct, true
}

// Len returns the number of accounts in the store.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// ids returns every account id in ascending order.
func (s *Storage) ids() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
