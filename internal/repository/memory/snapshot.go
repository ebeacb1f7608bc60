package memory

import (
	"slices"

	"coinlings/internal/domain/models"
)

// UserRecord carries the password hash that models.User hides from JSON.
type UserRecord struct {
	models.User
	PasswordHash []byte `json:"password_hash"`
}

// Snapshot is the whole store, ordered the way the store keeps it.
type Snapshot struct {
	Users        []UserRecord         `json:"users"`
	Transactions []models.Transaction `json:"transactions"`
	Containers   []models.Container   `json:"containers"`
	Creatures    []models.Creature    `json:"creatures"`
}

func exportState(st *state) Snapshot {
	users := make([]UserRecord, 0, len(st.users))
	for _, u := range st.users {
		users = append(users, UserRecord{User: u, PasswordHash: u.Password})
	}
	slices.SortFunc(users, func(a, b UserRecord) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return Snapshot{
		Users:        users,
		Transactions: slices.Clone(st.transactions),
		Containers:   slices.Clone(st.containers),
		Creatures:    slices.Clone(st.creatures),
	}
}

// ExportState returns a copy of the current state.
func (s *Storage) ExportState() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return exportState(s.st)
}

// ImportState replaces the current state without calling the persister.
func (s *Storage) ImportState(snapshot Snapshot) {
	st := newState()
	for _, rec := range snapshot.Users {
		u := rec.User
		u.Password = slices.Clone(rec.PasswordHash)
		st.users[u.ID] = u
		st.emails[u.Email] = u.ID
	}
	st.transactions = slices.Clone(snapshot.Transactions)
	st.containers = slices.Clone(snapshot.Containers)
	st.creatures = slices.Clone(snapshot.Creatures)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = st
}
