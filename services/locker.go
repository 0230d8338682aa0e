package services

import "sync"

// TournamentLocker serializes mutations per tournament inside one process.
// The database advisory lock covers other processes.
type TournamentLocker struct {
	mu    sync.Mutex
	locks map[int]*tournamentLock
}

type tournamentLock struct {
	mu   sync.Mutex
	refs int
}

func NewTournamentLocker() *TournamentLocker {
	return &TournamentLocker{locks: make(map[int]*tournamentLock)}
}

// Lock blocks until the tournament is free and returns the matching unlock.
func (l *TournamentLocker) Lock(tournamentID int) func() {
	l.mu.Lock()
	entry, ok := l.locks[tournamentID]
	if !ok {
		entry = &tournamentLock{}
		l.locks[tournamentID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, tournamentID)
		}
		l.mu.Unlock()
	}
}
