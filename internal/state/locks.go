package state

import "sync"

// Locks сериализует обработку событий одного пользователя.
// Мьютексы создаются по требованию и удаляются, когда их никто не держит.
type Locks struct {
	mu    sync.Mutex
	users map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewLocks() *Locks {
	return &Locks{users: make(map[int64]*userLock)}
}

// Lock блокирует пользователя и возвращает функцию разблокировки
func (l *Locks) Lock(userID int64) func() {
	l.mu.Lock()
	ul, ok := l.users[userID]
	if !ok {
		ul = &userLock{}
		l.users[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()

		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.users, userID)
		}
		l.mu.Unlock()
	}
}

// size - число живых мьютексов, для тестов
func (l *Locks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.users)
}
