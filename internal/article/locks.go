package article

import (
	"sync"

	"blog-api/internal/model"
)

// idLocks hands out one mutex per article id, dropping it once nobody holds it.
type idLocks struct {
	mu    sync.Mutex
	locks map[model.ArticleID]*idLock
}

type idLock struct {
	sync.Mutex
	refs int
}

func newIDLocks() *idLocks {
	return &idLocks{locks: make(map[model.ArticleID]*idLock)}
}

// lock blocks until id is free and returns the matching unlock func.
func (l *idLocks) lock(id model.ArticleID) func() {
	l.mu.Lock()
	lk, ok := l.locks[id]
	if !ok {
		lk = &idLock{}
		l.locks[id] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.Lock()
	return func() {
		lk.Unlock()

		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
