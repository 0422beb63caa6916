package service

import "sync"

// GroupLocks serializes mutating operations per funding group. Writers for
// different groups proceed in parallel; two writers for the same group never
// interleave, so derived aggregates always see a consistent ledger.
type GroupLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewGroupLocks creates an empty lock registry.
func NewGroupLocks() *GroupLocks {
	return &GroupLocks{locks: make(map[string]*sync.Mutex)}
}

func (g *GroupLocks) get(name string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	lock, ok := g.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[name] = lock
	}
	return lock
}

// Lock acquires the write lock for one funding group and returns the unlock
// function.
func (g *GroupLocks) Lock(name string) func() {
	lock := g.get(name)
	lock.Lock()
	return lock.Unlock
}

// LockPair acquires the write locks for two funding groups in lexical order,
// so a transaction moving between groups cannot deadlock against another
// mover going the opposite way.
func (g *GroupLocks) LockPair(a, b string) func() {
	if a == b {
		return g.Lock(a)
	}
	if a > b {
		a, b = b, a
	}
	first, second := g.get(a), g.get(b)
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}
