package app

import "sync"

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// KeyMutex serializes critical sections per group key, so unrelated groups
// never contend on a single global lock. Entries are refcounted and removed
// once the last holder unlocks.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

func NewKeyMutex() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*keyLock)}
}

func (k *KeyMutex) Lock(key string) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()
	l.mu.Lock()
}

func (k *KeyMutex) Unlock(key string) {
	k.mu.Lock()
	l := k.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
	l.mu.Unlock()
}
