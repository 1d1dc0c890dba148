package utils

import "sync"

// KeyLock serializes work per string key. The resolver uses it to make
// the read-check-write of a ticket's used flag a single critical section
// for its (owner, event) key, without blocking unrelated tickets.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*keyLockEntry
}

type keyLockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyLock() *KeyLock {
	return &KeyLock{locks: make(map[string]*keyLockEntry)}
}

// Lock acquires the mutex for key, creating it on first use.
func (kl *KeyLock) Lock(key string) {
	kl.mu.Lock()
	entry, ok := kl.locks[key]
	if !ok {
		entry = &keyLockEntry{}
		kl.locks[key] = entry
	}
	entry.refs++
	kl.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases the mutex for key and frees it when no one is waiting.
func (kl *KeyLock) Unlock(key string) {
	kl.mu.Lock()
	entry, ok := kl.locks[key]
	if ok {
		entry.refs--
		if entry.refs == 0 {
			delete(kl.locks, key)
		}
	}
	kl.mu.Unlock()

	if ok {
		entry.mu.Unlock()
	}
}
