// Package locks provides mutual exclusion scoped to a single key.
package locks

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Keyed is a set of mutexes, one per key. Entries are dropped once nobody holds or
// waits for them. The zero value is ready to use.
type Keyed[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*entry
}

// Lock blocks until the mutex for key is acquired and returns the function that
// releases it.
func (k *Keyed[K]) Lock(key K) (unlock func()) {
	k.mu.Lock()
	if k.entries == nil {
		k.entries = make(map[K]*entry)
	}
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}

// Len returns the number of keys that are held or waited for.
func (k *Keyed[K]) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
