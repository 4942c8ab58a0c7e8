package storage

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrValueIDOutOfRange = errors.New("value id out of range")
)

type (
	// Dictionary is the per-column mapping between domain values and ValueIDs.
	// The execution core only reads it; concurrent lookups are safe.
	Dictionary[T comparable] interface {
		// FindValueIDForValue returns NotFoundValueID when the value is absent
		FindValueIDForValue(v T) ValueID
		ValueForValueID(id ValueID) (T, error)
		Size() uint64
	}

	// MapDictionary is an insertion-ordered in-memory Dictionary. Writes only
	// happen while a table is being loaded, reads may be concurrent.
	MapDictionary[T comparable] struct {
		mu     sync.RWMutex
		values []T
		ids    map[T]ValueID
	}
)

func NewMapDictionary[T comparable]() *MapDictionary[T] {
	return &MapDictionary[T]{
		ids: make(map[T]ValueID),
	}
}

// AddValue inserts v if it is not already present and returns its ValueID.
func (d *MapDictionary[T]) AddValue(v T) ValueID {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, exists := d.ids[v]; exists {
		return id
	}
	id := ValueID(len(d.values))
	d.values = append(d.values, v)
	d.ids[v] = id
	return id
}

func (d *MapDictionary[T]) FindValueIDForValue(v T) ValueID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, exists := d.ids[v]
	if !exists {
		return NotFoundValueID
	}
	return id
}

func (d *MapDictionary[T]) ValueForValueID(id ValueID) (T, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if uint64(id) >= uint64(len(d.values)) {
		var zero T
		return zero, fmt.Errorf("%w: %d of %d", ErrValueIDOutOfRange, id, len(d.values))
	}
	return d.values[id], nil
}

func (d *MapDictionary[T]) Size() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return uint64(len(d.values))
}
