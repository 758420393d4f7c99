package session

import (
	"errors"

	"github.com/codude/codude/internal/recipes"
)

// DefaultCapacity bounds the recency and favorites lists when the configured
// capacity is zero or negative; zero means "default", not "unlimited".
const DefaultCapacity = 5

// ErrFavoritesFull reports a toggle-on rejected because the favorites list is
// at capacity. The rejection is user-visible, never a silent truncation.
var ErrFavoritesFull = errors.New("favorites list is at capacity")

// RecencyList is a bounded most-recent-first sequence of recipe identities.
type RecencyList struct {
	capacity int
	items    []recipes.Identity
}

// NewRecencyList builds a list, seeding it with stored identities truncated to
// capacity (most recent kept) when the capacity shrank since the last run.
func NewRecencyList(capacity int, stored []recipes.Identity) *RecencyList {
	capacity = effectiveCapacity(capacity)
	list := &RecencyList{capacity: capacity}
	for _, id := range stored {
		if len(list.items) == capacity {
			break
		}
		if list.indexOf(id) < 0 {
			list.items = append(list.items, id)
		}
	}
	return list
}

// Touch moves the identity to the front, inserting it if absent and
// truncating the tail to capacity. Touching twice in a row is idempotent.
func (l *RecencyList) Touch(id recipes.Identity) {
	if existing := l.indexOf(id); existing >= 0 {
		l.items = append(l.items[:existing], l.items[existing+1:]...)
	}
	l.items = append([]recipes.Identity{id}, l.items...)
	if len(l.items) > l.capacity {
		l.items = l.items[:l.capacity]
	}
}

// Remove drops the identity if present.
func (l *RecencyList) Remove(id recipes.Identity) {
	if existing := l.indexOf(id); existing >= 0 {
		l.items = append(l.items[:existing], l.items[existing+1:]...)
	}
}

// Rekey replaces an identity in place, preserving its position.
func (l *RecencyList) Rekey(oldID recipes.Identity, newID recipes.Identity) {
	if existing := l.indexOf(oldID); existing >= 0 {
		l.items[existing] = newID
	}
}

// Contains reports membership under normalized comparison.
func (l *RecencyList) Contains(id recipes.Identity) bool { return l.indexOf(id) >= 0 }

// Items returns the identities most-recent-first.
func (l *RecencyList) Items() []recipes.Identity {
	out := make([]recipes.Identity, len(l.items))
	copy(out, l.items)
	return out
}

// Len reports the current length, always <= capacity.
func (l *RecencyList) Len() int { return len(l.items) }

func (l *RecencyList) indexOf(id recipes.Identity) int {
	for index, item := range l.items {
		if item.Equal(id) {
			return index
		}
	}
	return -1
}

// FavoritesList is a capacity-bounded, insertion-ordered set of recipe
// identities.
type FavoritesList struct {
	capacity int
	items    []recipes.Identity
}

// NewFavoritesList builds a list, keeping stored identities in insertion
// order up to capacity.
func NewFavoritesList(capacity int, stored []recipes.Identity) *FavoritesList {
	capacity = effectiveCapacity(capacity)
	list := &FavoritesList{capacity: capacity}
	for _, id := range stored {
		if len(list.items) == capacity {
			break
		}
		if list.indexOf(id) < 0 {
			list.items = append(list.items, id)
		}
	}
	return list
}

// Toggle adds an absent identity when under capacity (added=true), removes a
// present one (added=false), and rejects an add at capacity with
// ErrFavoritesFull, leaving the list unchanged.
func (l *FavoritesList) Toggle(id recipes.Identity) (added bool, err error) {
	if existing := l.indexOf(id); existing >= 0 {
		l.items = append(l.items[:existing], l.items[existing+1:]...)
		return false, nil
	}
	if len(l.items) >= l.capacity {
		return false, ErrFavoritesFull
	}
	l.items = append(l.items, id)
	return true, nil
}

// Remove drops the identity if present.
func (l *FavoritesList) Remove(id recipes.Identity) {
	if existing := l.indexOf(id); existing >= 0 {
		l.items = append(l.items[:existing], l.items[existing+1:]...)
	}
}

// Rekey replaces an identity in place, preserving its position.
func (l *FavoritesList) Rekey(oldID recipes.Identity, newID recipes.Identity) {
	if existing := l.indexOf(oldID); existing >= 0 {
		l.items[existing] = newID
	}
}

// Contains reports membership under normalized comparison.
func (l *FavoritesList) Contains(id recipes.Identity) bool { return l.indexOf(id) >= 0 }

// Items returns the identities in insertion order.
func (l *FavoritesList) Items() []recipes.Identity {
	out := make([]recipes.Identity, len(l.items))
	copy(out, l.items)
	return out
}

// Len reports the current length.
func (l *FavoritesList) Len() int { return len(l.items) }

func (l *FavoritesList) indexOf(id recipes.Identity) int {
	for index, item := range l.items {
		if item.Equal(id) {
			return index
		}
	}
	return -1
}

func effectiveCapacity(capacity int) int {
	if capacity <= 0 {
		return DefaultCapacity
	}
	return capacity
}
