package localstore

import "context"

// Item is a typed handle on a single entry, such as a user preference.
//
//	darkMode := Item[bool]{Store: s, Key: "darkMode", Default: false}
//	darkMode.Set(ctx, !darkMode.Get(ctx))
type Item[T any] struct {
	Store   *Store
	Key     string
	Default T
}

// Get returns the stored value, or Default.
func (i Item[T]) Get(ctx context.Context) T {
	return Get(ctx, i.Store, i.Key, i.Default)
}

// Set stores v.
func (i Item[T]) Set(ctx context.Context, v T) {
	Set(ctx, i.Store, i.Key, v)
}

// Remove deletes the stored value, so that Get returns Default again.
func (i Item[T]) Remove(ctx context.Context) {
	i.Store.Remove(ctx, i.Key)
}

// IsSet reports whether a readable value is stored.
func (i Item[T]) IsSet(ctx context.Context) bool {
	_, found, err := Lookup[T](ctx, i.Store, i.Key)
	return found && err == nil
}
