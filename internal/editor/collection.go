package editor

import "slices"

// Toggle removes item from set when present and appends it otherwise. The
// input is never mutated. Toggling the same item twice restores the original
// membership, for tags and size variants alike.
func Toggle[T comparable](set []T, item T) []T {
	if slices.Contains(set, item) {
		out := make([]T, 0, len(set))
		for _, v := range set {
			if v != item {
				out = append(out, v)
			}
		}
		return out
	}
	out := make([]T, 0, len(set)+1)
	out = append(out, set...)
	return append(out, item)
}

// AddIfAbsent appends item unless it is already present. It never removes, so
// applying it twice equals applying it once.
func AddIfAbsent[T comparable](set []T, item T) []T {
	if slices.Contains(set, item) {
		return slices.Clone(set)
	}
	out := make([]T, 0, len(set)+1)
	out = append(out, set...)
	return append(out, item)
}

// fieldAccess pairs a collection field's reader with its writer so the same
// toggle logic serves any set-valued field of the store.
type fieldAccess[T comparable] struct {
	get func() []T
	set func([]T)
}

func (f fieldAccess[T]) toggle(item T) {
	f.set(Toggle(f.get(), item))
}

func (f fieldAccess[T]) addIfAbsent(item T) {
	f.set(AddIfAbsent(f.get(), item))
}
