package ktchn

import "slices"

// record is what catalogs hold: something with a stable identity.
type record interface {
	ID() ID
}

// The helpers below never modify their input slice. Each returns a fresh
// slice, so previous snapshots stay valid.

func indexOf[T record](list []T, id ID) int {
	return slices.IndexFunc(list, func(r T) bool { return r.ID() == id })
}

func prepend[T record](list []T, r T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, r)
	return append(out, list...)
}

// replace returns list with the record of the same id replaced by r, and
// whether such a record existed.
func replace[T record](list []T, r T) ([]T, bool) {
	i := indexOf(list, r.ID())
	if i < 0 {
		return list, false
	}
	out := slices.Clone(list)
	out[i] = r
	return out, true
}

// remove returns list without the record with that id, and whether such a
// record existed.
func remove[T record](list []T, id ID) ([]T, bool) {
	i := indexOf(list, id)
	if i < 0 {
		return list, false
	}
	return slices.Delete(slices.Clone(list), i, i+1), true
}
