package draft

// ItemID identifies an agenda item or speaker within one draft.
type ItemID int64

// arena stores records keyed by ItemID and keeps insertion order as a
// separate sequence of ids. Mutating methods return a new arena and leave
// the receiver untouched, so snapshots that share an arena stay valid.
type arena[T any] struct {
	order []ItemID
	items map[ItemID]T
}

func (a arena[T]) clone() arena[T] {
	out := arena[T]{
		order: make([]ItemID, len(a.order), len(a.order)+1),
		items: make(map[ItemID]T, len(a.items)+1),
	}
	copy(out.order, a.order)
	for id, v := range a.items {
		out.items[id] = v
	}
	return out
}

func (a arena[T]) add(id ItemID, v T) arena[T] {
	out := a.clone()
	out.order = append(out.order, id)
	out.items[id] = v
	return out
}

// update applies fn to the record at id. The second result is false (and the
// receiver is returned as is) when id is absent.
func (a arena[T]) update(id ItemID, fn func(T) T) (arena[T], bool) {
	cur, ok := a.items[id]
	if !ok {
		return a, false
	}
	out := a.clone()
	out.items[id] = fn(cur)
	return out, true
}

func (a arena[T]) remove(id ItemID) (arena[T], bool) {
	if _, ok := a.items[id]; !ok {
		return a, false
	}
	out := arena[T]{
		order: make([]ItemID, 0, len(a.order)-1),
		items: make(map[ItemID]T, len(a.items)-1),
	}
	for _, oid := range a.order {
		if oid == id {
			continue
		}
		out.order = append(out.order, oid)
		out.items[oid] = a.items[oid]
	}
	return out, true
}

func (a arena[T]) get(id ItemID) (T, bool) {
	v, ok := a.items[id]
	return v, ok
}

func (a arena[T]) has(id ItemID) bool {
	_, ok := a.items[id]
	return ok
}

// list returns the records in insertion order. The slice is freshly allocated.
func (a arena[T]) list() []T {
	out := make([]T, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.items[id])
	}
	return out
}

func (a arena[T]) len() int {
	return len(a.order)
}
