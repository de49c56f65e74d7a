package tiles

// Handle is the identity of a rendered tile. It stays the same for as long as
// the tile's key remains visible, so hosts can keep the loaded asset.
type Handle uint64

// Entry pairs a tile key with its handle
type Entry struct {
	Key    Key
	Handle Handle
}

// Diff describes how the rendered tile set changed between two passes
type Diff struct {
	Added   []Entry // newly needed, hosts start loading these
	Kept    []Entry // still visible, reposition only
	Removed []Entry // no longer visible, hosts drop these
}

// Empty reports whether the pass changed nothing but offsets
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Arena maps tile keys to handles across render passes
type Arena struct {
	live map[Key]Handle
	next Handle
}

func NewArena() *Arena {
	return &Arena{live: make(map[Key]Handle)}
}

// Apply assigns handles to placements and diffs them against the previous
// pass. The same key may appear more than once when the surface is wider
// than the world; every copy shares one handle.
func (a *Arena) Apply(placements []Placement) Diff {
	var diff Diff
	needed := make(map[Key]Handle, len(placements))

	for i := range placements {
		key := placements[i].Key
		if h, ok := needed[key]; ok {
			placements[i].Handle = h
			continue
		}
		h, ok := a.live[key]
		if ok {
			diff.Kept = append(diff.Kept, Entry{Key: key, Handle: h})
		} else {
			a.next++
			h = a.next
			diff.Added = append(diff.Added, Entry{Key: key, Handle: h})
		}
		needed[key] = h
		placements[i].Handle = h
	}

	for key, h := range a.live {
		if _, ok := needed[key]; !ok {
			diff.Removed = append(diff.Removed, Entry{Key: key, Handle: h})
		}
	}

	a.live = needed
	return diff
}

// Len returns the number of live tiles
func (a *Arena) Len() int {
	return len(a.live)
}

// Reset removes every live tile and returns them
func (a *Arena) Reset() []Entry {
	removed := make([]Entry, 0, len(a.live))
	for key, h := range a.live {
		removed = append(removed, Entry{Key: key, Handle: h})
	}
	a.live = make(map[Key]Handle)
	return removed
}
