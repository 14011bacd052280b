package store

import "slices"

// MaxQuantity is the most of one variant a single cart may hold.
const MaxQuantity = 20

// Key identifies a sellable variant. Two lines with the same key are the
// same line and additions merge into it instead of appending.
type Key struct {
	Slug  string `json:"slug"`
	Size  string `json:"size"`
	Color string `json:"color"`
}

// Line is one row of the cart.
type Line struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	ImageURL  string `json:"imageUrl"`
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (l Line) Key() Key {
	return Key{Slug: l.Slug, Size: l.Size, Color: l.Color}
}

// State holds the cart lines in insertion order, which is also display
// order. State values are immutable; every operation returns a new one.
type State struct {
	Lines []Line `json:"lines"`
}

func (s State) TotalQuantity() int {
	total := 0
	for _, line := range s.Lines {
		total += line.Quantity
	}
	return total
}

func (s State) clone() State {
	return State{Lines: slices.Clone(s.Lines)}
}

func (s State) indexOf(key Key) int {
	return slices.IndexFunc(s.Lines, func(l Line) bool { return l.Key() == key })
}

type NoticeKind string

const (
	NoticeNone        NoticeKind = ""
	NoticeAdded       NoticeKind = "added"
	NoticeMaxQuantity NoticeKind = "max-quantity"
	NoticeRemoved     NoticeKind = "removed"
	NoticeCleared     NoticeKind = "cleared"
)

// Notice describes what an operation did to the cart so the caller can
// surface it to the user. Operations never render anything themselves.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Line Line       `json:"line"`
}

// AddItem merges item into the cart. An existing line with the same key is
// incremented by one unless it already holds MaxQuantity, in which case the
// state is returned unchanged with a max-quantity notice. A new variant is
// appended with quantity one. item's Quantity field is ignored.
func AddItem(s State, item Line) (State, Notice) {
	i := s.indexOf(item.Key())
	if i < 0 {
		next := s.clone()
		item.Quantity = 1
		next.Lines = append(next.Lines, item)
		return next, Notice{Kind: NoticeAdded, Line: item}
	}
	if s.Lines[i].Quantity >= MaxQuantity {
		return s, Notice{Kind: NoticeMaxQuantity, Line: s.Lines[i]}
	}

	next := s.clone()
	next.Lines[i].Quantity++
	return next, Notice{Kind: NoticeAdded, Line: next.Lines[i]}
}

// RemoveItem deletes the line with the given key. Removing an absent key is
// a silent no-op.
func RemoveItem(s State, key Key) (State, Notice) {
	i := s.indexOf(key)
	if i < 0 {
		return s, Notice{}
	}

	removed := s.Lines[i]
	next := s.clone()
	next.Lines = slices.Delete(next.Lines, i, i+1)
	return next, Notice{Kind: NoticeRemoved, Line: removed}
}

// UpdateQuantity replaces the line's quantity in place. Values outside
// [1, MaxQuantity] and absent keys leave the state unchanged. No notice is
// raised.
func UpdateQuantity(s State, key Key, quantity int) State {
	if quantity < 1 || quantity > MaxQuantity {
		return s
	}
	i := s.indexOf(key)
	if i < 0 {
		return s
	}

	next := s.clone()
	next.Lines[i].Quantity = quantity
	return next
}

// IncreaseQuantity bumps the line by one, capped at MaxQuantity with a
// notice. Absent keys are a no-op.
func IncreaseQuantity(s State, key Key) (State, Notice) {
	i := s.indexOf(key)
	if i < 0 {
		return s, Notice{}
	}
	if s.Lines[i].Quantity >= MaxQuantity {
		return s, Notice{Kind: NoticeMaxQuantity, Line: s.Lines[i]}
	}

	next := s.clone()
	next.Lines[i].Quantity++
	return next, Notice{}
}

// DecreaseQuantity lowers the line by one. At quantity one the line is
// removed entirely rather than left at zero. Absent keys are a no-op.
func DecreaseQuantity(s State, key Key) (State, Notice) {
	i := s.indexOf(key)
	if i < 0 {
		return s, Notice{}
	}
	if s.Lines[i].Quantity <= 1 {
		return RemoveItem(s, key)
	}

	next := s.clone()
	next.Lines[i].Quantity--
	return next, Notice{}
}

// RemoveAll empties the cart unconditionally.
func RemoveAll(s State) (State, Notice) {
	return State{Lines: []Line{}}, Notice{Kind: NoticeCleared}
}
