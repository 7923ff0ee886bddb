package model

// FavoriteSet is an insertion-ordered set of article IDs.
// The zero value is an empty set ready to use.
type FavoriteSet struct {
	ids []ArticleID
	idx map[ArticleID]struct{}
}

// NewFavoriteSet builds a set from ids, dropping duplicates.
func NewFavoriteSet(ids ...ArticleID) FavoriteSet {
	var s FavoriteSet
	for _, id := range ids {
		s.add(id)
	}
	return s
}

// Has reports whether id is in the set.
func (s FavoriteSet) Has(id ArticleID) bool {
	_, ok := s.idx[id]
	return ok
}

// Len returns the number of IDs in the set.
func (s FavoriteSet) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the IDs in insertion order. Never nil.
func (s FavoriteSet) IDs() []ArticleID {
	out := make([]ArticleID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Toggle flips membership of id and returns the new set together with
// whether id is now a member. The receiver is not modified.
func (s FavoriteSet) Toggle(id ArticleID) (FavoriteSet, bool) {
	next := s.Clone()
	if next.Has(id) {
		next.remove(id)
		return next, false
	}
	next.add(id)
	return next, true
}

// Clone returns an independent copy.
func (s FavoriteSet) Clone() FavoriteSet {
	return NewFavoriteSet(s.ids...)
}

func (s *FavoriteSet) add(id ArticleID) {
	if s.idx == nil {
		s.idx = make(map[ArticleID]struct{})
	}
	if _, ok := s.idx[id]; ok {
		return
	}
	s.idx[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func (s *FavoriteSet) remove(id ArticleID) {
	delete(s.idx, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			return
		}
	}
}
