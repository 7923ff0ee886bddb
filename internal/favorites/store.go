// Package favorites persists the set of favorite article IDs.
//
// Every backend stores the whole set as one JSON array under Key and
// overwrites it on each Save. Load never fails: missing or corrupt data
// reads as an empty set.
package favorites

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abelbrown/feedbox/internal/logging"
	"github.com/abelbrown/feedbox/internal/model"
	"github.com/charmbracelet/log"
)

// Key is the storage slot holding the serialized favorite set.
const Key = "favoriteArticles"

// Store loads and saves the favorite set.
type Store interface {
	Load() model.FavoriteSet
	Save(model.FavoriteSet) error
	Close() error
}

// slot is the raw key/value capability each backend provides. A missing
// value is reported as (nil, nil).
type slot interface {
	get() ([]byte, error)
	put([]byte) error
	close() error
}

// codecStore turns a slot into a Store.
type codecStore struct {
	name   string
	slot   slot
	logger *log.Logger
}

func newCodecStore(name string, s slot, logger *log.Logger) *codecStore {
	return &codecStore{name: name, slot: s, logger: logging.OrDiscard(logger)}
}

// Load reads the set, returning an empty set on any failure.
func (s *codecStore) Load() model.FavoriteSet {
	raw, err := s.slot.get()
	if err != nil {
		s.logger.Warn("favorites: read failed, starting empty", "backend", s.name, "err", err)
		return model.NewFavoriteSet()
	}
	set, err := Decode(raw)
	if err != nil {
		s.logger.Warn("favorites: stored value unreadable, starting empty", "backend", s.name, "err", err)
		return model.NewFavoriteSet()
	}
	return set
}

// Save overwrites the stored set with set.
func (s *codecStore) Save(set model.FavoriteSet) error {
	raw, err := Encode(set)
	if err != nil {
		return err
	}
	if err := s.slot.put(raw); err != nil {
		return fmt.Errorf("save favorites (%s): %w", s.name, err)
	}
	return nil
}

func (s *codecStore) Close() error {
	return s.slot.close()
}

// Encode serializes set as a JSON array in insertion order.
func Encode(set model.FavoriteSet) ([]byte, error) {
	raw, err := json.Marshal(set.IDs())
	if err != nil {
		return nil, fmt.Errorf("encode favorites: %w", err)
	}
	return raw, nil
}

// Decode parses a JSON array of IDs. Empty input is an empty set.
func Decode(raw []byte) (model.FavoriteSet, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return model.NewFavoriteSet(), nil
	}
	var ids []model.ArticleID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return model.FavoriteSet{}, fmt.Errorf("decode favorites: %w", err)
	}
	return model.NewFavoriteSet(ids...), nil
}
