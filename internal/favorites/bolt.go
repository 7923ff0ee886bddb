package favorites

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var boltBucket = []byte("favorites")

type boltSlot struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) a bolt database at path.
func OpenBolt(path string, logger *log.Logger) (Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening favorites bolt storage %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating favorites bolt bucket")
	}

	return newCodecStore("bolt", boltSlot{db}, logger), nil
}

func (b boltSlot) get() ([]byte, error) {
	var raw []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(boltBucket).Get([]byte(Key)); v != nil {
			// v is only valid inside the transaction.
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "reading favorites")
	}
	return raw, nil
}

func (b boltSlot) put(raw []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(Key), raw)
	})
	if err != nil {
		return errors.Wrap(err, "writing favorites")
	}
	return nil
}

func (b boltSlot) close() error {
	return b.db.Close()
}
