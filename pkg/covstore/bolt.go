package covstore

import (
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mappa-dev/mappa/internal/errors"
)

// coverageBucket holds one key per resource-id; the value is a single
// byte bitmask (bit 0 accessed, bit 1 rendered).
var coverageBucket = []byte("coverage")

const (
	bitAccessed = 0x1
	bitRendered = 0x2
)

// Bolt is a file-backed Store on top of bbolt. Marks run in write
// transactions, so the OR-merge is atomic across processes sharing the
// file.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) a bolt-backed store at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errors.New(errors.CodeStoreIO).Wrap(err).
			WithMessagef("opening coverage database %q", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(coverageBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.FromError(err, errors.CodeStoreIO)
	}
	return &Bolt{db: db}, nil
}

// Get implements Store.
func (b *Bolt) Get(id string) (Record, error) {
	var rec Record
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(coverageBucket).Get([]byte(id))
		if len(v) > 0 {
			rec = decodeRecord(v[0])
		}
		return nil
	})
	if err != nil {
		return Record{}, errors.FromError(err, errors.CodeStoreIO)
	}
	return rec, nil
}

// Mark implements Store.
func (b *Bolt) Mark(id string, accessed, rendered bool) error {
	if !accessed && !rendered {
		return nil
	}
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(coverageBucket)
		var mask byte
		if v := bkt.Get([]byte(id)); len(v) > 0 {
			mask = v[0]
		}
		if accessed {
			mask |= bitAccessed
		}
		if rendered {
			mask |= bitRendered
		}
		return bkt.Put([]byte(id), []byte{mask})
	})
	if err != nil {
		return errors.FromError(err, errors.CodeStoreIO)
	}
	return nil
}

// All implements Store.
func (b *Bolt) All() (map[string]Record, error) {
	out := map[string]Record{}
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(coverageBucket).ForEach(func(k, v []byte) error {
			if len(v) > 0 {
				out[string(k)] = decodeRecord(v[0])
			}
			return nil
		})
	})
	if err != nil {
		return nil, errors.FromError(err, errors.CodeStoreIO)
	}
	return out, nil
}

// Reset implements Store.
func (b *Bolt) Reset() error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(coverageBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(coverageBucket)
		return err
	})
	if err != nil {
		return errors.FromError(err, errors.CodeStoreIO)
	}
	return nil
}

// Close implements Store.
func (b *Bolt) Close() error {
	if err := b.db.Close(); err != nil {
		return errors.FromError(err, errors.CodeStoreIO)
	}
	return nil
}

func decodeRecord(mask byte) Record {
	return Record{
		Accessed: mask&bitAccessed != 0,
		Rendered: mask&bitRendered != 0,
	}
}
