// Package boltstore implements catalog.Store on a bbolt database file.
package boltstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"floorctl/internal/catalog"
)

const (
	bucketCategories  = "categories"
	bucketContestants = "contestants"
)

var initDB = map[string]func(*bolt.Tx) error{
	"initialize category table": func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCategories))
		return err
	},
	"initialize contestant table": func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketContestants))
		return err
	},
}

// Store is a catalog.Store backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ catalog.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("boltstore: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddCategory implements catalog.Store.
func (s *Store) AddCategory(_ context.Context, c catalog.StoredCategory) error {
	return s.put(bucketCategories, c.ID, c)
}

// GetCategory implements catalog.Store.
func (s *Store) GetCategory(_ context.Context, id string) (catalog.StoredCategory, error) {
	var c catalog.StoredCategory
	err := s.get(bucketCategories, id, &c)
	return c, err
}

// DeleteCategory implements catalog.Store.
func (s *Store) DeleteCategory(_ context.Context, id string) error {
	return s.del(bucketCategories, id)
}

// DeleteAllCategories implements catalog.Store.
func (s *Store) DeleteAllCategories(context.Context) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketCategories)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketCategories))
		return err
	})
}

// ListCategories implements catalog.Store.
func (s *Store) ListCategories(context.Context) ([]catalog.CategoryRef, error) {
	var refs []catalog.CategoryRef
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketCategories)).ForEach(func(k, v []byte) error {
			var c catalog.StoredCategory
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("decode category %s: %w", k, err)
			}
			refs = append(refs, c.Ref())
			return nil
		})
	})
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].CreatedAt.Before(refs[j].CreatedAt) })
	return refs, err
}

// AddContestant implements catalog.Store.
func (s *Store) AddContestant(_ context.Context, c catalog.Contestant) error {
	return s.put(bucketContestants, c.ID, c)
}

// GetContestant implements catalog.Store.
func (s *Store) GetContestant(_ context.Context, id string) (catalog.Contestant, error) {
	var c catalog.Contestant
	err := s.get(bucketContestants, id, &c)
	return c, err
}

// DeleteContestant implements catalog.Store.
func (s *Store) DeleteContestant(_ context.Context, id string) error {
	return s.del(bucketContestants, id)
}

// ListContestants implements catalog.Store.
func (s *Store) ListContestants(context.Context) ([]catalog.Contestant, error) {
	var out []catalog.Contestant
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketContestants)).ForEach(func(k, v []byte) error {
			var c catalog.Contestant
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("decode contestant %s: %w", k, err)
			}
			out = append(out, c)
			return nil
		})
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (s *Store) put(bucket, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Put([]byte(id), data)
	})
}

func (s *Store) get(bucket, id string, v any) error {
	return s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucket)).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%s %q: %w", bucket, id, catalog.ErrNotFound)
		}
		return json.Unmarshal(data, v)
	})
}

func (s *Store) del(bucket, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b.Get([]byte(id)) == nil {
			return fmt.Errorf("%s %q: %w", bucket, id, catalog.ErrNotFound)
		}
		return b.Delete([]byte(id))
	})
}
