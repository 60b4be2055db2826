// Package boltstore keeps collections as keys of a single bbolt bucket. A
// multi-document Write commits in one bolt transaction.
package boltstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"dukkan/backend/internal/store"
)

var bucketName = []byte("collections")

type Store struct {
	db *bolt.DB
}

func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Read(ctx context.Context, name store.Collection) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !store.ValidCollection(name) {
		return nil, store.ErrInvalidInput
	}
	var body []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketName).Get([]byte(name))
		if value != nil {
			// value is only valid for the life of the transaction
			body = append([]byte(nil), value...)
		}
		return nil
	})
	return body, err
}

func (s *Store) Write(ctx context.Context, docs ...store.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, doc := range docs {
		if !store.ValidCollection(doc.Name) {
			return store.ErrInvalidInput
		}
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		for _, doc := range docs {
			if err := bucket.Put([]byte(doc.Name), doc.Body); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
