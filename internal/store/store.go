package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidInput      = errors.New("invalid input")
)

type Collection string

const (
	Products Collection = "products"
	Carts    Collection = "carts"
	Debts    Collection = "debts"
	Expenses Collection = "expenses"
)

var Collections = []Collection{Products, Carts, Debts, Expenses}

// Document is the whole serialized body of one collection.
type Document struct {
	Name Collection
	Body []byte
}

// Store keeps one JSON document per collection. Read returns a nil body when
// the collection has never been written. Write replaces every given document;
// readers never observe a partially written document.
type Store interface {
	Read(ctx context.Context, name Collection) ([]byte, error)
	Write(ctx context.Context, docs ...Document) error
	Close() error
}

// Load decodes a collection into records. A missing or empty collection
// yields an empty, non-nil slice.
func Load[T any](ctx context.Context, s Store, name Collection) ([]T, error) {
	body, err := s.Read(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	records := make([]T, 0)
	if len(bytes.TrimSpace(body)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%s is not an array of records: %w", name, err)
	}
	if records == nil {
		records = make([]T, 0)
	}
	return records, nil
}

// Encode serializes records into a document ready for Write.
func Encode[T any](name Collection, records []T) (Document, error) {
	if records == nil {
		records = make([]T, 0)
	}
	body, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return Document{}, fmt.Errorf("encode %s: %w", name, err)
	}
	return Document{Name: name, Body: body}, nil
}

func Save[T any](ctx context.Context, s Store, name Collection, records []T) error {
	doc, err := Encode(name, records)
	if err != nil {
		return err
	}
	if err := s.Write(ctx, doc); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func ValidCollection(name Collection) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}
