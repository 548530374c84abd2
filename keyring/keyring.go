// Package keyring implements [campus.Store] on the operating system's
// credential store.
package keyring

import (
	"errors"
	"fmt"

	"github.com/fwojciec/campus"
	"github.com/zalando/go-keyring"
)

// DefaultService is the keyring service name entries are filed under.
const DefaultService = "campus"

// Interface compliance check.
var _ campus.Store = (*Store)(nil)

// Store keeps each key as a separate keyring entry of one service.
type Store struct {
	service string
}

// NewStore returns a Store that files entries under service.
// An empty service selects DefaultService.
func NewStore(service string) *Store {
	if service == "" {
		service = DefaultService
	}
	return &Store{service: service}
}

func (s *Store) Get(key string) (string, bool, error) {
	v, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("keyring: get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Set(key, value string) error {
	if err := keyring.Set(s.service, key, value); err != nil {
		return fmt.Errorf("keyring: set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	err := keyring.Delete(s.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring: delete %s: %w", key, err)
	}
	return nil
}

// Clear removes the well-known campus keys. The keyring cannot enumerate a
// service's entries, so keys outside campus.Keys are left alone.
func (s *Store) Clear() error {
	var errs []error
	for _, key := range campus.Keys {
		errs = append(errs, s.Delete(key))
	}
	return errors.Join(errs...)
}
