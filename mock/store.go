package mock

// Store is a test double for campus.Store.
type Store struct {
	GetFn    func(key string) (string, bool, error)
	SetFn    func(key, value string) error
	DeleteFn func(key string) error
	ClearFn  func() error
}

// Get delegates to GetFn.
func (s *Store) Get(key string) (string, bool, error) {
	return s.GetFn(key)
}

// Set delegates to SetFn.
func (s *Store) Set(key, value string) error {
	return s.SetFn(key, value)
}

// Delete delegates to DeleteFn.
func (s *Store) Delete(key string) error {
	return s.DeleteFn(key)
}

// Clear delegates to ClearFn.
func (s *Store) Clear() error {
	return s.ClearFn()
}
