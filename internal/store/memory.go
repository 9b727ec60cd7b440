package store

// MemoryStore is an in-process slot. It keeps the raw slot text so tests
// can seed malformed values.
type MemoryStore struct {
	raw     string
	present bool
	saves   int
}

// NewMemoryStore returns a store seeded with tasks. With no tasks the slot
// starts absent.
func NewMemoryStore(tasks ...string) *MemoryStore {
	s := &MemoryStore{}
	if len(tasks) > 0 {
		data, _ := encodeSlot(tasks)
		s.raw = string(data)
		s.present = true
	}
	return s
}

// NewMemoryStoreRaw returns a store whose slot holds raw verbatim.
func NewMemoryStoreRaw(raw string) *MemoryStore {
	return &MemoryStore{raw: raw, present: true}
}

// Load decodes the slot.
func (s *MemoryStore) Load() ([]string, error) {
	if !s.present {
		return []string{}, nil
	}
	return decodeSlot([]byte(s.raw))
}

// Save encodes tasks into the slot.
func (s *MemoryStore) Save(tasks []string) error {
	data, err := encodeSlot(tasks)
	if err != nil {
		return err
	}
	s.raw = string(data)
	s.present = true
	s.saves++
	return nil
}

// Raw returns the slot text and whether the slot is present.
func (s *MemoryStore) Raw() (string, bool) {
	return s.raw, s.present
}

// Saves reports how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	return s.saves
}
