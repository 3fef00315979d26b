package cartclient

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	pkgerrors "github.com/shoplite/shoplite-backend/pkg/errors"
)

const (
	localCartFile    = "cart.json"
	mergeJournalFile = "cart.merge.json"
)

// LocalStore keeps the guest cart as a single JSON document on disk. An
// absent, empty, or corrupt document loads as an empty cart; the guest never
// sees a read error for a cart they haven't written yet.
type LocalStore struct {
	mu  sync.Mutex
	dir string
}

// DefaultDir returns the per-user data directory for the cart document.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve config dir")
	}
	return filepath.Join(base, "shoplite"), nil
}

// NewLocalStore builds a local store rooted at dir, creating it if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "local store dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create local store dir")
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) cartPath() string {
	return filepath.Join(s.dir, localCartFile)
}

func (s *LocalStore) journalPath() string {
	return filepath.Join(s.dir, mergeJournalFile)
}

// Get loads the current snapshot.
func (s *LocalStore) Get(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

// AddItem sums quantity into any existing line for the item.
func (s *LocalStore) AddItem(_ context.Context, itemID uuid.UUID, quantity int) (Snapshot, error) {
	if err := validateAdd(itemID, quantity); err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.load()
	found := false
	for i, line := range snap.Items {
		if line.ItemID == itemID {
			snap.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		snap.Items = append(snap.Items, Line{ItemID: itemID, Quantity: quantity})
	}
	if err := s.save(snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// SetQuantity sets the line's quantity; zero removes the line.
func (s *LocalStore) SetQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (Snapshot, error) {
	if itemID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if quantity < 0 {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, itemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.load()
	found := false
	for i, line := range snap.Items {
		if line.ItemID == itemID {
			snap.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		snap.Items = append(snap.Items, Line{ItemID: itemID, Quantity: quantity})
	}
	if err := s.save(snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// RemoveItem drops the line; removing an absent line is a no-op.
func (s *LocalStore) RemoveItem(_ context.Context, itemID uuid.UUID) (Snapshot, error) {
	if itemID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.load()
	kept := snap.Items[:0]
	for _, line := range snap.Items {
		if line.ItemID != itemID {
			kept = append(kept, line)
		}
	}
	snap.Items = kept
	if err := s.save(snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Clear empties the cart.
func (s *LocalStore) Clear(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Items: []Line{}}
	if err := s.save(snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *LocalStore) load() Snapshot {
	data, err := os.ReadFile(s.cartPath())
	if err != nil {
		return Snapshot{Items: []Line{}}
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Corrupt document: start over rather than brick the cart.
		return Snapshot{Items: []Line{}}
	}
	if snap.Items == nil {
		snap.Items = []Line{}
	}
	return snap
}

func (s *LocalStore) save(snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode local cart")
	}
	if err := writeFileAtomic(s.cartPath(), data); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write local cart")
	}
	return nil
}

// mergeJournal records an in-flight sign-in merge so a crash mid-merge can
// resume without double-counting. Merged keeps the lines that already landed
// on the server; they must not be offered to a different identity later.
type mergeJournal struct {
	Identity string `json:"identity"`
	Pending  []Line `json:"pending"`
	Merged   []Line `json:"merged,omitempty"`
}

func (s *LocalStore) readJournal() (*mergeJournal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.journalPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read merge journal")
	}
	var journal mergeJournal
	if err := json.Unmarshal(data, &journal); err != nil {
		// A corrupt journal cannot be resumed safely; discard it and let the
		// merge restart from the local document.
		_ = os.Remove(s.journalPath())
		return nil, nil
	}
	return &journal, nil
}

func (s *LocalStore) writeJournal(journal mergeJournal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(journal)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode merge journal")
	}
	if err := writeFileAtomic(s.journalPath(), data); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write merge journal")
	}
	return nil
}

// subtractMerged deducts quantities that already landed in another account's
// server cart from the local document, dropping lines that reach zero.
func (s *LocalStore) subtractMerged(lines []Line) error {
	if len(lines) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.load()
	kept := snap.Items[:0]
	for _, line := range snap.Items {
		for _, merged := range lines {
			if merged.ItemID == line.ItemID {
				line.Quantity -= merged.Quantity
				break
			}
		}
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	snap.Items = kept
	return s.save(snap)
}

func (s *LocalStore) clearJournal() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.journalPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove merge journal")
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func validateAdd(itemID uuid.UUID, quantity int) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	return nil
}
