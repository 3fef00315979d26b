package cartclient

import (
	"context"
	"iter"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	pkgerrors "github.com/shoplite/shoplite-backend/pkg/errors"
	"github.com/shoplite/shoplite-backend/pkg/logger"
)

// Identity names a signed-in user and carries their bearer credential.
type Identity struct {
	ID    string
	Token string
}

// IdentityProvider reports the current identity, or nil when browsing as a
// guest.
type IdentityProvider interface {
	Current(ctx context.Context) (*Identity, error)
}

// Service is the single cart surface the UI talks to. It routes every
// operation to the local store (guest) or the server store (signed in), and
// folds the guest cart into the server cart exactly once when an identity
// appears.
type Service struct {
	provider  IdentityProvider
	local     *LocalStore
	server    Store
	projector *Projector
	logg      *logger.Logger

	mu         sync.Mutex
	reconciled map[string]bool
}

// NewService wires the cart façade.
func NewService(provider IdentityProvider, local *LocalStore, server Store, projector *Projector, logg *logger.Logger) (*Service, error) {
	if provider == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "identity provider is required")
	}
	if local == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "local store is required")
	}
	if server == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "server store is required")
	}
	return &Service{
		provider:   provider,
		local:      local,
		server:     server,
		projector:  projector,
		logg:       logg,
		reconciled: map[string]bool{},
	}, nil
}

// Get returns the active cart's snapshot.
func (s *Service) Get(ctx context.Context) (Snapshot, error) {
	store, err := s.activeStore(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return store.Get(ctx)
}

// Add sums quantity into the active cart.
func (s *Service) Add(ctx context.Context, itemID uuid.UUID, quantity int) (Snapshot, error) {
	store, err := s.activeStore(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return store.AddItem(ctx, itemID, quantity)
}

// SetQuantity sets a line's quantity; zero removes it.
func (s *Service) SetQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (Snapshot, error) {
	store, err := s.activeStore(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return store.SetQuantity(ctx, itemID, quantity)
}

// Remove drops a line; absent lines are a no-op.
func (s *Service) Remove(ctx context.Context, itemID uuid.UUID) (Snapshot, error) {
	store, err := s.activeStore(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return store.RemoveItem(ctx, itemID)
}

// Clear empties the active cart.
func (s *Service) Clear(ctx context.Context) (Snapshot, error) {
	store, err := s.activeStore(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return store.Clear(ctx)
}

// ItemCount is the badge number for the active cart.
func (s *Service) ItemCount(ctx context.Context) (int, error) {
	snap, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	return snap.ItemCount(), nil
}

// View resolves the active cart against the catalog and yields display rows.
func (s *Service) View(ctx context.Context) (iter.Seq[DisplayItem], error) {
	if s.projector == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "projector is not configured")
	}
	snap, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.projector.Project(ctx, snap)
}

// activeStore picks local vs server for this call and runs the sign-in merge
// on the guest-to-identity transition.
func (s *Service) activeStore(ctx context.Context) (Store, error) {
	identity, err := s.provider.Current(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "resolve identity")
	}
	if identity == nil {
		return s.local, nil
	}
	if err := s.ensureReconciled(ctx, identity); err != nil {
		return nil, err
	}
	return s.server, nil
}

// ensureReconciled merges the guest cart into the identity's server cart
// exactly once. The merge journal makes the fold idempotent across crashes:
// each line is removed from the journal as it lands, so a resumed merge only
// replays lines the server has not absorbed yet.
func (s *Service) ensureReconciled(ctx context.Context, identity *Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reconciled[identity.ID] {
		return nil
	}

	pending, landed, err := s.pendingLines(ctx, identity)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		if err := s.finishMerge(ctx); err != nil {
			return err
		}
		s.reconciled[identity.ID] = true
		return nil
	}

	var merged int
	var failures error
	remaining := make([]Line, 0, len(pending))
	for i, line := range pending {
		if _, err := s.server.AddItem(ctx, line.ItemID, line.Quantity); err != nil {
			failures = multierr.Append(failures, err)
			remaining = append(remaining, pending[i:]...)
			break
		}
		merged++
		landed = append(landed, line)
		rest := pending[i+1:]
		if err := s.local.writeJournal(mergeJournal{Identity: identity.ID, Pending: rest, Merged: landed}); err != nil {
			return err
		}
	}

	if failures != nil {
		if err := s.local.writeJournal(mergeJournal{Identity: identity.ID, Pending: remaining, Merged: landed}); err != nil {
			return err
		}
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"merged":    merged,
				"remaining": len(remaining),
			})
			s.logg.Warn(logCtx, "cart.reconcile.partial")
		}
		return pkgerrors.Wrap(pkgerrors.CodeReconciliation, failures, "cart merge incomplete").
			WithDetails(map[string]any{"remaining": len(remaining)})
	}

	if err := s.finishMerge(ctx); err != nil {
		return err
	}
	s.reconciled[identity.ID] = true
	if s.logg != nil && merged > 0 {
		logCtx := s.logg.WithField(ctx, "merged", merged)
		s.logg.Info(logCtx, "cart.reconcile.complete")
	}
	return nil
}

// pendingLines decides what still needs to land on the server: a resumable
// journal for this identity wins over the local document. It also returns the
// lines the journal already confirmed as merged.
func (s *Service) pendingLines(ctx context.Context, identity *Identity) ([]Line, []Line, error) {
	journal, err := s.local.readJournal()
	if err != nil {
		return nil, nil, err
	}
	if journal != nil {
		if journal.Identity == identity.ID {
			return journal.Pending, journal.Merged, nil
		}
		// Journal from another identity's interrupted merge. Lines it already
		// landed live in that account's cart now; deduct them from the local
		// document so they are not merged a second time here.
		if s.logg != nil {
			s.logg.Warn(ctx, "cart.reconcile.stale_journal_discarded")
		}
		if err := s.local.subtractMerged(journal.Merged); err != nil {
			return nil, nil, err
		}
		if err := s.local.clearJournal(); err != nil {
			return nil, nil, err
		}
	}

	snap, err := s.local.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(snap.Items) == 0 {
		return nil, nil, nil
	}
	if err := s.local.writeJournal(mergeJournal{Identity: identity.ID, Pending: snap.Items}); err != nil {
		return nil, nil, err
	}
	return snap.Items, nil, nil
}

// finishMerge clears the guest cart and journal after every line landed.
func (s *Service) finishMerge(ctx context.Context) error {
	if _, err := s.local.Clear(ctx); err != nil {
		return err
	}
	return s.local.clearJournal()
}
