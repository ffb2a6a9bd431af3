package cart

import (
	"context"
	"sync"

	"github.com/Black25dvp/silverlux/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Notices returned by Add.
const (
	NoticeAdded     = "Product added to cart"
	NoticeIncreased = "Quantity updated in cart"
)

// Synchronizer mirrors one user's cart. A Synchronizer with an empty user id
// is anonymous: Add fails with models.ErrNotAuthenticated and the other
// mutations are silent no-ops; neither touches the store.
//
// Mutations on one Synchronizer run one at a time.
type Synchronizer struct {
	store    Store
	userID   string
	log      logrus.FieldLogger
	onChange func(Snapshot)

	op sync.Mutex

	mu     sync.RWMutex
	items  []Line
	loaded bool
}

func New(store Store, userID string, log logrus.FieldLogger) *Synchronizer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Synchronizer{
		store:  store,
		userID: userID,
		log:    log.WithField("user_id", userID),
	}
}

// OnChange registers fn to receive every snapshot installed by a load or a
// teardown. It must be set before the Synchronizer is shared.
func (s *Synchronizer) OnChange(fn func(Snapshot)) { s.onChange = fn }

func (s *Synchronizer) UserID() string { return s.userID }

func (s *Synchronizer) Authenticated() bool { return s.userID != "" }

// Loaded reports whether a load has succeeded since creation, teardown or
// the last Invalidate.
func (s *Synchronizer) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Snapshot returns a copy of the current items.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Line, len(s.items))
	copy(items, s.items)
	return Snapshot{Items: items}
}

// Load replaces the snapshot with the user's current remote rows.
func (s *Synchronizer) Load(ctx context.Context) error {
	s.op.Lock()
	defer s.op.Unlock()
	return s.load(ctx)
}

func (s *Synchronizer) load(ctx context.Context) error {
	if !s.Authenticated() {
		s.install(nil, true)
		return nil
	}
	items, err := s.store.Items(ctx, s.userID)
	if err != nil {
		s.log.WithError(err).Error("❌ failed to load cart")
		return models.Remote("load cart", err)
	}
	s.install(items, true)
	return nil
}

func (s *Synchronizer) install(items []Line, loaded bool) {
	s.mu.Lock()
	s.items = items
	s.loaded = loaded
	s.mu.Unlock()
	if s.onChange != nil {
		s.onChange(s.Snapshot())
	}
}

// Add puts one unit of productID in the cart: the existing row's quantity is
// incremented, or a row with quantity one is inserted. It returns the notice
// to show the user.
func (s *Synchronizer) Add(ctx context.Context, productID string) (string, error) {
	if !s.Authenticated() {
		return "", models.ErrNotAuthenticated
	}
	s.op.Lock()
	defer s.op.Unlock()

	log := s.log.WithField("product_id", productID)
	notice := NoticeIncreased
	itemID, err := s.store.FindByProduct(ctx, s.userID, productID)
	switch {
	case err == nil:
		err = s.store.Increment(ctx, s.userID, itemID, 1)
	case isNotFound(err):
		notice = NoticeAdded
		err = s.store.Insert(ctx, s.userID, productID, 1)
	}
	if isNotFound(err) {
		log.WithError(err).Warn("⚠️ product not found for cart")
		return "", err
	}
	if err != nil {
		log.WithError(err).Error("❌ failed to add product to cart")
		return "", models.Remote("add to cart", err)
	}
	if err := s.load(ctx); err != nil {
		return "", err
	}
	return notice, nil
}

// Remove deletes one item row.
func (s *Synchronizer) Remove(ctx context.Context, itemID string) error {
	if !s.Authenticated() {
		return nil
	}
	s.op.Lock()
	defer s.op.Unlock()
	return s.remove(ctx, itemID)
}

// A row that is already gone counts as removed: the reload brings the
// snapshot back in line with the store.
func (s *Synchronizer) remove(ctx context.Context, itemID string) error {
	err := s.store.Delete(ctx, s.userID, itemID)
	if err != nil && !s.gone(err, itemID) {
		s.log.WithError(err).WithField("item_id", itemID).Error("❌ failed to remove cart item")
		return models.Remote("remove cart item", err)
	}
	return s.load(ctx)
}

// SetQuantity sets an item's quantity. A quantity of zero or less removes it.
func (s *Synchronizer) SetQuantity(ctx context.Context, itemID string, quantity int) error {
	if !s.Authenticated() {
		return nil
	}
	s.op.Lock()
	defer s.op.Unlock()

	if quantity <= 0 {
		return s.remove(ctx, itemID)
	}
	err := s.store.SetQuantity(ctx, s.userID, itemID, quantity)
	if err != nil && !s.gone(err, itemID) {
		s.log.WithError(err).WithField("item_id", itemID).Error("❌ failed to update cart quantity")
		return models.Remote("update cart quantity", err)
	}
	return s.load(ctx)
}

// Clear deletes every row of the user.
func (s *Synchronizer) Clear(ctx context.Context) error {
	if !s.Authenticated() {
		return nil
	}
	s.op.Lock()
	defer s.op.Unlock()

	if err := s.store.DeleteAll(ctx, s.userID); err != nil {
		s.log.WithError(err).Error("❌ failed to clear cart")
		return models.Remote("clear cart", err)
	}
	return s.load(ctx)
}

// Teardown drops the local snapshot. Remote rows are left alone.
func (s *Synchronizer) Teardown() {
	s.install(nil, false)
}

// Invalidate marks the snapshot stale without touching it, so the next
// Registry.Get reloads before serving it.
func (s *Synchronizer) Invalidate() {
	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
}

func (s *Synchronizer) gone(err error, itemID string) bool {
	if !isNotFound(err) {
		return false
	}
	s.log.WithField("item_id", itemID).Debug("cart item already gone, reloading")
	return true
}

func isNotFound(err error) bool { return errors.Is(err, models.ErrNotFound) }
