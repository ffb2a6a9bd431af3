package cart

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Black25dvp/silverlux/models"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type fakeProduct struct {
	name  string
	price decimal.Decimal
}

type fakeRow struct {
	id, userID, productID string
	quantity              int
	seq                   int
}

// fakeStore is an in-memory cart table that counts calls and can be told to
// fail the next call of a given operation.
type fakeStore struct {
	mu       sync.Mutex
	products map[string]fakeProduct
	rows     map[string]*fakeRow
	seq      int
	calls    map[string]int
	failNext map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[string]fakeProduct{},
		rows:     map[string]*fakeRow{},
		calls:    map[string]int{},
		failNext: map[string]error{},
	}
}

func (f *fakeStore) addProduct(id, name string, price int64) {
	f.products[id] = fakeProduct{name: name, price: decimal.NewFromInt(price)}
}

// dropProduct deletes a product and every cart row that references it,
// the way an admin delete does behind the Synchronizer's back.
func (f *fakeStore) dropProduct(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	for rowID, r := range f.rows {
		if r.productID == id {
			delete(f.rows, rowID)
		}
	}
}

func (f *fakeStore) setPrice(id string, price int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.products[id]
	p.price = decimal.NewFromInt(price)
	f.products[id] = p
}

func (f *fakeStore) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeStore) enter(op string) error {
	f.calls[op]++
	if err, ok := f.failNext[op]; ok {
		delete(f.failNext, op)
		return err
	}
	return nil
}

func (f *fakeStore) Items(ctx context.Context, userID string) ([]Line, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("items"); err != nil {
		return nil, err
	}
	var rows []*fakeRow
	for _, r := range f.rows {
		if r.userID == userID {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	lines := make([]Line, 0, len(rows))
	for _, r := range rows {
		p := f.products[r.productID]
		lines = append(lines, Line{ID: r.id, ProductID: r.productID, Name: p.name, Price: p.price, Quantity: r.quantity})
	}
	return lines, nil
}

func (f *fakeStore) FindByProduct(ctx context.Context, userID, productID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("find"); err != nil {
		return "", err
	}
	for _, r := range f.rows {
		if r.userID == userID && r.productID == productID {
			return r.id, nil
		}
	}
	return "", errors.Wrap(models.ErrNotFound, "cart item")
}

func (f *fakeStore) Insert(ctx context.Context, userID, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("insert"); err != nil {
		return err
	}
	if _, ok := f.products[productID]; !ok {
		return errors.Wrap(models.ErrNotFound, "product")
	}
	f.seq++
	id := fmt.Sprintf("item-%d", f.seq)
	f.rows[id] = &fakeRow{id: id, userID: userID, productID: productID, quantity: quantity, seq: f.seq}
	return nil
}

func (f *fakeStore) row(userID, itemID string) (*fakeRow, error) {
	r, ok := f.rows[itemID]
	if !ok || r.userID != userID {
		return nil, errors.Wrap(models.ErrNotFound, "cart item")
	}
	return r, nil
}

func (f *fakeStore) Increment(ctx context.Context, userID, itemID string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("increment"); err != nil {
		return err
	}
	r, err := f.row(userID, itemID)
	if err != nil {
		return err
	}
	r.quantity += delta
	return nil
}

func (f *fakeStore) SetQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("set"); err != nil {
		return err
	}
	r, err := f.row(userID, itemID)
	if err != nil {
		return err
	}
	r.quantity = quantity
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, userID, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("delete"); err != nil {
		return err
	}
	if _, err := f.row(userID, itemID); err != nil {
		return err
	}
	delete(f.rows, itemID)
	return nil
}

func (f *fakeStore) DeleteAll(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("delete_all"); err != nil {
		return err
	}
	for id, r := range f.rows {
		if r.userID == userID {
			delete(f.rows, id)
		}
	}
	return nil
}
