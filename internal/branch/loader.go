package branch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mserebryaakov/boodai-storefront-service/internal/catalog"
	"github.com/mserebryaakov/boodai-storefront-service/internal/kv"
	"github.com/sirupsen/logrus"
)

type BranchLogHook struct{}

func (h *BranchLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "Branch: " + entry.Message
	return nil
}

func (h *BranchLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

type Fetcher interface {
	GetProducts(ctx context.Context, branchID catalog.ID) ([]catalog.Product, error)
	GetOrders(ctx context.Context, branchID catalog.ID) ([]catalog.HistoricalOrder, error)
}

// Loader owns the selected branch and its catalog and order history.
// Every selection or retry bumps a generation; results of an older
// generation are dropped when they arrive.
type Loader struct {
	mu         sync.Mutex
	fetcher    Fetcher
	store      kv.Store
	ttl        time.Duration
	now        func() time.Time
	log        *logrus.Entry
	branchID   catalog.ID
	status     Status
	generation uint64
	products   []catalog.Product
	orders     []catalog.HistoricalOrder
	err        error
}

func NewLoader(fetcher Fetcher, store kv.Store, ttl time.Duration, log *logrus.Entry) *Loader {
	return &Loader{
		fetcher: fetcher,
		store:   store,
		ttl:     ttl,
		now:     time.Now,
		log:     log,
		status:  StatusUnselected,
	}
}

// Restore reloads the persisted branch selection, if any.
func (l *Loader) Restore(ctx context.Context) error {
	raw, err := l.store.Get(ctx, selectedKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			l.log.Warnf("restore: failed to read selected branch - %v", err)
		}
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	return l.Select(ctx, catalog.ID(raw))
}

// Select switches to id and loads it. Switching away from another branch
// evicts that branch's cached data first. Selecting the branch that is
// already loaded is a no-op.
func (l *Loader) Select(ctx context.Context, id catalog.ID) error {
	if id == "" {
		return ErrNoBranch
	}

	l.mu.Lock()
	if l.branchID == id && l.status == StatusReady && l.err == nil {
		l.mu.Unlock()
		return nil
	}

	prev := l.branchID
	if prev != "" && prev != id {
		if err := l.store.Delete(ctx, productsKey(prev), ordersKey(prev)); err != nil {
			l.log.Warnf("select: failed to evict branch %s - %v", prev, err)
		}
		l.log.Infof("switching branch %s -> %s", prev, id)
	}

	l.branchID = id
	if err := l.store.Set(ctx, selectedKey, []byte(id)); err != nil {
		l.log.Warnf("select: failed to persist branch %s - %v", id, err)
	}
	gen := l.begin()
	l.mu.Unlock()

	return l.load(ctx, id, gen)
}

// Retry reloads the current branch, typically after an error.
func (l *Loader) Retry(ctx context.Context) error {
	l.mu.Lock()
	id := l.branchID
	if id == "" {
		l.mu.Unlock()
		return ErrNoBranch
	}
	gen := l.begin()
	l.mu.Unlock()

	return l.load(ctx, id, gen)
}

func (l *Loader) BranchID() catalog.ID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.branchID
}

func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Snapshot{
		BranchID: l.branchID,
		Status:   l.status,
		Err:      l.err,
	}
	s.Products = append(s.Products, l.products...)
	s.Orders = append(s.Orders, l.orders...)
	return s
}

// begin must be called with mu held.
func (l *Loader) begin() uint64 {
	l.generation++
	l.status = StatusLoading
	l.products = nil
	l.orders = nil
	l.err = nil
	return l.generation
}

type fetchResult[T any] struct {
	value   T
	err     error
	network bool
}

func (l *Loader) load(ctx context.Context, id catalog.ID, gen uint64) error {
	now := l.now()

	var (
		wg       sync.WaitGroup
		products fetchResult[[]catalog.Product]
		orders   fetchResult[[]catalog.HistoricalOrder]
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		products = fetch(ctx, l, productsKey(id), now, func(ctx context.Context) ([]catalog.Product, error) {
			return l.fetcher.GetProducts(ctx, id)
		})
	}()
	go func() {
		defer wg.Done()
		orders = fetch(ctx, l, ordersKey(id), now, func(ctx context.Context) ([]catalog.HistoricalOrder, error) {
			return l.fetcher.GetOrders(ctx, id)
		})
	}()
	wg.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.generation != gen || l.branchID != id {
		l.log.Debugf("load: discarding stale response for branch %s", id)
		return ErrSuperseded
	}

	if products.network && products.err == nil {
		writeCache(ctx, l.store, productsKey(id), products.value, now, l.log)
	}
	if orders.network && orders.err == nil {
		writeCache(ctx, l.store, ordersKey(id), orders.value, now, l.log)
	}

	l.products = products.value
	l.orders = orders.value

	if products.err == nil && orders.err == nil {
		l.status = StatusReady
		l.log.Infof("branch %s ready: %d products, %d orders", id, len(l.products), len(l.orders))
		return nil
	}

	loadErr := &LoadError{BranchID: id, ProductsErr: products.err, OrdersErr: orders.err}
	l.err = loadErr
	if loadErr.Total() {
		l.status = StatusError
		l.log.Errorf("load: %v", loadErr)
	} else {
		l.status = StatusReady
		l.log.Warnf("load: partial - %v", loadErr)
	}
	return loadErr
}

// fetch serves a fresh cache hit without touching the network. When the
// call fails an expired entry is still returned next to the error.
func fetch[T any](ctx context.Context, l *Loader, key string, now time.Time, call func(ctx context.Context) (T, error)) fetchResult[T] {
	c := readCache[T](ctx, l.store, key, l.ttl, now, l.log)
	if c.fresh {
		return fetchResult[T]{value: c.value}
	}

	v, err := call(ctx)
	if err != nil {
		if c.found {
			return fetchResult[T]{value: c.value, err: err}
		}
		return fetchResult[T]{err: err}
	}

	return fetchResult[T]{value: v, network: true}
}
