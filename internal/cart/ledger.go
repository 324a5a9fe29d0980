package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/mserebryaakov/boodai-storefront-service/internal/catalog"
	"github.com/mserebryaakov/boodai-storefront-service/internal/kv"
	"github.com/sirupsen/logrus"
)

const StorageKey = "cart"

// MaxQuantity caps a single line.
const MaxQuantity = 999

type CartLogHook struct{}

func (h *CartLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "Cart: " + entry.Message
	return nil
}

func (h *CartLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Ledger holds cart lines in insertion order and writes the whole list to
// the store after every mutation.
type Ledger struct {
	mu    sync.Mutex
	items []LineItem
	store kv.Store
	log   *logrus.Entry
}

func NewLedger(store kv.Store, log *logrus.Entry) *Ledger {
	return &Ledger{
		store: store,
		log:   log,
	}
}

// Load replaces the in-memory lines with the persisted ones. Missing or
// unreadable data yields an empty cart.
func (l *Ledger) Load(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil

	raw, err := l.store.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			l.log.Warnf("load: failed to read stored cart, starting empty - %v", err)
		}
		return
	}

	var stored []LineItem
	if err := json.Unmarshal(raw, &stored); err != nil {
		l.log.Warnf("load: stored cart is corrupt, starting empty - %v", err)
		return
	}

	for _, item := range stored {
		if !item.valid() {
			l.log.Warnf("load: dropping invalid stored line %q", item.ID)
			continue
		}
		l.items = append(l.items, item)
	}
}

// Add puts one unit of the selected configuration into the cart. An existing
// line only gets its quantity bumped, its prices stay as first captured.
func (l *Ledger) Add(ctx context.Context, p *catalog.Product, variantKey, taste, lang string) (LineItem, error) {
	line, err := NewLine(p, variantKey, taste, lang)
	if err != nil {
		return LineItem{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.indexOf(line.ID); i >= 0 {
		if l.items[i].Quantity < MaxQuantity {
			l.items[i].Quantity++
		}
		line = l.items[i]
	} else {
		l.items = append(l.items, line)
	}

	l.persist(ctx)
	return line, nil
}

// ChangeQuantity adds delta to a line, flooring at zero and capping at
// MaxQuantity. A line that reaches zero is removed.
func (l *Ledger) ChangeQuantity(ctx context.Context, lineID string, delta int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(lineID)
	if i < 0 {
		return errLineNotFound
	}

	q := l.items[i].Quantity
	switch {
	case delta <= -q:
		l.items = append(l.items[:i], l.items[i+1:]...)
	case delta > MaxQuantity-q:
		l.items[i].Quantity = MaxQuantity
	default:
		l.items[i].Quantity = q + delta
	}

	l.persist(ctx)
	return nil
}

func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	if err := l.store.Delete(ctx, StorageKey); err != nil {
		l.log.Warnf("clear: failed to remove stored cart - %v", err)
	}
}

func (l *Ledger) Items() []LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.items)
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

// persist keeps the in-memory cart authoritative when the store fails.
func (l *Ledger) persist(ctx context.Context) {
	items := l.items
	if items == nil {
		items = []LineItem{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		l.log.Errorf("persist: failed to marshal cart - %v", err)
		return
	}

	if err := l.store.Set(ctx, StorageKey, raw); err != nil {
		l.log.Warnf("persist: failed to save cart - %v", err)
	}
}
