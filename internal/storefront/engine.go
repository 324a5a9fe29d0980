package storefront

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mserebryaakov/boodai-storefront-service/internal/backend"
	"github.com/mserebryaakov/boodai-storefront-service/internal/branch"
	"github.com/mserebryaakov/boodai-storefront-service/internal/cart"
	"github.com/mserebryaakov/boodai-storefront-service/internal/catalog"
	"github.com/mserebryaakov/boodai-storefront-service/internal/checkout"
	"github.com/mserebryaakov/boodai-storefront-service/internal/kv"
	"github.com/sirupsen/logrus"
)

// Backend is everything the engine needs from the REST backend.
type Backend interface {
	branch.Fetcher
	checkout.OrderSender
	GetBranches(ctx context.Context) ([]catalog.Branch, error)
	ValidatePromo(ctx context.Context, code string) (int, error)
}

type Deps struct {
	Backend  Backend
	Wallet   checkout.Wallet
	CacheTTL time.Duration
	Log      *logrus.Entry

	// CartLog and BranchLog default to Log.
	CartLog   *logrus.Entry
	BranchLog *logrus.Entry
}

func (d Deps) logger(l *logrus.Entry) *logrus.Entry {
	if l != nil {
		return l
	}
	return d.Log
}

// Engine is the cart and pricing state of one storefront session. The
// ledger and the branch selection change only through its methods. A branch
// switch holds switching exclusively, so a line priced from one catalog never
// lands in another branch's cart.
type Engine struct {
	mu           sync.Mutex
	switching    sync.RWMutex
	backend      Backend
	ledger       *cart.Ledger
	loader       *branch.Loader
	submitter    *checkout.Submitter
	log          *logrus.Entry
	promoCode    string
	promoPercent int
}

func NewEngine(store kv.Store, deps Deps) *Engine {
	return &Engine{
		backend:   deps.Backend,
		ledger:    cart.NewLedger(store, deps.logger(deps.CartLog)),
		loader:    branch.NewLoader(deps.Backend, store, deps.CacheTTL, deps.logger(deps.BranchLog)),
		submitter: checkout.NewSubmitter(deps.Backend, deps.Wallet, deps.Log),
		log:       deps.Log,
	}
}

// Open restores the persisted cart and branch. A failing branch load is
// kept in the branch state rather than returned.
func (e *Engine) Open(ctx context.Context) {
	e.ledger.Load(ctx)

	if err := e.loader.Restore(ctx); err != nil {
		e.log.Warnf("open: restoring branch failed - %v", err)
	}
}

func (e *Engine) Branches(ctx context.Context) ([]catalog.Branch, error) {
	return e.backend.GetBranches(ctx)
}

// SelectBranch switches the session to id. Leaving another branch empties
// the cart and drops the applied promo code.
func (e *Engine) SelectBranch(ctx context.Context, id catalog.ID) error {
	if id == "" {
		return branch.ErrNoBranch
	}

	e.switching.Lock()
	defer e.switching.Unlock()

	prev := e.loader.BranchID()
	if prev != "" && prev != id {
		e.ledger.Clear(ctx)
		e.resetPromo()
	}

	return e.loader.Select(ctx, id)
}

func (e *Engine) RetryBranch(ctx context.Context) error {
	return e.loader.Retry(ctx)
}

func (e *Engine) Branch() branch.Snapshot {
	return e.loader.Snapshot()
}

func (e *Engine) AddToCart(ctx context.Context, productID catalog.ID, variantKey, taste, lang string) (cart.LineItem, error) {
	e.switching.RLock()
	defer e.switching.RUnlock()

	snap := e.loader.Snapshot()
	if snap.Status != branch.StatusReady && len(snap.Products) == 0 {
		return cart.LineItem{}, errCatalogNotReady
	}

	p, ok := snap.Product(productID)
	if !ok {
		return cart.LineItem{}, errProductNotFound
	}

	return e.ledger.Add(ctx, p, variantKey, taste, lang)
}

func (e *Engine) ChangeQuantity(ctx context.Context, lineID string, delta int) error {
	return e.ledger.ChangeQuantity(ctx, lineID, delta)
}

func (e *Engine) ClearCart(ctx context.Context) {
	e.ledger.Clear(ctx)
}

func (e *Engine) Cart() []cart.LineItem {
	return e.ledger.Items()
}

// ApplyPromo validates code with the backend. An empty code removes the
// current promo. A rejected code leaves the previous one in place.
func (e *Engine) ApplyPromo(ctx context.Context, code string) (int, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		e.resetPromo()
		return 0, nil
	}

	percent, err := e.backend.ValidatePromo(ctx, code)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	e.promoCode = code
	e.promoPercent = percent
	e.mu.Unlock()

	e.log.Debugf("promo %s applied: %d%%", code, percent)
	return percent, nil
}

func (e *Engine) Promo() (string, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.promoCode, e.promoPercent
}

func (e *Engine) Quote(ctx context.Context, userID string, useCoins bool) (checkout.Totals, error) {
	return e.submitter.Quote(ctx, e.ledger.Items(), e.order(userID, useCoins))
}

// Checkout submits the cart. The promo code is used up by a successful order.
func (e *Engine) Checkout(ctx context.Context, userID string, details checkout.OrderDetails, useCoins bool) (*checkout.Receipt, error) {
	e.switching.RLock()
	defer e.switching.RUnlock()

	order := e.order(userID, useCoins)
	order.Details = details

	receipt, err := e.submitter.Submit(ctx, e.ledger, order)
	if err != nil {
		return nil, err
	}

	e.resetPromo()
	return receipt, nil
}

func (e *Engine) order(userID string, useCoins bool) checkout.Order {
	code, percent := e.Promo()
	return checkout.Order{
		BranchID:     e.loader.BranchID(),
		PromoCode:    code,
		PromoPercent: percent,
		UserID:       userID,
		UseCoins:     useCoins,
	}
}

func (e *Engine) resetPromo() {
	e.mu.Lock()
	e.promoCode = ""
	e.promoPercent = 0
	e.mu.Unlock()
}

var _ Backend = (*backend.Client)(nil)
