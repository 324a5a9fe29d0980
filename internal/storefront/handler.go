package storefront

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mserebryaakov/boodai-storefront-service/internal/backend"
	"github.com/mserebryaakov/boodai-storefront-service/internal/branch"
	"github.com/mserebryaakov/boodai-storefront-service/internal/cart"
	"github.com/mserebryaakov/boodai-storefront-service/internal/catalog"
	"github.com/mserebryaakov/boodai-storefront-service/internal/checkout"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "session_id"

	sessionAge = 30 * 24 * 60 * 60

	ctxEngine = "engine"
	ctxUserID = "userId"
)

var clientRole = []string{"client"}

type storefrontHandler struct {
	log      *logrus.Entry
	registry *Registry
	auth     UserResolver
}

// NewHandler builds the HTTP surface. auth may be nil, then every request is
// served as a guest.
func NewHandler(registry *Registry, log *logrus.Entry, auth UserResolver) *storefrontHandler {
	return &storefrontHandler{
		log:      log,
		registry: registry,
		auth:     auth,
	}
}

func (h *storefrontHandler) Register(router *gin.Engine) {
	api := router.Group("/api", h.sessionRequired, h.authOptional)
	{
		api.GET("/branches", h.getBranches)
		api.GET("/branch", h.getBranch)
		api.POST("/branch", h.selectBranch)
		api.POST("/branch/retry", h.retryBranch)

		api.GET("/catalog", h.getCatalog)

		api.GET("/cart", h.getCart)
		api.POST("/cart/items", h.addItem)
		api.PATCH("/cart/items/:id", h.changeQuantity)
		api.DELETE("/cart", h.clearCart)
		api.GET("/cart/total", h.getTotal)

		api.POST("/promo", h.applyPromo)
		api.POST("/checkout", h.checkout)
	}
}

func (h *storefrontHandler) sessionRequired(c *gin.Context) {
	id := c.GetHeader(SessionHeader)
	if id == "" {
		id, _ = c.Cookie(SessionCookie)
	}
	if id == "" {
		id = uuid.NewString()
		c.SetCookie(SessionCookie, id, sessionAge, "/", "", false, true)
	}
	c.Header(SessionHeader, id)

	engine, err := h.registry.Get(c.Request.Context(), id)
	if err != nil {
		h.log.Errorf("session %s: %v", id, err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	c.Set(ctxEngine, engine)
	c.Next()
}

// authOptional resolves the user when a token is present. A rejected token
// is answered with the auth service status.
func (h *storefrontHandler) authOptional(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if h.auth == nil || token == "" {
		c.Next()
		return
	}

	status, userID, err := h.auth.Auth(c.Request.Context(), clientRole, token)
	if err != nil {
		h.log.Errorf("auth: failed to validate token - %v", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "authorization is unavailable"})
		return
	}
	if status != http.StatusOK {
		c.AbortWithStatusJSON(status, gin.H{"message": errUnauthorized.Error()})
		return
	}

	c.Set(ctxUserID, userID)
	c.Next()
}

func engineFrom(c *gin.Context) *Engine {
	return c.MustGet(ctxEngine).(*Engine)
}

func (h *storefrontHandler) getBranches(c *gin.Context) {
	branches, err := engineFrom(c).Branches(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if branches == nil {
		branches = []catalog.Branch{}
	}
	c.JSON(http.StatusOK, branches)
}

func (h *storefrontHandler) getBranch(c *gin.Context) {
	c.JSON(http.StatusOK, newBranchView(engineFrom(c).Branch()))
}

type selectBranchRequest struct {
	BranchID catalog.ID `json:"branchId" binding:"required"`
}

func (h *storefrontHandler) selectBranch(c *gin.Context) {
	var req selectBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	e := engineFrom(c)
	h.branchResult(c, e, e.SelectBranch(c.Request.Context(), req.BranchID))
}

func (h *storefrontHandler) retryBranch(c *gin.Context) {
	e := engineFrom(c)
	h.branchResult(c, e, e.RetryBranch(c.Request.Context()))
}

// branchResult answers a load. A partial load still yields the catalog.
func (h *storefrontHandler) branchResult(c *gin.Context, e *Engine, err error) {
	var le *branch.LoadError
	if err != nil && !(errors.As(err, &le) && !le.Total()) {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBranchView(e.Branch()))
}

func (h *storefrontHandler) getCatalog(c *gin.Context) {
	snap := engineFrom(c).Branch()
	switch {
	case snap.BranchID == "":
		h.writeError(c, branch.ErrNoBranch)
		return
	case snap.Status == branch.StatusLoading:
		h.writeError(c, errCatalogNotReady)
		return
	case snap.Status == branch.StatusError:
		h.writeError(c, snap.Err)
		return
	}

	c.JSON(http.StatusOK, newCatalogView(snap, c.Query("lang")))
}

func (h *storefrontHandler) cartView(c *gin.Context, e *Engine) {
	code, percent := e.Promo()
	items := e.Cart()
	c.JSON(http.StatusOK, newCartView(items, code, percent, checkout.ComputeTotal(items, percent, decimal.Zero, false)))
}

func (h *storefrontHandler) getCart(c *gin.Context) {
	h.cartView(c, engineFrom(c))
}

type addItemRequest struct {
	ProductID  catalog.ID `json:"productId" binding:"required"`
	VariantKey string     `json:"variantKey"`
	Taste      string     `json:"taste"`
	Lang       string     `json:"lang"`
}

func (h *storefrontHandler) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	line, err := engineFrom(c).AddToCart(c.Request.Context(), req.ProductID, req.VariantKey, req.Taste, req.Lang)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newLineView(line))
}

type changeQuantityRequest struct {
	Delta int `json:"delta" binding:"required,min=-1000,max=1000"`
}

func (h *storefrontHandler) changeQuantity(c *gin.Context) {
	var req changeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	e := engineFrom(c)
	if err := e.ChangeQuantity(c.Request.Context(), c.Param("id"), req.Delta); err != nil {
		h.writeError(c, err)
		return
	}
	h.cartView(c, e)
}

func (h *storefrontHandler) clearCart(c *gin.Context) {
	e := engineFrom(c)
	e.ClearCart(c.Request.Context())
	h.cartView(c, e)
}

func (h *storefrontHandler) getTotal(c *gin.Context) {
	useCoins := c.Query("useCoins") == "true"

	totals, err := engineFrom(c).Quote(c.Request.Context(), c.GetString(ctxUserID), useCoins)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals.Format())
}

type promoRequest struct {
	PromoCode string `json:"promoCode"`
}

func (h *storefrontHandler) applyPromo(c *gin.Context) {
	var req promoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	percent, err := engineFrom(c).ApplyPromo(c.Request.Context(), req.PromoCode)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promoCode": strings.TrimSpace(req.PromoCode), "discount": percent})
}

type checkoutRequest struct {
	Details  checkout.OrderDetails `json:"details"`
	UseCoins bool                  `json:"useCoins"`
}

type receiptView struct {
	OrderID      catalog.ID          `json:"orderId"`
	Message      string              `json:"message,omitempty"`
	Totals       checkout.TotalsView `json:"totals"`
	Balance      string              `json:"balance,omitempty"`
	LoyaltyError string              `json:"loyaltyError,omitempty"`
}

func (h *storefrontHandler) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	receipt, err := engineFrom(c).Checkout(c.Request.Context(), c.GetString(ctxUserID), req.Details, req.UseCoins)
	if err != nil {
		h.writeError(c, err)
		return
	}

	view := receiptView{
		OrderID:      receipt.Confirmation.OrderID,
		Message:      receipt.Confirmation.Message,
		Totals:       receipt.Totals.Format(),
		LoyaltyError: receipt.LoyaltyError,
	}
	if receipt.Balance != nil {
		view.Balance = receipt.Balance.StringFixed(2)
	}
	c.JSON(http.StatusOK, view)
}

func (h *storefrontHandler) writeError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		h.log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	} else {
		h.log.Debugf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, body)
}

func errorResponse(err error) (int, gin.H) {
	var (
		cartErr     *cart.ValidationError
		checkoutErr *checkout.ValidationError
		loadErr     *branch.LoadError
		appErr      *backend.AppError
	)

	switch {
	case errors.As(err, &cartErr):
		return http.StatusBadRequest, gin.H{"message": cartErr.Message, "field": cartErr.Field}
	case errors.As(err, &checkoutErr):
		return http.StatusUnprocessableEntity, gin.H{"message": checkoutErr.Message, "fields": checkoutErr.Fields}
	case errors.As(err, &loadErr):
		return http.StatusServiceUnavailable, gin.H{"message": loadErr.Error()}
	case errors.As(err, &appErr):
		return backendStatus(appErr), gin.H{"message": appErr.Message, "kind": appErr.Kind}
	case errors.Is(err, branch.ErrNoBranch), errors.Is(err, checkout.ErrBranchNotChosen),
		errors.Is(err, branch.ErrSuperseded), errors.Is(err, errCatalogNotReady):
		return http.StatusConflict, gin.H{"message": err.Error()}
	case errors.Is(err, errProductNotFound), cart.IsLineNotFound(err):
		return http.StatusNotFound, gin.H{"message": err.Error()}
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest, gin.H{"message": err.Error()}
	case errors.Is(err, checkout.ErrLoyaltyUnavailable):
		return http.StatusServiceUnavailable, gin.H{"message": err.Error()}
	default:
		return http.StatusInternalServerError, gin.H{"message": "internal error"}
	}
}

// backendStatus keeps client faults reported by the backend and turns the
// rest into gateway errors.
func backendStatus(e *backend.AppError) int {
	switch e.Kind {
	case backend.ServerRejection:
		if e.Status >= 400 && e.Status < 500 {
			return e.Status
		}
		return http.StatusBadGateway
	case backend.NetworkError, backend.TimeoutError, backend.ServerError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
