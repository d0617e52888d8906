package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"checkout-service/internal/models"
	"checkout-service/internal/service"
	"checkout-service/internal/shipping"
	"checkout-service/internal/tax"
	"checkout-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CatalogReader serves the read-only product routes.
type CatalogReader interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// Handler contains HTTP handlers
type Handler struct {
	checkout *service.CheckoutService
	shipping *shipping.Engine
	tax      *tax.Engine
	catalog  CatalogReader
}

// NewHandler creates a new HTTP handler
func NewHandler(checkout *service.CheckoutService, shippingEngine *shipping.Engine, taxEngine *tax.Engine, catalog CatalogReader) *Handler {
	return &Handler{
		checkout: checkout,
		shipping: shippingEngine,
		tax:      taxEngine,
		catalog:  catalog,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/shipping/rates", h.shippingRates)
		v1.POST("/shipping/validate-address", h.validateAddress)
		v1.POST("/tax/calculate", h.calculateTax)
		v1.POST("/checkout/calculate", h.calculateOrder)
		v1.POST("/checkout/session", h.createSession)
		v1.POST("/checkout/complete", h.completeOrder)
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/orders/:orderNumber", h.getOrder)
		v1.PATCH("/orders/:orderNumber/status", h.updateOrderStatus)
	}
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

type shippingRatesRequest struct {
	Country    string   `json:"country" binding:"required"`
	State      string   `json:"state"`
	PostalCode string   `json:"postalCode"`
	Subtotal   *float64 `json:"subtotal" binding:"required"`
	Weight     float64  `json:"weight"`
}

// shippingRates returns every available method for the destination plus the
// free-shipping status.
func (h *Handler) shippingRates(c *gin.Context) {
	var req shippingRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	util.ShippingRateRequestsTotal.Inc()

	rates, err := h.shipping.AllRates(shipping.QuoteParams{
		Country:  req.Country,
		State:    req.State,
		Weight:   req.Weight,
		Subtotal: *req.Subtotal,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rates":        rates,
		"freeShipping": h.shipping.CheckFreeShipping(req.Country, *req.Subtotal),
		"currency":     "USD",
	})
}

func (h *Handler) validateAddress(c *gin.Context) {
	var addr models.Address
	if err := c.ShouldBindJSON(&addr); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.shipping.ValidateAddress(addr))
}

type taxCalculateRequest struct {
	Subtotal   *float64 `json:"subtotal" binding:"required"`
	Country    string   `json:"country" binding:"required"`
	State      string   `json:"state"`
	PostalCode string   `json:"postalCode"`
	Shipping   float64  `json:"shipping"`
	Category   string   `json:"category"`
}

func (h *Handler) calculateTax(c *gin.Context) {
	var req taxCalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	util.TaxCalculationsTotal.WithLabelValues(req.Country).Inc()

	result := h.tax.Calculate(tax.Params{
		Subtotal:   *req.Subtotal,
		Country:    req.Country,
		State:      req.State,
		PostalCode: req.PostalCode,
		Category:   req.Category,
		Shipping:   req.Shipping,
	})
	c.JSON(http.StatusOK, result)
}

type calculateOrderRequest struct {
	Items          []models.CartLine `json:"items" binding:"required,min=1,dive"`
	Country        string            `json:"country" binding:"required"`
	State          string            `json:"state"`
	PostalCode     string            `json:"postalCode"`
	ShippingMethod string            `json:"shippingMethod"`
}

func (h *Handler) calculateOrder(c *gin.Context) {
	var req calculateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	quote, err := h.checkout.Quote(c.Request.Context(), service.QuoteRequest{
		Items:      req.Items,
		Country:    req.Country,
		State:      req.State,
		PostalCode: req.PostalCode,
		Method:     req.ShippingMethod,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

type createSessionRequest struct {
	Items           []models.CartLine `json:"items" binding:"required,min=1,dive"`
	Email           string            `json:"email" binding:"required,email"`
	ShippingAddress models.Address    `json:"shippingAddress" binding:"required"`
	BillingAddress  *models.Address   `json:"billingAddress"`
	ShippingMethod  string            `json:"shippingMethod"`
}

func (h *Handler) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if v := h.shipping.ValidateAddress(req.ShippingAddress); !v.Valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid shipping address",
			"details": v.Errors,
		})
		return
	}

	session, err := h.checkout.CreateSession(c.Request.Context(), service.CreateSessionRequest{
		Items:           req.Items,
		Email:           req.Email,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Method:          req.ShippingMethod,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

type completeOrderRequest struct {
	SessionID       string `json:"sessionId" binding:"required"`
	PaymentIntentID string `json:"paymentIntentId"`
	CustomerName    string `json:"customerName" binding:"required"`
	Phone           string `json:"phone"`
}

func (h *Handler) completeOrder(c *gin.Context) {
	var req completeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.checkout.Complete(c.Request.Context(), service.CompleteRequest{
		SessionID:       req.SessionID,
		PaymentIntentID: req.PaymentIntentID,
		CustomerName:    req.CustomerName,
		Phone:           req.Phone,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"orderNumber": order.OrderNumber,
		"order":       order,
	})
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.GetProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.catalog.GetProductByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.checkout.GetOrder(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type updateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber"`
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	orderNumber := c.Param("orderNumber")
	if err := h.checkout.UpdateStatus(c.Request.Context(), orderNumber, req.Status, req.TrackingNumber); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orderNumber": orderNumber,
		"status":      req.Status,
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}

// writeError maps the pipeline error taxonomy onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrProductInactive),
		errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrInvalidOrderStatus),
		errors.Is(err, shipping.ErrUnknownMethod),
		errors.Is(err, shipping.ErrMethodUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
