package api

import (
	"net/http"
	"strconv"
	"time"

	"marketplace-service/internal/errs"
	"marketplace-service/internal/service"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog       *service.CatalogService
	ledger        *service.LedgerService
	payments      *service.PaymentService
	fulfillment   *service.FulfillmentService
	reputation    *service.ReputationService
	notifications *service.NotificationService
	community     *service.CommunityService
	users         *service.UserService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	ledger *service.LedgerService,
	payments *service.PaymentService,
	fulfillment *service.FulfillmentService,
	reputation *service.ReputationService,
	notifications *service.NotificationService,
	community *service.CommunityService,
	users *service.UserService,
) *Handler {
	return &Handler{
		catalog:       catalog,
		ledger:        ledger,
		payments:      payments,
		fulfillment:   fulfillment,
		reputation:    reputation,
		notifications: notifications,
		community:     community,
		users:         users,
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
		v1.POST("/listings", h.createListing)
		v1.GET("/listings", h.listListings)
		v1.GET("/listings/:id", h.getListing)
		v1.PUT("/listings/:id", h.updateListing)
		v1.PUT("/listings/:id/status", h.closeListing)
		v1.DELETE("/listings/:id", h.deleteListing)

		v1.POST("/bids", h.placeBid)
		v1.GET("/bids", h.listBids)
		v1.GET("/bids/:id", h.getBid)
		v1.GET("/listings/:id/bids", h.listBidsForListing)
		v1.DELETE("/bids/:id", h.deleteBid)

		v1.POST("/transactions", h.createTransaction)
		v1.GET("/transactions", h.listTransactions)
		v1.GET("/transactions/:id", h.getTransaction)
		v1.GET("/users/:id/transactions", h.listTransactionsForUser)
		v1.PUT("/transactions/:id", h.updateTransactionStatus)
		v1.DELETE("/transactions/:id", h.deleteTransaction)

		v1.POST("/payments", h.createPayment)
		v1.GET("/payments", h.listPayments)
		v1.GET("/transactions/:id/payment", h.getPaymentForTransaction)
		v1.PUT("/payments/:id", h.updatePaymentStatus)
		v1.DELETE("/payments/:id", h.deletePayment)

		v1.POST("/shipping", h.createShipment)
		v1.GET("/listings/:id/shipping", h.getShipmentForListing)
		v1.PUT("/shipping/:id", h.updateShipmentTracking)
		v1.DELETE("/shipping/:id", h.deleteShipment)

		h.setupReputationRoutes(v1)
		h.setupNotificationRoutes(v1)
		h.setupCommunityRoutes(v1)
		h.setupUserRoutes(v1)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// parseID reads a path parameter as an int64 id
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// writeError maps typed failures to status codes. Unexpected failures get
// a generic message so storage details never leak to clients.
func writeError(c *gin.Context, err error) {
	switch errs.KindOf(err) {
	case errs.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errs.KindInvalidArgument, errs.KindInvalidReference:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errs.KindConflict, errs.KindInvalidState:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		util.GetLogger().Error("Unexpected failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}

func deleted(c *gin.Context, id int64, what string) {
	c.JSON(http.StatusOK, gin.H{"message": what + " deleted", "id": id})
}

// createListing handles listing creation
func (h *Handler) createListing(c *gin.Context) {
	var req service.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	listing, err := h.catalog.CreateListing(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

func (h *Handler) listListings(c *gin.Context) {
	listings, err := h.catalog.ListListings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

func (h *Handler) getListing(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	listing, err := h.catalog.GetListing(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

type updateListingRequest struct {
	CategoryID  *int64   `json:"category_id"`
	Title       *string  `json:"title"`
	ImageURL    *string  `json:"image_url"`
	Price       *float64 `json:"price"`
	Region      *string  `json:"region"`
	Description *string  `json:"description"`
}

// updateListing applies a partial patch; omitted fields keep their value
func (h *Handler) updateListing(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	listing, err := h.catalog.UpdateListing(c.Request.Context(), id, &store.ListingPatch{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		Region:      req.Region,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

type closeListingRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) closeListing(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req closeListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	listing, err := h.catalog.CloseListing(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *Handler) deleteListing(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteListing(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	deleted(c, id, "Listing")
}

func (h *Handler) placeBid(c *gin.Context) {
	var req service.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	bid, err := h.catalog.PlaceBid(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bid)
}

func (h *Handler) listBids(c *gin.Context) {
	bids, err := h.catalog.ListBids(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bids": bids})
}

func (h *Handler) getBid(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	bid, err := h.catalog.GetBid(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bid)
}

func (h *Handler) listBidsForListing(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	bids, err := h.catalog.ListBidsForListing(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bids": bids})
}

func (h *Handler) deleteBid(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteBid(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	deleted(c, id, "Bid")
}

func (h *Handler) createTransaction(c *gin.Context) {
	var req service.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	txn, err := h.ledger.CreateTransaction(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

func (h *Handler) listTransactions(c *gin.Context) {
	txns, err := h.ledger.ListTransactions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

func (h *Handler) getTransaction(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	txn, err := h.ledger.GetTransaction(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (h *Handler) listTransactionsForUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	txns, err := h.ledger.ListTransactionsForUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateTransactionStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	txn, err := h.ledger.UpdateTransactionStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (h *Handler) deleteTransaction(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.ledger.DeleteTransaction(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	deleted(c, id, "Transaction")
}

func (h *Handler) createPayment(c *gin.Context) {
	var req service.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	payment, err := h.payments.CreatePayment(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *Handler) listPayments(c *gin.Context) {
	payments, err := h.payments.ListPayments(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (h *Handler) getPaymentForTransaction(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	payment, err := h.payments.GetPaymentByTransaction(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *Handler) updatePaymentStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	payment, err := h.payments.UpdatePaymentStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *Handler) deletePayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.payments.DeletePayment(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	deleted(c, id, "Payment")
}

func (h *Handler) createShipment(c *gin.Context) {
	var req service.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	shipment, err := h.fulfillment.CreateShipment(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shipment)
}

func (h *Handler) getShipmentForListing(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	shipment, err := h.fulfillment.GetShipmentForListing(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipment)
}

type updateShipmentRequest struct {
	TrackingNumber *string    `json:"tracking_number"`
	Status         *string    `json:"status"`
	ShippedAt      *time.Time `json:"shipped_at"`
}

func (h *Handler) updateShipmentTracking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	shipment, err := h.fulfillment.UpdateTracking(c.Request.Context(), id, &store.ShipmentPatch{
		TrackingNumber: req.TrackingNumber,
		Status:         req.Status,
		ShippedAt:      req.ShippedAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipment)
}

func (h *Handler) deleteShipment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.fulfillment.DeleteShipment(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	deleted(c, id, "Shipment")
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
