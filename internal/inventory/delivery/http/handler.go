package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
	"github.com/oakbarn/farmstand/internal/inventory/usecase/command"
	"github.com/oakbarn/farmstand/internal/inventory/usecase/query"
	"github.com/oakbarn/farmstand/internal/inventory/validation"
	"github.com/oakbarn/farmstand/pkg/logger"
	"github.com/oakbarn/farmstand/pkg/monitoring"
)

// InventoryHandler handles HTTP requests for the stock ledger
type InventoryHandler struct {
	// Command handlers
	updateStockHandler *command.UpdateStockHandler
	batchHandler       *command.BatchUpdateHandler
	transferHandler    *command.TransferStockHandler
	createHandler      *command.CreateItemHandler
	updateItemHandler  *command.UpdateItemHandler
	deactivateHandler  *command.DeactivateItemHandler
	ackHandler         *command.AcknowledgeAlertHandler

	// Query handlers
	getHandler       *query.GetItemHandler
	listHandler      *query.ListItemsHandler
	alertsHandler    *query.GenerateAlertsHandler
	lowStockHandler  *query.CheckLowStockHandler
	valueHandler     *query.StockValueHandler
	movementsHandler *query.ListMovementsHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	items domain.ItemRepository,
	movements domain.MovementRepository,
	acks domain.AlertAckStore,
	gateway *validation.Gateway,
	monitor monitoring.Monitor,
	notifier domain.WorkflowNotifier,
) *InventoryHandler {
	updateStockHandler := command.NewUpdateStockHandler(items, movements, gateway, monitor, notifier)

	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_service_requests_total",
			Help: "Total number of requests to inventory service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_service_request_duration_seconds",
			Help:    "Duration of inventory service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &InventoryHandler{
		updateStockHandler: updateStockHandler,
		batchHandler:       command.NewBatchUpdateHandler(updateStockHandler, gateway, monitor),
		transferHandler:    command.NewTransferStockHandler(items, movements, gateway, monitor, notifier),
		createHandler:      command.NewCreateItemHandler(items, gateway, monitor),
		updateItemHandler:  command.NewUpdateItemHandler(items, gateway, monitor),
		deactivateHandler:  command.NewDeactivateItemHandler(items, monitor),
		ackHandler:         command.NewAcknowledgeAlertHandler(acks, monitor),
		getHandler:         query.NewGetItemHandler(items),
		listHandler:        query.NewListItemsHandler(items),
		alertsHandler:      query.NewGenerateAlertsHandler(items, acks),
		lowStockHandler:    query.NewCheckLowStockHandler(items),
		valueHandler:       query.NewStockValueHandler(items),
		movementsHandler:   query.NewListMovementsHandler(movements),
		requestCounter:     requestCounter,
		requestLatency:     requestLatency,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateItem handles POST /api/inventory
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID       uint    `json:"product_id"`
		LocationID      uint    `json:"location_id"`
		CurrentStock    int     `json:"current_stock"`
		ReservedStock   int     `json:"reserved_stock"`
		MinimumStock    int     `json:"minimum_stock"`
		MaximumStock    int     `json:"maximum_stock"`
		ReorderPoint    int     `json:"reorder_point"`
		ReorderQuantity int     `json:"reorder_quantity"`
		UnitCost        float64 `json:"unit_cost"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	item, err := h.createHandler.Handle(r.Context(), command.CreateItemCommand{
		ProductID:       req.ProductID,
		LocationID:      req.LocationID,
		CurrentStock:    req.CurrentStock,
		ReservedStock:   req.ReservedStock,
		MinimumStock:    req.MinimumStock,
		MaximumStock:    req.MaximumStock,
		ReorderPoint:    req.ReorderPoint,
		ReorderQuantity: req.ReorderQuantity,
		UnitCost:        req.UnitCost,
	}, actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Inventory item created successfully",
		Data:    item,
	})
}

// GetItem handles GET /api/inventory/{id}
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.getHandler.Handle(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: item})
}

// ListItems handles GET /api/inventory
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	q := query.ListItemsQuery{
		Limit:      limit,
		Offset:     offset,
		ActiveOnly: r.URL.Query().Get("include_inactive") != "true",
	}
	if raw := r.URL.Query().Get("location_id"); raw != "" {
		loc, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid location ID"})
			return
		}
		locationID := uint(loc)
		q.LocationID = &locationID
	}

	items, err := h.listHandler.Handle(r.Context(), q)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list inventory items")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list inventory items"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: items})
}

// UpdateItem handles PATCH /api/inventory/{id}
func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		MinimumStock    *int     `json:"minimum_stock"`
		MaximumStock    *int     `json:"maximum_stock"`
		ReorderPoint    *int     `json:"reorder_point"`
		ReorderQuantity *int     `json:"reorder_quantity"`
		UnitCost        *float64 `json:"unit_cost"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	item, err := h.updateItemHandler.Handle(r.Context(), command.UpdateItemCommand{
		ItemID:          id,
		MinimumStock:    req.MinimumStock,
		MaximumStock:    req.MaximumStock,
		ReorderPoint:    req.ReorderPoint,
		ReorderQuantity: req.ReorderQuantity,
		UnitCost:        req.UnitCost,
	}, actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Inventory item updated", Data: item})
}

// DeactivateItem handles DELETE /api/inventory/{id}
func (h *InventoryHandler) DeactivateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.deactivateHandler.Handle(r.Context(), id, actorFrom(r)); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Inventory item deactivated"})
}

// UpdateStock handles POST /api/inventory/{id}/stock
func (h *InventoryHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Operation string `json:"operation"`
		Quantity  int    `json:"quantity"`
		Reason    string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	item, err := h.updateStockHandler.Handle(r.Context(), command.UpdateStockCommand{
		ItemID:    id,
		Operation: req.Operation,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
	}, actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Stock updated", Data: item})
}

// BatchUpdateStock handles POST /api/inventory/stock/batch
func (h *InventoryHandler) BatchUpdateStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Updates []domain.BatchStockUpdate `json:"updates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	outcome, err := h.batchHandler.Handle(r.Context(), req.Updates, actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: outcome.Success, Data: outcome})
}

// TransferStock handles POST /api/inventory/transfer
func (h *InventoryHandler) TransferStock(w http.ResponseWriter, r *http.Request) {
	var req domain.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	result, err := h.transferHandler.Handle(r.Context(), req, actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Stock transferred", Data: result})
}

// GetAlerts handles GET /api/inventory/alerts
func (h *InventoryHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertsHandler.Handle(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to generate alerts")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to generate alerts"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: alerts})
}

// AcknowledgeAlert handles POST /api/inventory/alerts/{id}/ack
func (h *InventoryHandler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	alertID := mux.Vars(r)["id"]

	if err := h.ackHandler.Handle(r.Context(), alertID, actorFrom(r)); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Alert acknowledged"})
}

// CheckLowStock handles GET /api/inventory/low-stock
func (h *InventoryHandler) CheckLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.lowStockHandler.Handle(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to check low stock")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to check low stock"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: items})
}

// GetStockValue handles GET /api/inventory/value
func (h *InventoryHandler) GetStockValue(w http.ResponseWriter, r *http.Request) {
	total, err := h.valueHandler.Handle(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to compute stock value")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to compute stock value"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]float64{"total_value": total}})
}

// GetMovements handles GET /api/inventory/{id}/movements
func (h *InventoryHandler) GetMovements(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	movements, err := h.movementsHandler.Handle(r.Context(), id, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: movements})
}

// RegisterRoutes registers all inventory routes. Literal paths come before
// the {id} routes so mux does not swallow them.
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/inventory/value", h.metricsMiddleware("/api/inventory/value", h.GetStockValue)).Methods("GET")
	router.HandleFunc("/api/inventory/low-stock", h.metricsMiddleware("/api/inventory/low-stock", h.CheckLowStock)).Methods("GET")
	router.HandleFunc("/api/inventory/alerts", h.metricsMiddleware("/api/inventory/alerts", h.GetAlerts)).Methods("GET")
	router.HandleFunc("/api/inventory/alerts/{id}/ack", AuthMiddleware(h.metricsMiddleware("/api/inventory/alerts/ack", h.AcknowledgeAlert))).Methods("POST")
	router.HandleFunc("/api/inventory/stock/batch", AuthMiddleware(h.metricsMiddleware("/api/inventory/stock/batch", h.BatchUpdateStock))).Methods("POST")
	router.HandleFunc("/api/inventory/transfer", AuthMiddleware(h.metricsMiddleware("/api/inventory/transfer", h.TransferStock))).Methods("POST")
	router.HandleFunc("/api/inventory", h.metricsMiddleware("/api/inventory", h.ListItems)).Methods("GET")
	router.HandleFunc("/api/inventory", AuthMiddleware(h.metricsMiddleware("/api/inventory", h.CreateItem))).Methods("POST")
	router.HandleFunc("/api/inventory/{id}", h.metricsMiddleware("/api/inventory/id", h.GetItem)).Methods("GET")
	router.HandleFunc("/api/inventory/{id}", AuthMiddleware(h.metricsMiddleware("/api/inventory/id", h.UpdateItem))).Methods("PATCH")
	router.HandleFunc("/api/inventory/{id}", AuthMiddleware(h.metricsMiddleware("/api/inventory/id", h.DeactivateItem))).Methods("DELETE")
	router.HandleFunc("/api/inventory/{id}/stock", AuthMiddleware(h.metricsMiddleware("/api/inventory/stock", h.UpdateStock))).Methods("POST")
	router.HandleFunc("/api/inventory/{id}/movements", h.metricsMiddleware("/api/inventory/movements", h.GetMovements)).Methods("GET")
}

// RegisterHealthCheck registers health check endpoint
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Database unavailable"})
			return
		}

		respondJSON(w, http.StatusOK, Response{Success: true, Message: "Inventory service is healthy"})
	}).Methods("GET")
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *InventoryHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid inventory item ID"})
		return 0, false
	}
	return uint(id), true
}

// respondError maps domain errors to HTTP statuses. Domain-meaningful
// failures keep their explanation; infrastructure failures stay generic.
func respondError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	var auditErr *domain.AuditWriteError
	var terr *domain.TransferError

	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: verr.Error()})
	case errors.Is(err, domain.ErrItemNotFound):
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		respondJSON(w, http.StatusForbidden, Response{Success: false, Error: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrItemInactive),
		errors.Is(err, domain.ErrDuplicateItem):
		respondJSON(w, http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.As(err, &auditErr):
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "stock updated but audit record failed; reconciliation required",
		})
	case errors.As(err, &terr):
		respondJSON(w, http.StatusConflict, Response{Success: false, Error: terr.Error()})
	default:
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal error, try again"})
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
