package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// UpdateStock godoc
// @Summary Mutate stock for an item
// @Description Apply an add, subtract or set operation through the stock ledger
// @Tags Inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Inventory item ID"
// @Param request body object{operation=string,quantity=int,reason=string} true "Stock mutation"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/inventory/{id}/stock [post]
func (h *InventoryHandler) UpdateStockDoc() {}

// BatchUpdateStock godoc
// @Summary Batch stock mutations
// @Description Apply many stock mutations with per-item failure isolation
// @Tags Inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{updates=array} true "Batch of stock mutations"
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/inventory/stock/batch [post]
func (h *InventoryHandler) BatchUpdateStockDoc() {}

// TransferStock godoc
// @Summary Transfer stock between locations
// @Description Debit the source item and credit the destination item, with compensating rollback on partial failure
// @Tags Inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{product_id=int,from_location_id=int,to_location_id=int,quantity=int,reason=string} true "Transfer request"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/inventory/transfer [post]
func (h *InventoryHandler) TransferStockDoc() {}

// GetAlerts godoc
// @Summary Current stock alerts
// @Description Alerts derived from current stock levels, sorted by severity
// @Tags Inventory
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/inventory/alerts [get]
func (h *InventoryHandler) GetAlertsDoc() {}
