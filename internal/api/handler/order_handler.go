package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

type OrderHandler struct {
	orderService service.IOrderService
}

func NewOrderHandler(orderService service.IOrderService) *OrderHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	return &OrderHandler{orderService: orderService}
}

// CreateOrder POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, convertOrderToDTO(order))
}

// GetOrder GET /api/orders/{orderID}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		serviceError(w, err)
		return
	}
	if order.UserID != userID {
		errorJSON(w, http.StatusNotFound, service.ErrOrderNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, convertOrderToDTO(order))
}

// ListOrders GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	orders, err := h.orderService.GetOrdersByUserID(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}

	res := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, convertOrderToDTO(&orders[i]))
	}
	writeJSON(w, http.StatusOK, res)
}

func convertOrderToDTO(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemDTO, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, dto.OrderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}
	return dto.OrderResponse{
		OrderID:   order.OrderID,
		UserID:    order.UserID,
		Amount:    order.Amount,
		State:     order.State,
		OrderDate: order.OrderDate,
		Items:     items,
	}
}
