package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

type CartHandler struct {
	cartService service.ICartService
}

func NewCartHandler(cartService service.ICartService) *CartHandler {
	if cartService == nil {
		panic("cartService cannot be nil")
	}
	return &CartHandler{cartService: cartService}
}

// AddToCart POST /api/cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req dto.CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.cartService.AddItem(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, nil)
}

// UpdateCartItem PUT /api/cart
func (h *CartHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req dto.CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.cartService.UpdateItem(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cart item updated"})
}

// RemoveFromCart DELETE /api/cart/items/{productID}
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	productID := chi.URLParam(r, "productID")
	if err := h.cartService.RemoveItem(r.Context(), userID, productID); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearCart DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	if err := h.cartService.ClearCart(r.Context(), userID); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCart GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	cart, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}
