// Package controllers translates HTTP into service calls. Response shapes
// here are a compatibility contract with the storefront scripts: empty
// reads are a 200 with a message, lookup failures are a 404 with a
// generic message, and successful cart mutations answer 201.
package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/travlrgetaways/travlr/app/apperr"
	"github.com/travlrgetaways/travlr/app/models"
	"github.com/travlrgetaways/travlr/app/services"
	"github.com/travlrgetaways/travlr/pkg/bind"
	"github.com/travlrgetaways/travlr/pkg/logger"
	"github.com/travlrgetaways/travlr/pkg/middleware"
	"github.com/travlrgetaways/travlr/pkg/response"
)

type CartController struct {
	cart *services.CartService
}

func NewCartController(cart *services.CartService) *CartController {
	return &CartController{cart: cart}
}

type addItemRequest struct {
	ID         string  `json:"_id" validate:"required"`
	Code       string  `json:"code" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Collection string  `json:"collection" validate:"required|in:travel,rooms,meals"`
	Rate       float64 `json:"rate" validate:"gte:0"`
	Image      string  `json:"image"`
}

type updateItemRequest struct {
	ID       string `json:"_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required|integer|gte:1"`
}

type removeItemRequest struct {
	ID string `json:"_id" validate:"required"`
}

// List handles GET /api/cart.
func (c *CartController) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())

	items, err := c.cart.List(r.Context(), userID)
	if err != nil {
		logger.WithCtx(r.Context()).Error("cart: list failed", "error", err)
		response.ServerError(w)
		return
	}

	if len(items) == 0 {
		response.NoResults(w)
		return
	}

	response.JSON(w, http.StatusOK, items)
}

// Get handles GET /api/cart/{collection}/{id}.
func (c *CartController) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	item, err := c.cart.Get(r.Context(), userID, collection, id)
	switch {
	case errors.Is(err, apperr.ErrInvalidCollection), errors.Is(err, apperr.ErrInvalidID):
		response.Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		response.NoResults(w)
	case err != nil:
		logger.WithCtx(r.Context()).Error("cart: get failed", "error", err)
		response.ServerError(w)
	default:
		response.JSON(w, http.StatusOK, item)
	}
}

// Add handles POST /api/cart.
func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := bind.Body(r, &req); err != nil {
		response.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	item := models.CartItem{
		ID:         req.ID,
		Code:       req.Code,
		Name:       req.Name,
		Collection: models.Collection(req.Collection),
		Rate:       req.Rate,
		Image:      req.Image,
	}

	userID := middleware.UserIDFromCtx(r.Context())
	added, err := c.cart.Add(r.Context(), userID, item)
	switch {
	case errors.Is(err, apperr.ErrAlreadyInCart):
		// Not an error to the storefront: the item is in the cart either way.
		response.Message(w, http.StatusOK, "This item is already in your cart")
	case errors.Is(err, apperr.ErrInvalidCollection), errors.Is(err, apperr.ErrInvalidID):
		response.Message(w, http.StatusBadRequest, err.Error())
	case err != nil:
		logger.WithCtx(r.Context()).Error("cart: add failed", "error", err)
		response.Message(w, http.StatusInternalServerError, "Server error")
	default:
		response.Message(w, http.StatusCreated, fmt.Sprintf("%s added to your cart", added.Name))
	}
}

// Update handles PUT /api/cart. The storefront submits this as a form.
func (c *CartController) Update(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := bind.Body(r, &req); err != nil {
		response.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := middleware.UserIDFromCtx(r.Context())
	item, err := c.cart.UpdateQuantity(r.Context(), userID, req.ID, req.Quantity)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		response.ServerError(w)
	case err != nil:
		logger.WithCtx(r.Context()).Error("cart: update failed", "error", err)
		response.ServerError(w)
	default:
		response.JSON(w, http.StatusCreated, item)
	}
}

// Remove handles DELETE /api/cart.
func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	var req removeItemRequest
	if err := bind.Body(r, &req); err != nil {
		response.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := middleware.UserIDFromCtx(r.Context())
	item, err := c.cart.Remove(r.Context(), userID, req.ID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		response.ServerError(w)
	case err != nil:
		logger.WithCtx(r.Context()).Error("cart: remove failed", "error", err)
		response.ServerError(w)
	default:
		response.JSON(w, http.StatusCreated, map[string]any{
			"message":    fmt.Sprintf("%s removed from your cart", item.Name),
			"removeItem": item,
		})
	}
}
