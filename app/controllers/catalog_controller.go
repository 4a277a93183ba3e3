package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/travlrgetaways/travlr/app/apperr"
	"github.com/travlrgetaways/travlr/app/models"
	"github.com/travlrgetaways/travlr/app/services"
	"github.com/travlrgetaways/travlr/pkg/bind"
	"github.com/travlrgetaways/travlr/pkg/logger"
	"github.com/travlrgetaways/travlr/pkg/response"
)

// maxImageUpload caps trip image uploads at 5 MiB.
const maxImageUpload = 5 << 20

type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// ListTrips handles GET /api/travel.
func (c *CatalogController) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := c.catalog.ListTrips(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("catalog: list trips failed", "error", err)
		response.ServerError(w)
		return
	}

	if len(trips) == 0 {
		response.NoResults(w)
		return
	}

	response.JSON(w, http.StatusOK, trips)
}

// GetTrip handles GET /api/travel/{tripCode}.
func (c *CatalogController) GetTrip(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "tripCode")

	trip, err := c.catalog.FindTrip(r.Context(), code)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			logger.WithCtx(r.Context()).Error("catalog: find trip failed", "error", err)
		}
		response.ServerError(w)
		return
	}

	response.JSON(w, http.StatusOK, trip)
}

// CreateTrip handles POST /api/travel.
func (c *CatalogController) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var trip models.Trip
	if err := bind.JSON(r, &trip); err != nil {
		response.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	err := c.catalog.CreateTrip(r.Context(), &trip)
	switch {
	case errors.Is(err, apperr.ErrDuplicateCode):
		response.Message(w, http.StatusConflict, "A trip with this code already exists.")
	case err != nil:
		logger.WithCtx(r.Context()).Error("catalog: create trip failed", "error", err)
		response.Message(w, http.StatusInternalServerError, "Server error")
	default:
		response.JSON(w, http.StatusCreated, trip)
	}
}

// UpdateTrip handles PUT /api/travel/{tripCode}.
func (c *CatalogController) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "tripCode")

	var trip models.Trip
	if err := bind.JSON(r, &trip); err != nil {
		response.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := c.catalog.UpdateTrip(r.Context(), code, &trip)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		response.ServerError(w)
	case err != nil:
		logger.WithCtx(r.Context()).Error("catalog: update trip failed", "error", err)
		response.ServerError(w)
	default:
		response.JSON(w, http.StatusCreated, updated)
	}
}

// DeleteTrip handles DELETE /api/travel/{tripCode}.
func (c *CatalogController) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "tripCode")

	err := c.catalog.DeleteTrip(r.Context(), code)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		response.ServerError(w)
	case err != nil:
		logger.WithCtx(r.Context()).Error("catalog: delete trip failed", "error", err)
		response.ServerError(w)
	default:
		response.Message(w, http.StatusOK, "Trip deleted")
	}
}

// UploadTripImage handles POST /api/travel/{tripCode}/image. Expects
// multipart form data with an "image" file field.
func (c *CatalogController) UploadTripImage(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "tripCode")

	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		response.Message(w, http.StatusBadRequest, "Image file required")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Message(w, http.StatusBadRequest, "Image file required")
		return
	}
	defer file.Close()

	url, err := c.catalog.AttachTripImage(r.Context(), code, header.Filename, file)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		response.ServerError(w)
	case err != nil:
		logger.WithCtx(r.Context()).Error("catalog: image upload failed", "error", err)
		response.Message(w, http.StatusInternalServerError, "Server error")
	default:
		response.JSON(w, http.StatusOK, map[string]string{"image": url})
	}
}

// ListRooms handles GET /api/rooms.
func (c *CatalogController) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := c.catalog.ListRooms(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("catalog: list rooms failed", "error", err)
		response.ServerError(w)
		return
	}

	if len(rooms) == 0 {
		response.NoResults(w)
		return
	}

	response.JSON(w, http.StatusOK, rooms)
}

// ListMeals handles GET /api/meals.
func (c *CatalogController) ListMeals(w http.ResponseWriter, r *http.Request) {
	meals, err := c.catalog.ListMeals(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("catalog: list meals failed", "error", err)
		response.ServerError(w)
		return
	}

	if len(meals) == 0 {
		response.NoResults(w)
		return
	}

	response.JSON(w, http.StatusOK, meals)
}
