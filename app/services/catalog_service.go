package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/travlrgetaways/travlr/app/models"
	"github.com/travlrgetaways/travlr/app/repositories"
	"github.com/travlrgetaways/travlr/config"
	"github.com/travlrgetaways/travlr/pkg/cache"
	"github.com/travlrgetaways/travlr/pkg/logger"
	"github.com/travlrgetaways/travlr/pkg/metrics"
	"github.com/travlrgetaways/travlr/pkg/storage"
)

const tripsCacheKey = "travlr:catalog:trips"

// CatalogService serves the trip, room and meal listings. Trip reads go
// through redis when available; catalog mutations invalidate the key.
type CatalogService struct {
	trips repositories.TripRepository
	rooms repositories.RoomRepository
	meals repositories.MealRepository
}

func NewCatalogService(trips repositories.TripRepository, rooms repositories.RoomRepository, meals repositories.MealRepository) *CatalogService {
	return &CatalogService{trips: trips, rooms: rooms, meals: meals}
}

func (s *CatalogService) ListTrips(ctx context.Context) ([]models.Trip, error) {
	if raw, err := cache.Get(ctx, tripsCacheKey); err == nil {
		var trips []models.Trip
		if err := json.Unmarshal([]byte(raw), &trips); err == nil {
			metrics.CacheHits.Inc()
			return trips, nil
		}
	}
	metrics.CacheMisses.Inc()

	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(trips); err == nil {
		ttl := time.Duration(config.CatalogCacheTTL()) * time.Second
		if err := cache.Set(ctx, tripsCacheKey, string(raw), ttl); err != nil {
			logger.WithCtx(ctx).Warn("catalog: cache set failed", "error", err)
		}
	}

	return trips, nil
}

func (s *CatalogService) FindTrip(ctx context.Context, code string) (*models.Trip, error) {
	return s.trips.FindByCode(ctx, code)
}

func (s *CatalogService) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if err := s.trips.Create(ctx, trip); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) UpdateTrip(ctx context.Context, code string, trip *models.Trip) (*models.Trip, error) {
	updated, err := s.trips.Update(ctx, code, trip)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *CatalogService) DeleteTrip(ctx context.Context, code string) error {
	if err := s.trips.Delete(ctx, code); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// AttachTripImage stores an uploaded image on the configured disk and
// points the trip at its public URL.
func (s *CatalogService) AttachTripImage(ctx context.Context, code, filename string, r io.Reader) (string, error) {
	if _, err := s.trips.FindByCode(ctx, code); err != nil {
		return "", err
	}

	key := fmt.Sprintf("trips/%s%s", code, path.Ext(filename))
	disk := storage.Default()
	if err := disk.Put(ctx, key, r); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	url := disk.URL(key)
	if err := s.trips.SetImage(ctx, code, url); err != nil {
		return "", err
	}

	s.invalidate(ctx)
	return url, nil
}

func (s *CatalogService) ListRooms(ctx context.Context) ([]models.Room, error) {
	return s.rooms.List(ctx)
}

func (s *CatalogService) ListMeals(ctx context.Context) ([]models.Meal, error) {
	return s.meals.List(ctx)
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := cache.Del(ctx, tripsCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("catalog: cache invalidation failed", "error", err)
	}
}
