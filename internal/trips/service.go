package trips

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bustix/internal/shared/apperrors"
	"bustix/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the read-only trip collaborator consumed by the booking flow
// for pricing and departure-time lookups.
type Service interface {
	GetTrip(ctx context.Context, id uuid.UUID) (*Trip, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	cacheTTL     time.Duration
}

// NewService creates a trip service. cacheService may be nil, in which case
// every read goes to the database.
func NewService(repo Repository, cacheService cache.Service, cacheTTL time.Duration) Service {
	return &service{
		repo:         repo,
		cacheService: cacheService,
		cacheTTL:     cacheTTL,
	}
}

func (s *service) GetTrip(ctx context.Context, id uuid.UUID) (*Trip, error) {
	if s.cacheService == nil {
		return s.getTripFromDB(ctx, id)
	}

	cacheKey := buildTripCacheKey(id)
	var trip Trip
	err := s.cacheService.GetOrSet(ctx, cacheKey, s.cacheTTL, func() (interface{}, error) {
		fetched, err := s.getTripFromDB(ctx, id)
		if err != nil {
			return nil, err
		}
		return fetched, nil
	}, &trip)
	if err != nil {
		return nil, err
	}

	return &trip, nil
}

func (s *service) getTripFromDB(ctx context.Context, id uuid.UUID) (*Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("trip not found")
		}
		return nil, apperrors.Downstream("trip service unavailable", err)
	}
	return trip, nil
}

func buildTripCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("bustix:trip:%s", id.String())
}
