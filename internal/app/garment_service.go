package app

import (
	"context"
	"math"
	"time"

	"secondhand-market/internal/model"
	"secondhand-market/internal/pkg/logger"
)

type GarmentStore interface {
	Create(ctx context.Context, garment *model.Garment) error
	GetByID(ctx context.Context, id uint) (*model.Garment, error)
	List(ctx context.Context) ([]model.Garment, error)
	ListByType(ctx context.Context, garmentType string) ([]model.Garment, error)
	ListByPublisher(ctx context.Context, publisherID uint) ([]model.Garment, error)
	Update(ctx context.Context, garment *model.Garment) error
	Delete(ctx context.Context, id uint) error
}

type GarmentEventStore interface {
	ListByGarmentID(ctx context.Context, garmentID uint, limit int) ([]model.GarmentEvent, error)
}

type GarmentCache interface {
	Get(ctx context.Context, id uint) (*model.Garment, bool, error)
	Set(ctx context.Context, garment *model.Garment) error
	Delete(ctx context.Context, id uint) error
}

type GarmentEventPublisher interface {
	Publish(ctx context.Context, event model.GarmentEvent) error
}

// GarmentService owns the listing workflows. The cache and publisher are
// optional; the store is the source of truth.
type GarmentService struct {
	garments  GarmentStore
	events    GarmentEventStore
	cache     GarmentCache
	publisher GarmentEventPublisher
	now       func() time.Time
}

type GarmentInput struct {
	Type        string
	Description string
	Size        string
	Price       float64
}

const historyLimit = 100

func NewGarmentService(
	garments GarmentStore,
	events GarmentEventStore,
	cache GarmentCache,
	publisher GarmentEventPublisher,
) *GarmentService {
	return &GarmentService{
		garments:  garments,
		events:    events,
		cache:     cache,
		publisher: publisher,
		now:       time.Now,
	}
}

// List returns every garment, or only those whose type matches exactly.
func (s *GarmentService) List(ctx context.Context, typeFilter string) ([]model.Garment, error) {
	var (
		garments []model.Garment
		err      error
	)
	if typeFilter == "" {
		garments, err = s.garments.List(ctx)
	} else {
		garments, err = s.garments.ListByType(ctx, typeFilter)
	}
	if err != nil {
		return nil, internalErr(err)
	}

	logger.FromContext(ctx).Info("garments fetched", "type", typeFilter, "count", len(garments))
	return garments, nil
}

func (s *GarmentService) ListByPublisher(ctx context.Context, publisherID uint) ([]model.Garment, error) {
	if publisherID == 0 {
		return nil, ErrInvalidInput
	}
	garments, err := s.garments.ListByPublisher(ctx, publisherID)
	if err != nil {
		return nil, internalErr(err)
	}
	return garments, nil
}

func (s *GarmentService) GetByID(ctx context.Context, id uint) (*model.Garment, error) {
	log := logger.FromContext(ctx)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			log.Warn("garment cache read failed", "garment_id", id, logger.Err(err))
		} else if ok {
			return cached, nil
		}
	}

	garment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, garment); err != nil {
			log.Warn("garment cache write failed", "garment_id", id, logger.Err(err))
		}
	}
	return garment, nil
}

// Publish stores a new garment owned by the caller. Any id in the input is
// ignored.
func (s *GarmentService) Publish(ctx context.Context, input GarmentInput, caller *Caller) (*model.Garment, error) {
	log := logger.FromContext(ctx)

	if caller == nil {
		log.Warn("anonymous publish attempt")
		return nil, ErrUnauthenticated
	}
	if err := validateGarment(input); err != nil {
		return nil, err
	}

	garment := &model.Garment{
		Type:        input.Type,
		Description: input.Description,
		Size:        input.Size,
		Price:       input.Price,
		PublisherID: caller.UserID,
	}
	if err := s.garments.Create(ctx, garment); err != nil {
		return nil, internalErr(err)
	}

	log.Info("garment published", "garment_id", garment.ID, "user_id", caller.UserID)
	s.emit(ctx, garment, caller, model.GarmentPublished)
	return garment, nil
}

// Update replaces type, description, size and price of a garment the caller
// owns. The publisher is never reassigned.
func (s *GarmentService) Update(ctx context.Context, id uint, input GarmentInput, caller *Caller) (*model.Garment, error) {
	log := logger.FromContext(ctx)

	if caller == nil {
		log.Warn("anonymous update attempt", "garment_id", id)
		return nil, ErrUnauthenticated
	}

	existing, err := s.loadOwned(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if err := validateGarment(input); err != nil {
		return nil, err
	}

	existing.Type = input.Type
	existing.Description = input.Description
	existing.Size = input.Size
	existing.Price = input.Price
	if err := s.garments.Update(ctx, existing); err != nil {
		return nil, internalErr(err)
	}

	log.Info("garment updated", "garment_id", id, "user_id", caller.UserID)
	s.invalidate(ctx, id)
	s.emit(ctx, existing, caller, model.GarmentUpdated)
	return existing, nil
}

func (s *GarmentService) Unpublish(ctx context.Context, id uint, caller *Caller) error {
	log := logger.FromContext(ctx)

	if caller == nil {
		log.Warn("anonymous unpublish attempt", "garment_id", id)
		return ErrUnauthenticated
	}

	existing, err := s.loadOwned(ctx, id, caller)
	if err != nil {
		return err
	}
	if err := s.garments.Delete(ctx, id); err != nil {
		return internalErr(err)
	}

	log.Info("garment unpublished", "garment_id", id, "user_id", caller.UserID)
	s.invalidate(ctx, id)
	s.emit(ctx, existing, caller, model.GarmentUnpublished)
	return nil
}

// History lists the recorded lifecycle events of a garment, oldest first.
// Events outlive the garment, so an unknown id yields an empty list.
func (s *GarmentService) History(ctx context.Context, id uint) ([]model.GarmentEvent, error) {
	if s.events == nil {
		return []model.GarmentEvent{}, nil
	}
	events, err := s.events.ListByGarmentID(ctx, id, historyLimit)
	if err != nil {
		return nil, internalErr(err)
	}
	return events, nil
}

func (s *GarmentService) load(ctx context.Context, id uint) (*model.Garment, error) {
	garment, err := s.garments.GetByID(ctx, id)
	if err != nil {
		return nil, internalErr(err)
	}
	if garment == nil {
		logger.FromContext(ctx).Warn("garment not found", "garment_id", id)
		return nil, ErrGarmentNotFound
	}
	return garment, nil
}

// loadOwned reads from the store, bypassing the cache, and checks ownership.
func (s *GarmentService) loadOwned(ctx context.Context, id uint, caller *Caller) (*model.Garment, error) {
	garment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if garment.PublisherID != caller.UserID {
		logger.FromContext(ctx).Warn("ownership check failed", "garment_id", id, "user_id", caller.UserID)
		return nil, ErrForbidden
	}
	return garment, nil
}

func (s *GarmentService) invalidate(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		logger.FromContext(ctx).Warn("garment cache invalidation failed", "garment_id", id, logger.Err(err))
	}
}

// emit runs after the store write has committed, so a broker failure is
// logged rather than returned.
func (s *GarmentService) emit(ctx context.Context, garment *model.Garment, caller *Caller, kind model.GarmentEventKind) {
	if s.publisher == nil {
		return
	}
	event := model.GarmentEvent{
		GarmentID:   garment.ID,
		PublisherID: garment.PublisherID,
		ActorID:     caller.UserID,
		Kind:        kind,
		Price:       garment.Price,
		OccurredAt:  s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.FromContext(ctx).Error("garment event publish failed",
			"garment_id", garment.ID, "kind", kind, logger.Err(err))
	}
}

func validateGarment(input GarmentInput) error {
	if math.IsNaN(input.Price) || math.IsInf(input.Price, 0) || input.Price < 0 {
		return ErrInvalidInput
	}
	return nil
}
