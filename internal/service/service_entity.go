package service

import (
	"context"
	"fmt"

	"github.com/iklobato/LightAPI/internal/logger"
	"github.com/iklobato/LightAPI/internal/store"
	"github.com/iklobato/LightAPI/models"
)

// entityService implements EntityService on top of the generic
// EntityRepository. It owns the write semantics of the generated handlers:
// unknown payload keys are dropped, a replace overwrites every declared
// column, a patch touches only the columns present in the payload.
type entityService struct {
	entityRepository store.EntityRepository
	logger           *logger.Logger
}

// NewEntityService constructs an EntityService backed by the given
// repository.
func NewEntityService(entities store.EntityRepository, logger *logger.Logger) EntityService {
	return &entityService{
		entityRepository: entities,
		logger:           logger,
	}
}

// Create inserts a new row built from payload. Keys that are not declared
// fields of the entity are silently dropped; declared fields absent from
// the payload are left to their column defaults.
func (s *entityService) Create(ctx context.Context, q store.Querier, entity models.Entity, payload models.Record) (models.Record, error) {
	rec := entity.Filter(payload)

	created, err := s.entityRepository.Insert(ctx, q, entity, rec)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("entity", entity.Name).Msg("entity creation ended with error")
		return nil, fmt.Errorf("entity creation ended with error: %w", err)
	}

	return created, nil
}

// Get fetches a single row by primary key.
func (s *entityService) Get(ctx context.Context, q store.Querier, entity models.Entity, id int64) (models.Record, error) {
	found, err := s.entityRepository.Get(ctx, q, entity, id)
	if err != nil {
		return nil, fmt.Errorf("entity lookup ended with error: %w", err)
	}

	return found, nil
}

// List fetches every row of the entity ordered by primary key. An empty
// table yields an empty slice, never nil.
func (s *entityService) List(ctx context.Context, q store.Querier, entity models.Entity) ([]models.Record, error) {
	found, err := s.entityRepository.List(ctx, q, entity)
	if err != nil {
		return nil, fmt.Errorf("entity listing ended with error: %w", err)
	}

	return found, nil
}

// Replace overwrites the whole row: every declared field is written, and
// declared fields absent from the payload are set to NULL. The primary key
// always comes from the path, never from the payload.
func (s *entityService) Replace(ctx context.Context, q store.Querier, entity models.Entity, id int64, payload models.Record) (models.Record, error) {
	rec := entity.Filter(payload)
	for _, field := range entity.Fields {
		if _, ok := rec[field.Name]; !ok {
			rec[field.Name] = nil
		}
	}

	updated, err := s.entityRepository.Update(ctx, q, entity, id, rec)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("entity", entity.Name).Int64("id", id).Msg("entity replace ended with error")
		return nil, fmt.Errorf("entity replace ended with error: %w", err)
	}

	return updated, nil
}

// Patch updates only the declared fields present in the payload. A payload
// carrying no declared fields leaves the row untouched and returns its
// current state.
func (s *entityService) Patch(ctx context.Context, q store.Querier, entity models.Entity, id int64, payload models.Record) (models.Record, error) {
	rec := entity.Filter(payload)

	updated, err := s.entityRepository.Update(ctx, q, entity, id, rec)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("entity", entity.Name).Int64("id", id).Msg("entity patch ended with error")
		return nil, fmt.Errorf("entity patch ended with error: %w", err)
	}

	return updated, nil
}

// Delete removes the row by primary key.
func (s *entityService) Delete(ctx context.Context, q store.Querier, entity models.Entity, id int64) error {
	if err := s.entityRepository.Delete(ctx, q, entity, id); err != nil {
		return fmt.Errorf("entity deletion ended with error: %w", err)
	}

	return nil
}
