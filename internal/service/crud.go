package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/validation"
)

// crud implements the read, update and delete half of an entity service on top of its
// repository. Creation differs per entity and stays in the services.
type crud[T, U any] struct {
	name     string
	store    crudStore[T, U]
	validate *validation.Validator
	logger   *zap.Logger
}

func newCrud[T, U any](name string, store crudStore[T, U], validate *validation.Validator, logger *zap.Logger) crud[T, U] {
	return crud[T, U]{name: name, store: store, validate: validate, logger: logger}
}

// create validates in and stores v, which the caller built from in.
func (c crud[T, U]) create(ctx context.Context, in interface{}, v *T) error {
	if err := c.validate.Struct(in); err != nil {
		return err
	}
	if err := c.store.Create(ctx, v); err != nil {
		return fmt.Errorf("create %s: %w", c.name, err)
	}
	return nil
}

func (c crud[T, U]) get(ctx context.Context, id int64) (T, error) {
	v, err := c.store.GetByID(ctx, id)
	if err != nil {
		return v, fmt.Errorf("get %s %d: %w", c.name, id, err)
	}
	return v, nil
}

func (c crud[T, U]) list(ctx context.Context) ([]T, error) {
	vs, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	return vs, nil
}

func (c crud[T, U]) update(ctx context.Context, id int64, upd U) error {
	if err := c.validate.Struct(upd); err != nil {
		return err
	}
	if err := c.store.Update(ctx, id, upd); err != nil {
		return fmt.Errorf("update %s %d: %w", c.name, id, err)
	}

	c.logger.Info("Record updated",
		zap.String("entity", c.name),
		zap.Int64("id", id))
	return nil
}

func (c crud[T, U]) delete(ctx context.Context, id int64) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", c.name, id, err)
	}

	c.logger.Info("Record deleted",
		zap.String("entity", c.name),
		zap.Int64("id", id))
	return nil
}

func (c crud[T, U]) created(id int64, fields ...zap.Field) {
	c.logger.Info("Record created",
		append([]zap.Field{zap.String("entity", c.name), zap.Int64("id", id)}, fields...)...)
}
