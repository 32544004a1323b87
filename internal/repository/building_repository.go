package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository/base"
)

type BuildingRepository struct {
	cached[model.Building]
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewBuildingRepository creates the building repository with a read-through cache of ttl.
func NewBuildingRepository(pool *pgxpool.Pool, ttl time.Duration, logger *zap.Logger) *BuildingRepository {
	return &BuildingRepository{
		cached: newCached[model.Building](ttl),
		pool:   pool,
		logger: logger,
	}
}

// Create inserts the building and sets its ID.
func (r *BuildingRepository) Create(ctx context.Context, b *model.Building) error {
	query := `
		INSERT INTO buildings (bu_name, bu_code, campus)
		VALUES ($1, $2, $3)
		RETURNING bu_id
	`
	if err := r.pool.QueryRow(ctx, query, b.Name, b.Code, b.Campus).Scan(&b.ID); err != nil {
		return base.Classify("create building", err)
	}
	return nil
}

// GetByID returns the building with this ID, reading through the cache.
func (r *BuildingRepository) GetByID(ctx context.Context, id int64) (model.Building, error) {
	return r.cache.Load(id, func() (model.Building, error) {
		var b model.Building
		query := `SELECT bu_id, bu_name, bu_code, campus FROM buildings WHERE bu_id = $1`
		if err := r.pool.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.Code, &b.Campus); err != nil {
			return model.Building{}, base.Classify("get building by id", err)
		}
		return b, nil
	})
}

// List returns all buildings.
func (r *BuildingRepository) List(ctx context.Context) ([]model.Building, error) {
	rows, err := r.pool.Query(ctx, `SELECT bu_id, bu_name, bu_code, campus FROM buildings ORDER BY bu_name, bu_id`)
	if err != nil {
		return nil, base.Classify("list buildings", err)
	}
	defer rows.Close()

	buildings := []model.Building{}
	for rows.Next() {
		var b model.Building
		if err := rows.Scan(&b.ID, &b.Name, &b.Code, &b.Campus); err != nil {
			return nil, base.Classify("scan building", err)
		}
		buildings = append(buildings, b)
	}
	return buildings, base.Classify("list buildings", rows.Err())
}

// Update writes the set fields of upd and drops the cached building.
func (r *BuildingRepository) Update(ctx context.Context, id int64, upd model.BuildingUpdate) error {
	u := base.NewUpdate("buildings", "bu_id")
	base.SetIf(u, "bu_name", upd.Name)
	base.SetIf(u, "bu_code", upd.Code)
	base.SetIf(u, "campus", upd.Campus)

	if err := base.ExecUpdate(ctx, r.pool, "update building", u, id); err != nil {
		return err
	}
	r.Invalidate(id)
	return nil
}

// Delete removes the building. Its rooms, and their classrooms, go with it.
func (r *BuildingRepository) Delete(ctx context.Context, id int64) error {
	if err := base.ExecDelete(ctx, r.pool, "delete building", "buildings", "bu_id", id); err != nil {
		r.logger.Warn("Failed to delete building", zap.Int64("building_id", id), zap.Error(err))
		return err
	}
	r.deleted(id)
	return nil
}
