package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository/base"
)

type DepartmentRepository struct {
	cached[model.Department]
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewDepartmentRepository creates the department repository with a read-through cache of ttl.
func NewDepartmentRepository(pool *pgxpool.Pool, ttl time.Duration, logger *zap.Logger) *DepartmentRepository {
	return &DepartmentRepository{
		cached: newCached[model.Department](ttl),
		pool:   pool,
		logger: logger,
	}
}

// Create inserts the department and sets its ID.
func (r *DepartmentRepository) Create(ctx context.Context, d *model.Department) error {
	query := `
		INSERT INTO departments (dep_name, faculty, building, dean)
		VALUES ($1, $2, $3, $4)
		RETURNING dep_id
	`
	if err := r.pool.QueryRow(ctx, query, d.Name, d.FacultyID, d.BuildingID, d.DeanID).Scan(&d.ID); err != nil {
		return base.Classify("create department", err)
	}
	return nil
}

// GetByID returns the department with this ID, reading through the cache.
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (model.Department, error) {
	return r.cache.Load(id, func() (model.Department, error) {
		var d model.Department
		query := `SELECT dep_id, dep_name, faculty, building, dean FROM departments WHERE dep_id = $1`
		err := r.pool.QueryRow(ctx, query, id).Scan(&d.ID, &d.Name, &d.FacultyID, &d.BuildingID, &d.DeanID)
		if err != nil {
			return model.Department{}, base.Classify("get department by id", err)
		}
		return d, nil
	})
}

// List returns all departments.
func (r *DepartmentRepository) List(ctx context.Context) ([]model.Department, error) {
	query := `SELECT dep_id, dep_name, faculty, building, dean FROM departments ORDER BY dep_name, dep_id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, base.Classify("list departments", err)
	}
	defer rows.Close()

	departments := []model.Department{}
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.FacultyID, &d.BuildingID, &d.DeanID); err != nil {
			return nil, base.Classify("scan department", err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Classify("list departments", err)
	}
	return departments, nil
}

// Update writes the set fields of upd and drops the cached department.
func (r *DepartmentRepository) Update(ctx context.Context, id int64, upd model.DepartmentUpdate) error {
	u := base.NewUpdate("departments", "dep_id")
	base.SetIf(u, "dep_name", upd.Name)
	base.SetIf(u, "faculty", upd.FacultyID)
	base.SetIf(u, "building", upd.BuildingID)
	base.SetIf(u, "dean", upd.DeanID)

	if err := base.ExecUpdate(ctx, r.pool, "update department", u, id); err != nil {
		return err
	}
	r.Invalidate(id)
	return nil
}

// Delete removes the department and invalidates the caches that depended on it.
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	if err := base.ExecDelete(ctx, r.pool, "delete department", "departments", "dep_id", id); err != nil {
		return err
	}
	r.deleted(id)
	return nil
}
