package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository/base"
)

type FacultyRepository struct {
	cached[model.Faculty]
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewFacultyRepository creates the faculty repository with a read-through cache of ttl.
func NewFacultyRepository(pool *pgxpool.Pool, ttl time.Duration, logger *zap.Logger) *FacultyRepository {
	return &FacultyRepository{
		cached: newCached[model.Faculty](ttl),
		pool:   pool,
		logger: logger,
	}
}

const facultyColumns = `fac_id, fac_name, fac_building, dean, dean_asst_1, dean_asst_2`

func scanFaculty(row interface{ Scan(...interface{}) error }, f *model.Faculty) error {
	return row.Scan(&f.ID, &f.Name, &f.BuildingID, &f.DeanID, &f.DeanAsst1ID, &f.DeanAsst2ID)
}

// Create inserts the faculty and sets its ID.
func (r *FacultyRepository) Create(ctx context.Context, f *model.Faculty) error {
	query := `
		INSERT INTO faculties (fac_name, fac_building, dean, dean_asst_1, dean_asst_2)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING fac_id
	`
	err := r.pool.QueryRow(ctx, query,
		f.Name,
		f.BuildingID,
		f.DeanID,
		f.DeanAsst1ID,
		f.DeanAsst2ID,
	).Scan(&f.ID)
	if err != nil {
		return base.Classify("create faculty", err)
	}
	return nil
}

// GetByID returns the faculty with this ID, reading through the cache.
func (r *FacultyRepository) GetByID(ctx context.Context, id int64) (model.Faculty, error) {
	return r.cache.Load(id, func() (model.Faculty, error) {
		var f model.Faculty
		query := `SELECT ` + facultyColumns + ` FROM faculties WHERE fac_id = $1`
		if err := scanFaculty(r.pool.QueryRow(ctx, query, id), &f); err != nil {
			return model.Faculty{}, base.Classify("get faculty by id", err)
		}
		return f, nil
	})
}

// List returns all faculties.
func (r *FacultyRepository) List(ctx context.Context) ([]model.Faculty, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+facultyColumns+` FROM faculties ORDER BY fac_name, fac_id`)
	if err != nil {
		return nil, base.Classify("list faculties", err)
	}
	defer rows.Close()

	faculties := []model.Faculty{}
	for rows.Next() {
		var f model.Faculty
		if err := scanFaculty(rows, &f); err != nil {
			return nil, base.Classify("scan faculty", err)
		}
		faculties = append(faculties, f)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Classify("list faculties", err)
	}
	return faculties, nil
}

// Update writes the set fields of upd and drops the cached faculty.
func (r *FacultyRepository) Update(ctx context.Context, id int64, upd model.FacultyUpdate) error {
	u := base.NewUpdate("faculties", "fac_id")
	base.SetIf(u, "fac_name", upd.Name)
	base.SetIf(u, "fac_building", upd.BuildingID)
	base.SetIf(u, "dean", upd.DeanID)
	base.SetIf(u, "dean_asst_1", upd.DeanAsst1ID)
	base.SetIf(u, "dean_asst_2", upd.DeanAsst2ID)

	if err := base.ExecUpdate(ctx, r.pool, "update faculty", u, id); err != nil {
		return err
	}
	r.Invalidate(id)
	return nil
}

// Delete removes the faculty and invalidates the caches that depended on it.
func (r *FacultyRepository) Delete(ctx context.Context, id int64) error {
	if err := base.ExecDelete(ctx, r.pool, "delete faculty", "faculties", "fac_id", id); err != nil {
		return err
	}
	r.deleted(id)
	return nil
}
