package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository/base"
)

type LabRepository struct {
	cached[model.Lab]
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewLabRepository creates the lab repository with a read-through cache of ttl.
func NewLabRepository(pool *pgxpool.Pool, ttl time.Duration, logger *zap.Logger) *LabRepository {
	return &LabRepository{
		cached: newCached[model.Lab](ttl),
		pool:   pool,
		logger: logger,
	}
}

const labColumns = `lab_id, lab_name, department, faculty, building, room, investigator`

func scanLab(row interface{ Scan(...interface{}) error }, l *model.Lab) error {
	return row.Scan(&l.ID, &l.Name, &l.DepartmentID, &l.FacultyID, &l.BuildingID, &l.RoomID, &l.InvestigatorID)
}

// Create inserts the lab and sets its ID.
func (r *LabRepository) Create(ctx context.Context, l *model.Lab) error {
	query := `
		INSERT INTO labs (lab_name, department, faculty, building, room, investigator)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING lab_id
	`
	err := r.pool.QueryRow(ctx, query,
		l.Name,
		l.DepartmentID,
		l.FacultyID,
		l.BuildingID,
		l.RoomID,
		l.InvestigatorID,
	).Scan(&l.ID)
	if err != nil {
		return base.Classify("create lab", err)
	}
	return nil
}

// GetByID returns the lab with this ID, reading through the cache.
func (r *LabRepository) GetByID(ctx context.Context, id int64) (model.Lab, error) {
	return r.cache.Load(id, func() (model.Lab, error) {
		var l model.Lab
		if err := scanLab(r.pool.QueryRow(ctx, `SELECT `+labColumns+` FROM labs WHERE lab_id = $1`, id), &l); err != nil {
			return model.Lab{}, base.Classify("get lab by id", err)
		}
		return l, nil
	})
}

// List returns all labs.
func (r *LabRepository) List(ctx context.Context) ([]model.Lab, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+labColumns+` FROM labs ORDER BY lab_name`)
	if err != nil {
		return nil, base.Classify("list labs", err)
	}
	defer rows.Close()

	labs := []model.Lab{}
	for rows.Next() {
		var l model.Lab
		if err := scanLab(rows, &l); err != nil {
			return nil, base.Classify("scan lab", err)
		}
		labs = append(labs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Classify("list labs", err)
	}
	return labs, nil
}

// Update writes the set fields of upd and drops the cached lab.
func (r *LabRepository) Update(ctx context.Context, id int64, upd model.LabUpdate) error {
	u := base.NewUpdate("labs", "lab_id")
	base.SetIf(u, "lab_name", upd.Name)
	base.SetIf(u, "department", upd.DepartmentID)
	base.SetIf(u, "faculty", upd.FacultyID)
	base.SetIf(u, "building", upd.BuildingID)
	base.SetIf(u, "room", upd.RoomID)
	base.SetIf(u, "investigator", upd.InvestigatorID)

	if err := base.ExecUpdate(ctx, r.pool, "update lab", u, id); err != nil {
		return err
	}
	r.Invalidate(id)
	return nil
}

// Delete removes the lab and invalidates the caches that depended on it.
func (r *LabRepository) Delete(ctx context.Context, id int64) error {
	if err := base.ExecDelete(ctx, r.pool, "delete lab", "labs", "lab_id", id); err != nil {
		return err
	}
	r.deleted(id)
	return nil
}
