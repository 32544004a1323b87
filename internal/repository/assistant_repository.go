package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository/base"
)

type AssistantRepository struct {
	cached[model.Assistant]
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewAssistantRepository creates the assistant repository with a read-through cache of ttl.
func NewAssistantRepository(pool *pgxpool.Pool, ttl time.Duration, logger *zap.Logger) *AssistantRepository {
	return &AssistantRepository{
		cached: newCached[model.Assistant](ttl),
		pool:   pool,
		logger: logger,
	}
}

const assistantSelect = `
	SELECT a.as_id, a.as_person, p.name, a.lab, a.degree, a.department, a.faculty
	FROM assistants a
	JOIN people p ON p.p_id = a.as_person
`

func scanAssistant(row interface{ Scan(...interface{}) error }, a *model.Assistant) error {
	return row.Scan(&a.ID, &a.PersonID, &a.Name, &a.LabID, &a.Degree, &a.DepartmentID, &a.FacultyID)
}

// Create inserts the assistant and sets its ID.
func (r *AssistantRepository) Create(ctx context.Context, a *model.Assistant) error {
	query := `
		INSERT INTO assistants (as_person, lab, degree, department, faculty)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING as_id
	`
	err := r.pool.QueryRow(ctx, query, a.PersonID, a.LabID, a.Degree, a.DepartmentID, a.FacultyID).Scan(&a.ID)
	if err != nil {
		return base.Classify("create assistant", err)
	}
	return nil
}

// GetByID returns the assistant with this ID, reading through the cache.
func (r *AssistantRepository) GetByID(ctx context.Context, id int64) (model.Assistant, error) {
	return r.cache.Load(id, func() (model.Assistant, error) {
		var a model.Assistant
		if err := scanAssistant(r.pool.QueryRow(ctx, assistantSelect+` WHERE a.as_id = $1`, id), &a); err != nil {
			return model.Assistant{}, base.Classify("get assistant by id", err)
		}
		return a, nil
	})
}

// GetByPerson returns the assistant profile of a person. It bypasses the cache.
func (r *AssistantRepository) GetByPerson(ctx context.Context, personID int64) (model.Assistant, error) {
	var a model.Assistant
	if err := scanAssistant(r.pool.QueryRow(ctx, assistantSelect+` WHERE a.as_person = $1 ORDER BY a.as_id LIMIT 1`, personID), &a); err != nil {
		return model.Assistant{}, base.Classify("get assistant by person", err)
	}
	return a, nil
}

// List returns all assistants.
func (r *AssistantRepository) List(ctx context.Context) ([]model.Assistant, error) {
	rows, err := r.pool.Query(ctx, assistantSelect+` ORDER BY p.name, a.as_id`)
	if err != nil {
		return nil, base.Classify("list assistants", err)
	}
	defer rows.Close()

	assistants := []model.Assistant{}
	for rows.Next() {
		var a model.Assistant
		if err := scanAssistant(rows, &a); err != nil {
			return nil, base.Classify("scan assistant", err)
		}
		assistants = append(assistants, a)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Classify("list assistants", err)
	}
	return assistants, nil
}

// Update writes the set fields of upd and drops the cached assistant.
func (r *AssistantRepository) Update(ctx context.Context, id int64, upd model.AssistantUpdate) error {
	u := base.NewUpdate("assistants", "as_id")
	base.SetIf(u, "lab", upd.LabID)
	base.SetIf(u, "degree", upd.Degree)
	base.SetIf(u, "department", upd.DepartmentID)
	base.SetIf(u, "faculty", upd.FacultyID)

	if err := base.ExecUpdate(ctx, r.pool, "update assistant", u, id); err != nil {
		return err
	}
	r.Invalidate(id)
	return nil
}

// Delete removes the assistant and invalidates the caches that depended on it.
func (r *AssistantRepository) Delete(ctx context.Context, id int64) error {
	if err := base.ExecDelete(ctx, r.pool, "delete assistant", "assistants", "as_id", id); err != nil {
		return err
	}
	r.deleted(id)
	return nil
}
