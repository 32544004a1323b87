package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository/base"
)

type PersonRepository struct {
	cached[model.Person]
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPersonRepository creates the person repository with a read-through cache of ttl.
func NewPersonRepository(pool *pgxpool.Pool, ttl time.Duration, logger *zap.Logger) *PersonRepository {
	return &PersonRepository{
		cached: newCached[model.Person](ttl),
		pool:   pool,
		logger: logger,
	}
}

const personColumns = `p_id, name, email, photo, password, type`

func scanPerson(row interface{ Scan(...interface{}) error }, p *model.Person) error {
	return row.Scan(&p.ID, &p.Name, &p.Email, &p.Photo, &p.PasswordHash, &p.Type)
}

// Create inserts the person and sets p.ID.
func (r *PersonRepository) Create(ctx context.Context, p *model.Person) error {
	if err := insertPerson(ctx, r.pool, p); err != nil {
		r.logger.Error("Failed to insert person",
			zap.String("email", p.Email),
			zap.Error(err))
		return err
	}
	return nil
}

func insertPerson(ctx context.Context, db base.DBTX, p *model.Person) error {
	query := `
		INSERT INTO people (name, email, photo, password, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING p_id
	`
	err := db.QueryRow(ctx, query, p.Name, p.Email, p.Photo, p.PasswordHash, p.Type).Scan(&p.ID)
	if err != nil {
		return base.Classify("create person", err)
	}
	return nil
}

// GetByID returns the person, reading through the cache.
func (r *PersonRepository) GetByID(ctx context.Context, id int64) (model.Person, error) {
	return r.cache.Load(id, func() (model.Person, error) {
		var p model.Person
		query := `SELECT ` + personColumns + ` FROM people WHERE p_id = $1`
		if err := scanPerson(r.pool.QueryRow(ctx, query, id), &p); err != nil {
			return model.Person{}, base.Classify("get person by id", err)
		}
		return p, nil
	})
}

// GetByEmail looks the person up by email, case-insensitively. It bypasses the cache.
func (r *PersonRepository) GetByEmail(ctx context.Context, email string) (model.Person, error) {
	var p model.Person
	query := `SELECT ` + personColumns + ` FROM people WHERE LOWER(email) = LOWER($1)`
	if err := scanPerson(r.pool.QueryRow(ctx, query, email), &p); err != nil {
		return model.Person{}, base.Classify("get person by email", err)
	}
	return p, nil
}

// List returns all people.
func (r *PersonRepository) List(ctx context.Context) ([]model.Person, error) {
	return r.list(ctx, `SELECT `+personColumns+` FROM people ORDER BY name, p_id`)
}

// ListByType returns the people of one type, ordered by name.
func (r *PersonRepository) ListByType(ctx context.Context, t model.PersonType) ([]model.Person, error) {
	return r.list(ctx, `SELECT `+personColumns+` FROM people WHERE type = $1 ORDER BY name, p_id`, t)
}

func (r *PersonRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Person, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, base.Classify("list people", err)
	}
	defer rows.Close()

	people := []model.Person{}
	for rows.Next() {
		var p model.Person
		if err := scanPerson(rows, &p); err != nil {
			return nil, base.Classify("scan person", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Classify("list people", err)
	}
	return people, nil
}

// Update writes the set fields of upd and drops the cached person.
func (r *PersonRepository) Update(ctx context.Context, id int64, upd model.PersonUpdate) error {
	u := base.NewUpdate("people", "p_id")
	base.SetIf(u, "name", upd.Name)
	base.SetIf(u, "email", upd.Email)
	base.SetIf(u, "photo", upd.Photo)
	base.SetIf(u, "type", upd.Type)

	if err := base.ExecUpdate(ctx, r.pool, "update person", u, id); err != nil {
		return err
	}
	r.Invalidate(id)
	return nil
}

// SetPassword stores a new password hash.
func (r *PersonRepository) SetPassword(ctx context.Context, id int64, hash string) error {
	u := base.NewUpdate("people", "p_id").Set("password", hash)
	if err := base.ExecUpdate(ctx, r.pool, "set person password", u, id); err != nil {
		return err
	}
	r.Invalidate(id)
	return nil
}

// Delete removes the person and invalidates the caches that depended on it.
func (r *PersonRepository) Delete(ctx context.Context, id int64) error {
	if err := base.ExecDelete(ctx, r.pool, "delete person", "people", "p_id", id); err != nil {
		return fmt.Errorf("person %d: %w", id, err)
	}
	r.deleted(id)
	return nil
}
