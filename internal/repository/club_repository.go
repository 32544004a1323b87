package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository/base"
)

type ClubRepository struct {
	cached[model.Club]
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewClubRepository creates the club repository with a read-through cache of ttl.
func NewClubRepository(pool *pgxpool.Pool, ttl time.Duration, logger *zap.Logger) *ClubRepository {
	return &ClubRepository{
		cached: newCached[model.Club](ttl),
		pool:   pool,
		logger: logger,
	}
}

const clubColumns = `club_id, name, faculty, advisor, chairman, v_chairman_1, v_chairman_2`

func scanClub(row interface{ Scan(...interface{}) error }, c *model.Club) error {
	return row.Scan(&c.ID, &c.Name, &c.FacultyID, &c.AdvisorID, &c.ChairmanID, &c.ViceChairman1ID, &c.ViceChairman2ID)
}

// Create inserts the club and sets its ID.
func (r *ClubRepository) Create(ctx context.Context, c *model.Club) error {
	query := `
		INSERT INTO clubs (name, faculty, advisor, chairman, v_chairman_1, v_chairman_2)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING club_id
	`
	err := r.pool.QueryRow(ctx, query,
		c.Name,
		c.FacultyID,
		c.AdvisorID,
		c.ChairmanID,
		c.ViceChairman1ID,
		c.ViceChairman2ID,
	).Scan(&c.ID)
	if err != nil {
		return base.Classify("create club", err)
	}
	return nil
}

// GetByID returns the club with this ID, reading through the cache.
func (r *ClubRepository) GetByID(ctx context.Context, id int64) (model.Club, error) {
	return r.cache.Load(id, func() (model.Club, error) {
		var c model.Club
		if err := scanClub(r.pool.QueryRow(ctx, `SELECT `+clubColumns+` FROM clubs WHERE club_id = $1`, id), &c); err != nil {
			return model.Club{}, base.Classify("get club by id", err)
		}
		return c, nil
	})
}

// List returns all clubs.
func (r *ClubRepository) List(ctx context.Context) ([]model.Club, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clubColumns+` FROM clubs ORDER BY name, club_id`)
	if err != nil {
		return nil, base.Classify("list clubs", err)
	}
	defer rows.Close()

	clubs := []model.Club{}
	for rows.Next() {
		var c model.Club
		if err := scanClub(rows, &c); err != nil {
			return nil, base.Classify("scan club", err)
		}
		clubs = append(clubs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Classify("list clubs", err)
	}
	return clubs, nil
}

// Update writes the set fields of upd and drops the cached club.
func (r *ClubRepository) Update(ctx context.Context, id int64, upd model.ClubUpdate) error {
	u := base.NewUpdate("clubs", "club_id")
	base.SetIf(u, "name", upd.Name)
	base.SetIf(u, "faculty", upd.FacultyID)
	base.SetIf(u, "advisor", upd.AdvisorID)
	base.SetIf(u, "chairman", upd.ChairmanID)
	base.SetIf(u, "v_chairman_1", upd.ViceChairman1ID)
	base.SetIf(u, "v_chairman_2", upd.ViceChairman2ID)

	if err := base.ExecUpdate(ctx, r.pool, "update club", u, id); err != nil {
		return err
	}
	r.Invalidate(id)
	return nil
}

// Delete removes the club and invalidates the caches that depended on it.
func (r *ClubRepository) Delete(ctx context.Context, id int64) error {
	if err := base.ExecDelete(ctx, r.pool, "delete club", "clubs", "club_id", id); err != nil {
		return err
	}
	r.deleted(id)
	return nil
}
