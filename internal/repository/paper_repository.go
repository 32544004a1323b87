package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository/base"
)

type PaperRepository struct {
	cached[model.Paper]
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPaperRepository creates the paper repository with a read-through cache of ttl.
func NewPaperRepository(pool *pgxpool.Pool, ttl time.Duration, logger *zap.Logger) *PaperRepository {
	return &PaperRepository{
		cached: newCached[model.Paper](ttl),
		pool:   pool,
		logger: logger,
	}
}

const paperColumns = `paper_id, title, plat, citation_count, author, conference`

func scanPaper(row interface{ Scan(...interface{}) error }, p *model.Paper) error {
	return row.Scan(&p.ID, &p.Title, &p.Platform, &p.CitationCount, &p.AuthorID, &p.Conference)
}

// Create inserts the paper and sets its ID.
func (r *PaperRepository) Create(ctx context.Context, p *model.Paper) error {
	query := `
		INSERT INTO papers (title, plat, citation_count, author, conference)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING paper_id
	`
	err := r.pool.QueryRow(ctx, query, p.Title, p.Platform, p.CitationCount, p.AuthorID, p.Conference).Scan(&p.ID)
	if err != nil {
		return base.Classify("create paper", err)
	}
	return nil
}

// GetByID returns the paper with this ID, reading through the cache.
func (r *PaperRepository) GetByID(ctx context.Context, id int64) (model.Paper, error) {
	return r.cache.Load(id, func() (model.Paper, error) {
		var p model.Paper
		if err := scanPaper(r.pool.QueryRow(ctx, `SELECT `+paperColumns+` FROM papers WHERE paper_id = $1`, id), &p); err != nil {
			return model.Paper{}, base.Classify("get paper by id", err)
		}
		return p, nil
	})
}

// List returns papers, most cited first.
func (r *PaperRepository) List(ctx context.Context) ([]model.Paper, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+paperColumns+` FROM papers ORDER BY citation_count DESC, paper_id`)
	if err != nil {
		return nil, base.Classify("list papers", err)
	}
	defer rows.Close()

	papers := []model.Paper{}
	for rows.Next() {
		var p model.Paper
		if err := scanPaper(rows, &p); err != nil {
			return nil, base.Classify("scan paper", err)
		}
		papers = append(papers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Classify("list papers", err)
	}
	return papers, nil
}

// Update writes the set fields of upd and drops the cached paper.
func (r *PaperRepository) Update(ctx context.Context, id int64, upd model.PaperUpdate) error {
	u := base.NewUpdate("papers", "paper_id")
	base.SetIf(u, "title", upd.Title)
	base.SetIf(u, "plat", upd.Platform)
	base.SetIf(u, "citation_count", upd.CitationCount)
	base.SetIf(u, "author", upd.AuthorID)
	base.SetIf(u, "conference", upd.Conference)

	if err := base.ExecUpdate(ctx, r.pool, "update paper", u, id); err != nil {
		return err
	}
	r.Invalidate(id)
	return nil
}

// Delete removes the paper and invalidates the caches that depended on it.
func (r *PaperRepository) Delete(ctx context.Context, id int64) error {
	if err := base.ExecDelete(ctx, r.pool, "delete paper", "papers", "paper_id", id); err != nil {
		return err
	}
	r.deleted(id)
	return nil
}
