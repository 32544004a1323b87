package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository/base"
)

type InstructorRepository struct {
	cached[model.Instructor]
	pool   *pgxpool.Pool
	tx     *base.Transactor
	logger *zap.Logger
}

// NewInstructorRepository creates the instructor repository with a read-through cache of ttl.
func NewInstructorRepository(pool *pgxpool.Pool, ttl time.Duration, logger *zap.Logger) *InstructorRepository {
	return &InstructorRepository{
		cached: newCached[model.Instructor](ttl),
		pool:   pool,
		tx:     base.NewTransactor(pool),
		logger: logger,
	}
}

const instructorSelect = `
	SELECT i.ins_id, p.name, p.email, i.bachelors, i.masters, i.doctorates,
	       i.department, i.room, i.lab
	FROM instructors i
	JOIN people p ON p.p_id = i.ins_id
`

func scanInstructor(row interface{ Scan(...interface{}) error }, ins *model.Instructor) error {
	return row.Scan(
		&ins.ID,
		&ins.Name,
		&ins.Email,
		&ins.Bachelors,
		&ins.Masters,
		&ins.Doctorates,
		&ins.DepartmentID,
		&ins.RoomID,
		&ins.LabID,
	)
}

// Create adds the instructor profile of an existing person. ins.ID must be the person id.
func (r *InstructorRepository) Create(ctx context.Context, ins *model.Instructor) error {
	return insertInstructor(ctx, r.pool, ins)
}

// CreateWithPerson inserts the person and the instructor profile in one transaction.
func (r *InstructorRepository) CreateWithPerson(ctx context.Context, p *model.Person, ins *model.Instructor) error {
	err := r.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := insertPerson(ctx, tx, p); err != nil {
			return err
		}
		ins.ID = p.ID
		return insertInstructor(ctx, tx, ins)
	})
	if err != nil {
		r.logger.Error("Failed to create instructor",
			zap.String("email", p.Email),
			zap.Error(err))
		return fmt.Errorf("create instructor with person: %w", err)
	}
	ins.Name = p.Name
	ins.Email = p.Email
	return nil
}

func insertInstructor(ctx context.Context, db base.DBTX, ins *model.Instructor) error {
	query := `
		INSERT INTO instructors (ins_id, bachelors, masters, doctorates, department, room, lab)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := db.Exec(ctx, query,
		ins.ID,
		ins.Bachelors,
		ins.Masters,
		ins.Doctorates,
		ins.DepartmentID,
		ins.RoomID,
		ins.LabID,
	)
	return base.Classify("create instructor", err)
}

// GetByID returns the instructor with this ID, reading through the cache.
func (r *InstructorRepository) GetByID(ctx context.Context, id int64) (model.Instructor, error) {
	return r.cache.Load(id, func() (model.Instructor, error) {
		var ins model.Instructor
		if err := scanInstructor(r.pool.QueryRow(ctx, instructorSelect+` WHERE i.ins_id = $1`, id), &ins); err != nil {
			return model.Instructor{}, base.Classify("get instructor by id", err)
		}
		return ins, nil
	})
}

// List returns all instructors.
func (r *InstructorRepository) List(ctx context.Context) ([]model.Instructor, error) {
	rows, err := r.pool.Query(ctx, instructorSelect+` ORDER BY p.name, i.ins_id`)
	if err != nil {
		return nil, base.Classify("list instructors", err)
	}
	defer rows.Close()

	instructors := []model.Instructor{}
	for rows.Next() {
		var ins model.Instructor
		if err := scanInstructor(rows, &ins); err != nil {
			return nil, base.Classify("scan instructor", err)
		}
		instructors = append(instructors, ins)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Classify("list instructors", err)
	}
	return instructors, nil
}

// Update writes the set fields of upd and drops the cached instructor.
func (r *InstructorRepository) Update(ctx context.Context, id int64, upd model.InstructorUpdate) error {
	u := base.NewUpdate("instructors", "ins_id")
	base.SetIf(u, "bachelors", upd.Bachelors)
	base.SetIf(u, "masters", upd.Masters)
	base.SetIf(u, "doctorates", upd.Doctorates)
	base.SetIf(u, "department", upd.DepartmentID)
	base.SetIf(u, "room", upd.RoomID)
	base.SetIf(u, "lab", upd.LabID)

	if err := base.ExecUpdate(ctx, r.pool, "update instructor", u, id); err != nil {
		return err
	}
	r.Invalidate(id)
	return nil
}

// Delete removes the instructor profile. The person stays.
func (r *InstructorRepository) Delete(ctx context.Context, id int64) error {
	if err := base.ExecDelete(ctx, r.pool, "delete instructor", "instructors", "ins_id", id); err != nil {
		return err
	}
	r.deleted(id)
	return nil
}
