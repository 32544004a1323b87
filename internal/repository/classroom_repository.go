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

// ClassroomRepository manages the classes table. A classroom shares its id with its room.
type ClassroomRepository struct {
	cached[model.Classroom]
	pool   *pgxpool.Pool
	tx     *base.Transactor
	rooms  *RoomRepository
	logger *zap.Logger
}

// NewClassroomRepository creates the classroom repository with a read-through cache of ttl.
func NewClassroomRepository(pool *pgxpool.Pool, ttl time.Duration, logger *zap.Logger) *ClassroomRepository {
	return &ClassroomRepository{
		cached: newCached[model.Classroom](ttl),
		pool:   pool,
		tx:     base.NewTransactor(pool),
		logger: logger,
	}
}

const classroomSelect = `
	SELECT c.cl_id, c.cap, c.type, c.air_conditioner, c.last_restoration, c.board_type,
	       r.room_name, r.building
	FROM classes c
	JOIN rooms r ON r.room_id = c.cl_id
`

func scanClassroom(row interface{ Scan(...interface{}) error }, c *model.Classroom) error {
	return row.Scan(
		&c.ID,
		&c.Cap,
		&c.Type,
		&c.AirConditioner,
		&c.LastRestoration,
		&c.BoardType,
		&c.RoomName,
		&c.BuildingID,
	)
}

// Create adds the classroom row for an existing room. c.ID must be the room id.
func (r *ClassroomRepository) Create(ctx context.Context, c *model.Classroom) error {
	err := r.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := insertClassroom(ctx, tx, c); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE rooms SET class = TRUE, lab = FALSE, room = FALSE WHERE room_id = $1`, c.ID)
		return base.Classify("flag room as classroom", err)
	})
	if err != nil {
		return err
	}
	r.invalidateRoom(c.ID)
	return nil
}

// CreateWithRoom inserts the room and its classroom row in one transaction and sets both ids.
func (r *ClassroomRepository) CreateWithRoom(ctx context.Context, rm *model.Room, c *model.Classroom) error {
	rm.SetKind(model.RoomKindClassroom)

	err := r.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := insertRoom(ctx, tx, rm); err != nil {
			return err
		}
		c.ID = rm.ID
		return insertClassroom(ctx, tx, c)
	})
	if err != nil {
		r.logger.Error("Failed to create classroom",
			zap.String("room_name", rm.Name),
			zap.Error(err))
		return fmt.Errorf("create classroom with room: %w", err)
	}
	c.RoomName = rm.Name
	c.BuildingID = rm.BuildingID
	return nil
}

func insertClassroom(ctx context.Context, db base.DBTX, c *model.Classroom) error {
	query := `
		INSERT INTO classes (cl_id, cap, type, air_conditioner, last_restoration, board_type)
		VALUES ($1, $2, COALESCE(NULLIF($3, ''), 'Lecture'), $4, $5, COALESCE(NULLIF($6, ''), 'Mixed'))
		RETURNING type, board_type
	`
	err := db.QueryRow(ctx, query,
		c.ID,
		c.Cap,
		c.Type,
		c.AirConditioner,
		c.LastRestoration,
		c.BoardType,
	).Scan(&c.Type, &c.BoardType)
	if err != nil {
		return base.Classify("create classroom", err)
	}
	return nil
}

// GetByID returns the classroom with this ID, reading through the cache.
func (r *ClassroomRepository) GetByID(ctx context.Context, id int64) (model.Classroom, error) {
	return r.cache.Load(id, func() (model.Classroom, error) {
		var c model.Classroom
		if err := scanClassroom(r.pool.QueryRow(ctx, classroomSelect+` WHERE c.cl_id = $1`, id), &c); err != nil {
			return model.Classroom{}, base.Classify("get classroom by id", err)
		}
		return c, nil
	})
}

// List returns all classrooms.
func (r *ClassroomRepository) List(ctx context.Context) ([]model.Classroom, error) {
	rows, err := r.pool.Query(ctx, classroomSelect+` ORDER BY r.room_name`)
	if err != nil {
		return nil, base.Classify("list classrooms", err)
	}
	defer rows.Close()

	classrooms := []model.Classroom{}
	for rows.Next() {
		var c model.Classroom
		if err := scanClassroom(rows, &c); err != nil {
			return nil, base.Classify("scan classroom", err)
		}
		classrooms = append(classrooms, c)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Classify("list classrooms", err)
	}
	return classrooms, nil
}

// Update writes the set fields of upd and drops the cached classroom.
func (r *ClassroomRepository) Update(ctx context.Context, id int64, upd model.ClassroomUpdate) error {
	u := base.NewUpdate("classes", "cl_id")
	base.SetIf(u, "cap", upd.Cap)
	base.SetIf(u, "type", upd.Type)
	base.SetIf(u, "air_conditioner", upd.AirConditioner)
	base.SetIf(u, "last_restoration", upd.LastRestoration)
	base.SetIf(u, "board_type", upd.BoardType)

	if err := base.ExecUpdate(ctx, r.pool, "update classroom", u, id); err != nil {
		return err
	}
	r.Invalidate(id)
	return nil
}

// Delete removes the classroom row and turns the room back into a plain room.
func (r *ClassroomRepository) Delete(ctx context.Context, id int64) error {
	err := r.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := base.ExecDelete(ctx, tx, "delete classroom", "classes", "cl_id", id); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE rooms SET class = FALSE, room = TRUE WHERE room_id = $1`, id)
		return base.Classify("unflag classroom room", err)
	})
	if err != nil {
		return err
	}
	r.deleted(id)
	r.invalidateRoom(id)
	return nil
}

func (r *ClassroomRepository) invalidateRoom(id int64) {
	if r.rooms != nil {
		r.rooms.cache.Delete(id)
	}
}
