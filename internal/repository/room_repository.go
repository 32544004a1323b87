package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository/base"
)

type RoomRepository struct {
	cached[model.Room]
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewRoomRepository creates the room repository with a read-through cache of ttl.
func NewRoomRepository(pool *pgxpool.Pool, ttl time.Duration, logger *zap.Logger) *RoomRepository {
	return &RoomRepository{
		cached: newCached[model.Room](ttl),
		pool:   pool,
		logger: logger,
	}
}

const roomColumns = `room_id, building, room_name, available, class, lab, room`

func scanRoom(row interface{ Scan(...interface{}) error }, rm *model.Room) error {
	return row.Scan(&rm.ID, &rm.BuildingID, &rm.Name, &rm.Available, &rm.IsClassroom, &rm.IsLab, &rm.IsRoom)
}

// Create inserts the room and sets its ID.
func (r *RoomRepository) Create(ctx context.Context, rm *model.Room) error {
	return insertRoom(ctx, r.pool, rm)
}

func insertRoom(ctx context.Context, db base.DBTX, rm *model.Room) error {
	query := `
		INSERT INTO rooms (building, room_name, available, class, lab, room)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING room_id
	`
	err := db.QueryRow(ctx, query,
		rm.BuildingID,
		rm.Name,
		rm.Available,
		rm.IsClassroom,
		rm.IsLab,
		rm.IsRoom,
	).Scan(&rm.ID)
	if err != nil {
		return base.Classify("create room", err)
	}
	return nil
}

// GetByID returns the room, reading through the cache.
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (model.Room, error) {
	return r.cache.Load(id, func() (model.Room, error) {
		var rm model.Room
		if err := scanRoom(r.pool.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE room_id = $1`, id), &rm); err != nil {
			return model.Room{}, base.Classify("get room by id", err)
		}
		return rm, nil
	})
}

// List returns all rooms.
func (r *RoomRepository) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY room_name`)
	if err != nil {
		return nil, base.Classify("list rooms", err)
	}
	defer rows.Close()

	rooms := []model.Room{}
	for rows.Next() {
		var rm model.Room
		if err := scanRoom(rows, &rm); err != nil {
			return nil, base.Classify("scan room", err)
		}
		rooms = append(rooms, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Classify("list rooms", err)
	}
	return rooms, nil
}

// Update writes the set fields. Changing the kind rewrites all three flags.
func (r *RoomRepository) Update(ctx context.Context, id int64, upd model.RoomUpdate) error {
	u := base.NewUpdate("rooms", "room_id")
	base.SetIf(u, "building", upd.BuildingID)
	base.SetIf(u, "room_name", upd.Name)
	base.SetIf(u, "available", upd.Available)
	if upd.Kind != nil {
		class, lab, room := upd.Kind.Flags()
		u.Set("class", class).Set("lab", lab).Set("room", room)
	}

	if err := base.ExecUpdate(ctx, r.pool, "update room", u, id); err != nil {
		return err
	}
	r.Invalidate(id)
	return nil
}

// Delete removes the room and, by cascade, its classroom row.
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	if err := base.ExecDelete(ctx, r.pool, "delete room", "rooms", "room_id", id); err != nil {
		return err
	}
	r.deleted(id)
	r.logger.Debug("Room cache entries dropped", zap.Int64("room_id", id))
	return nil
}
