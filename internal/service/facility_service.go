package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository/base"
	"github.com/betterthansis/unisis/internal/validation"
)

// FacilityService manages buildings, rooms, classrooms and labs.
type FacilityService struct {
	buildings  crud[model.Building, model.BuildingUpdate]
	rooms      crud[model.Room, model.RoomUpdate]
	classrooms crud[model.Classroom, model.ClassroomUpdate]
	labs       crud[model.Lab, model.LabUpdate]

	classroomStore ClassroomStore
	validate       *validation.Validator
	logger         *zap.Logger
}

// NewFacilityService creates the service for buildings, rooms, classrooms and labs.
func NewFacilityService(
	buildings crudStore[model.Building, model.BuildingUpdate],
	rooms crudStore[model.Room, model.RoomUpdate],
	classrooms ClassroomStore,
	labs crudStore[model.Lab, model.LabUpdate],
	validate *validation.Validator,
	logger *zap.Logger,
) *FacilityService {
	return &FacilityService{
		buildings:      newCrud[model.Building, model.BuildingUpdate]("building", buildings, validate, logger),
		rooms:          newCrud[model.Room, model.RoomUpdate]("room", rooms, validate, logger),
		classrooms:     newCrud[model.Classroom, model.ClassroomUpdate]("classroom", classrooms, validate, logger),
		labs:           newCrud[model.Lab, model.LabUpdate]("lab", labs, validate, logger),
		classroomStore: classrooms,
		validate:       validate,
		logger:         logger,
	}
}

// CreateBuilding stores a building.
func (s *FacilityService) CreateBuilding(ctx context.Context, in model.NewBuilding) (model.Building, error) {
	b := model.Building{Name: in.Name, Code: in.Code, Campus: in.Campus}
	if err := s.buildings.create(ctx, in, &b); err != nil {
		return model.Building{}, err
	}
	s.buildings.created(b.ID, zap.String("name", b.Name))
	return b, nil
}

func (s *FacilityService) GetBuilding(ctx context.Context, id int64) (model.Building, error) {
	return s.buildings.get(ctx, id)
}

func (s *FacilityService) ListBuildings(ctx context.Context) ([]model.Building, error) {
	return s.buildings.list(ctx)
}

func (s *FacilityService) UpdateBuilding(ctx context.Context, id int64, upd model.BuildingUpdate) error {
	return s.buildings.update(ctx, id, upd)
}

func (s *FacilityService) DeleteBuilding(ctx context.Context, id int64) error {
	return s.buildings.delete(ctx, id)
}

// CreateRoom stores a room whose flags follow the selected kind.
func (s *FacilityService) CreateRoom(ctx context.Context, in model.NewRoom) (model.Room, error) {
	rm := model.Room{
		BuildingID: base.NullID(in.BuildingID),
		Name:       in.Name,
		Available:  in.Available,
	}
	rm.SetKind(in.Kind)

	if err := s.rooms.create(ctx, in, &rm); err != nil {
		return model.Room{}, err
	}
	s.rooms.created(rm.ID, zap.String("name", rm.Name), zap.String("kind", string(rm.Kind())))
	return rm, nil
}

func (s *FacilityService) GetRoom(ctx context.Context, id int64) (model.Room, error) {
	return s.rooms.get(ctx, id)
}

func (s *FacilityService) ListRooms(ctx context.Context) ([]model.Room, error) {
	return s.rooms.list(ctx)
}

func (s *FacilityService) UpdateRoom(ctx context.Context, id int64, upd model.RoomUpdate) error {
	return s.rooms.update(ctx, id, upd)
}

func (s *FacilityService) DeleteRoom(ctx context.Context, id int64) error {
	return s.rooms.delete(ctx, id)
}

// CreateClassroom creates the room and its classroom row together.
func (s *FacilityService) CreateClassroom(ctx context.Context, in model.NewClassroom) (model.Classroom, error) {
	if err := s.validate.Struct(in); err != nil {
		return model.Classroom{}, err
	}

	rm := model.Room{
		BuildingID: base.NullID(in.BuildingID),
		Name:       in.Name,
		Available:  true,
	}
	c := model.Classroom{
		Cap:             in.Cap,
		Type:            in.Type,
		AirConditioner:  in.AirConditioner,
		LastRestoration: in.LastRestoration,
		BoardType:       in.BoardType,
	}
	if err := s.classroomStore.CreateWithRoom(ctx, &rm, &c); err != nil {
		return model.Classroom{}, fmt.Errorf("create classroom: %w", err)
	}

	s.classrooms.created(c.ID, zap.String("room_name", c.RoomName), zap.Int("cap", c.Cap))
	return c, nil
}

func (s *FacilityService) GetClassroom(ctx context.Context, id int64) (model.Classroom, error) {
	return s.classrooms.get(ctx, id)
}

func (s *FacilityService) ListClassrooms(ctx context.Context) ([]model.Classroom, error) {
	return s.classrooms.list(ctx)
}

func (s *FacilityService) UpdateClassroom(ctx context.Context, id int64, upd model.ClassroomUpdate) error {
	return s.classrooms.update(ctx, id, upd)
}

func (s *FacilityService) DeleteClassroom(ctx context.Context, id int64) error {
	return s.classrooms.delete(ctx, id)
}

func (s *FacilityService) CreateLab(ctx context.Context, in model.NewLab) (model.Lab, error) {
	l := model.Lab{
		Name:           in.Name,
		DepartmentID:   base.NullID(in.DepartmentID),
		FacultyID:      base.NullID(in.FacultyID),
		BuildingID:     base.NullID(in.BuildingID),
		RoomID:         base.NullID(in.RoomID),
		InvestigatorID: in.InvestigatorID,
	}
	if err := s.labs.create(ctx, in, &l); err != nil {
		return model.Lab{}, err
	}
	s.labs.created(l.ID, zap.String("name", l.Name))
	return l, nil
}

func (s *FacilityService) GetLab(ctx context.Context, id int64) (model.Lab, error) {
	return s.labs.get(ctx, id)
}

func (s *FacilityService) ListLabs(ctx context.Context) ([]model.Lab, error) {
	return s.labs.list(ctx)
}

func (s *FacilityService) UpdateLab(ctx context.Context, id int64, upd model.LabUpdate) error {
	return s.labs.update(ctx, id, upd)
}

func (s *FacilityService) DeleteLab(ctx context.Context, id int64) error {
	return s.labs.delete(ctx, id)
}
