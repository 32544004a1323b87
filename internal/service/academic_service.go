package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository/base"
	"github.com/betterthansis/unisis/internal/validation"
)

// AcademicService manages faculties, departments, clubs and papers.
type AcademicService struct {
	faculties   crud[model.Faculty, model.FacultyUpdate]
	departments crud[model.Department, model.DepartmentUpdate]
	clubs       crud[model.Club, model.ClubUpdate]
	papers      crud[model.Paper, model.PaperUpdate]
}

// NewAcademicService creates the service for faculties, departments, clubs and papers.
func NewAcademicService(
	faculties crudStore[model.Faculty, model.FacultyUpdate],
	departments crudStore[model.Department, model.DepartmentUpdate],
	clubs crudStore[model.Club, model.ClubUpdate],
	papers crudStore[model.Paper, model.PaperUpdate],
	validate *validation.Validator,
	logger *zap.Logger,
) *AcademicService {
	return &AcademicService{
		faculties:   newCrud[model.Faculty, model.FacultyUpdate]("faculty", faculties, validate, logger),
		departments: newCrud[model.Department, model.DepartmentUpdate]("department", departments, validate, logger),
		clubs:       newCrud[model.Club, model.ClubUpdate]("club", clubs, validate, logger),
		papers:      newCrud[model.Paper, model.PaperUpdate]("paper", papers, validate, logger),
	}
}

// CreateFaculty stores a faculty. Its dean and first dean assistant are required.
func (s *AcademicService) CreateFaculty(ctx context.Context, in model.NewFaculty) (model.Faculty, error) {
	f := model.Faculty{
		Name:        in.Name,
		BuildingID:  base.NullID(in.BuildingID),
		DeanID:      in.DeanID,
		DeanAsst1ID: in.DeanAsst1ID,
		DeanAsst2ID: base.NullID(in.DeanAsst2ID),
	}
	if err := s.faculties.create(ctx, in, &f); err != nil {
		return model.Faculty{}, err
	}
	s.faculties.created(f.ID, zap.String("name", f.Name))
	return f, nil
}

func (s *AcademicService) GetFaculty(ctx context.Context, id int64) (model.Faculty, error) {
	return s.faculties.get(ctx, id)
}

func (s *AcademicService) ListFaculties(ctx context.Context) ([]model.Faculty, error) {
	return s.faculties.list(ctx)
}

func (s *AcademicService) UpdateFaculty(ctx context.Context, id int64, upd model.FacultyUpdate) error {
	return s.faculties.update(ctx, id, upd)
}

func (s *AcademicService) DeleteFaculty(ctx context.Context, id int64) error {
	return s.faculties.delete(ctx, id)
}

// CreateDepartment stores a department.
func (s *AcademicService) CreateDepartment(ctx context.Context, in model.NewDepartment) (model.Department, error) {
	d := model.Department{
		Name:       in.Name,
		FacultyID:  base.NullID(in.FacultyID),
		BuildingID: base.NullID(in.BuildingID),
		DeanID:     base.NullID(in.DeanID),
	}
	if err := s.departments.create(ctx, in, &d); err != nil {
		return model.Department{}, err
	}
	s.departments.created(d.ID, zap.String("name", d.Name))
	return d, nil
}

func (s *AcademicService) GetDepartment(ctx context.Context, id int64) (model.Department, error) {
	return s.departments.get(ctx, id)
}

func (s *AcademicService) ListDepartments(ctx context.Context) ([]model.Department, error) {
	return s.departments.list(ctx)
}

func (s *AcademicService) UpdateDepartment(ctx context.Context, id int64, upd model.DepartmentUpdate) error {
	return s.departments.update(ctx, id, upd)
}

func (s *AcademicService) DeleteDepartment(ctx context.Context, id int64) error {
	return s.departments.delete(ctx, id)
}

func (s *AcademicService) CreateClub(ctx context.Context, in model.NewClub) (model.Club, error) {
	c := model.Club{
		Name:            in.Name,
		FacultyID:       base.NullID(in.FacultyID),
		AdvisorID:       base.NullID(in.AdvisorID),
		ChairmanID:      base.NullID(in.ChairmanID),
		ViceChairman1ID: base.NullID(in.ViceChairman1ID),
		ViceChairman2ID: base.NullID(in.ViceChairman2ID),
	}
	if err := s.clubs.create(ctx, in, &c); err != nil {
		return model.Club{}, err
	}
	s.clubs.created(c.ID, zap.String("name", c.Name))
	return c, nil
}

func (s *AcademicService) GetClub(ctx context.Context, id int64) (model.Club, error) {
	return s.clubs.get(ctx, id)
}

func (s *AcademicService) ListClubs(ctx context.Context) ([]model.Club, error) {
	return s.clubs.list(ctx)
}

func (s *AcademicService) UpdateClub(ctx context.Context, id int64, upd model.ClubUpdate) error {
	return s.clubs.update(ctx, id, upd)
}

func (s *AcademicService) DeleteClub(ctx context.Context, id int64) error {
	return s.clubs.delete(ctx, id)
}

// CreatePaper stores a paper.
func (s *AcademicService) CreatePaper(ctx context.Context, in model.NewPaper) (model.Paper, error) {
	p := model.Paper{
		Title:         in.Title,
		Platform:      in.Platform,
		CitationCount: in.CitationCount,
		AuthorID:      base.NullID(in.AuthorID),
		Conference:    in.Conference,
	}
	if err := s.papers.create(ctx, in, &p); err != nil {
		return model.Paper{}, err
	}
	s.papers.created(p.ID, zap.String("title", p.Title))
	return p, nil
}

func (s *AcademicService) GetPaper(ctx context.Context, id int64) (model.Paper, error) {
	return s.papers.get(ctx, id)
}

func (s *AcademicService) ListPapers(ctx context.Context) ([]model.Paper, error) {
	return s.papers.list(ctx)
}

func (s *AcademicService) UpdatePaper(ctx context.Context, id int64, upd model.PaperUpdate) error {
	return s.papers.update(ctx, id, upd)
}

func (s *AcademicService) DeletePaper(ctx context.Context, id int64) error {
	return s.papers.delete(ctx, id)
}
