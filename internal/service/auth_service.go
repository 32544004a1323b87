package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/validation"
)

type AuthService struct {
	people   PersonStore
	validate *validation.Validator
	logger   *zap.Logger
}

// NewAuthService creates the account service.
func NewAuthService(people PersonStore, validate *validation.Validator, logger *zap.Logger) *AuthService {
	return &AuthService{
		people:   people,
		validate: validate,
		logger:   logger,
	}
}

// Signup registers a new account. Admin accounts cannot be self-registered.
func (s *AuthService) Signup(ctx context.Context, in model.NewPerson) (model.Person, error) {
	if in.Type == model.PersonTypeAdmin {
		return model.Person{}, model.FieldValidationError("type", "admin accounts cannot sign up")
	}
	p, err := s.register(ctx, in)
	if err != nil {
		return model.Person{}, err
	}

	s.logger.Info("Account signed up",
		zap.Int64("person_id", p.ID),
		zap.String("email", p.Email),
		zap.String("type", string(p.Type)))
	return p, nil
}

// CreateAdmin registers an admin account. Used by the admin CLI.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (model.Person, error) {
	p, err := s.register(ctx, model.NewPerson{
		Name:     name,
		Email:    email,
		Password: password,
		Type:     model.PersonTypeAdmin,
	})
	if err != nil {
		return model.Person{}, err
	}

	s.logger.Info("Admin account created",
		zap.Int64("person_id", p.ID),
		zap.String("email", p.Email))
	return p, nil
}

func (s *AuthService) register(ctx context.Context, in model.NewPerson) (model.Person, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return model.Person{}, err
	}

	_, err := s.people.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return model.Person{}, emailTaken()
	case !errors.Is(err, model.ErrNotFound):
		return model.Person{}, fmt.Errorf("check email: %w", err)
	}

	p := model.Person{
		Name:  in.Name,
		Email: in.Email,
		Photo: in.Photo,
		Type:  in.Type,
	}
	if err := p.SetPassword(in.Password); err != nil {
		return model.Person{}, fmt.Errorf("hash password: %w", err)
	}

	if err := s.people.Create(ctx, &p); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return model.Person{}, emailTaken()
		}
		return model.Person{}, fmt.Errorf("create person: %w", err)
	}
	return p, nil
}

func emailTaken() *model.ValidationError {
	return model.FieldValidationError("email", "is already registered")
}

// Login returns the person whose email and password match.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.Person, error) {
	p, err := s.people.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Person{}, model.ErrInvalidCredentials
		}
		return model.Person{}, fmt.Errorf("get person by email: %w", err)
	}

	if err := p.CheckPassword(password); err != nil {
		s.logger.Info("Failed login attempt", zap.Int64("person_id", p.ID))
		return model.Person{}, model.ErrInvalidCredentials
	}
	return p, nil
}

// Account returns the person behind a session, reading through the people cache so
// role changes and deletions apply to sessions already issued.
func (s *AuthService) Account(ctx context.Context, personID int64) (model.Person, error) {
	p, err := s.people.GetByID(ctx, personID)
	if err != nil {
		return model.Person{}, fmt.Errorf("get account %d: %w", personID, err)
	}
	return p, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, personID int64, current, next string) error {
	p, err := s.people.GetByID(ctx, personID)
	if err != nil {
		return fmt.Errorf("get person: %w", err)
	}
	if err := p.CheckPassword(current); err != nil {
		return model.FieldValidationError("current_password", "is incorrect")
	}
	if len(next) < 6 || len(next) > 72 {
		return model.FieldValidationError("new_password", "must be between 6 and 72 characters")
	}

	if err := p.SetPassword(next); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.people.SetPassword(ctx, personID, p.PasswordHash); err != nil {
		return fmt.Errorf("set password: %w", err)
	}

	s.logger.Info("Password changed", zap.Int64("person_id", personID))
	return nil
}
