package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
)

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// authForm backs the login and signup pages.
type authForm struct {
	Name   string
	Email  string
	Type   model.PersonType
	Types  []model.PersonType
	Error  string
	Fields map[string]string
}

var signupTypes = []model.PersonType{model.PersonTypeStudent, model.PersonTypeInstructor, model.PersonTypeAssistant}

func (s *server) registerPublic() {
	s.app.GET("/", s.index)
	s.app.GET("/healthz", s.healthz)
	s.app.GET("/login", s.loginForm)
	s.app.POST("/login", s.login)
	s.app.GET("/signup", s.signupForm)
	s.app.POST("/signup", s.signup)
	s.app.GET("/logout", s.logout)
}

func (s *server) index(c echo.Context) error {
	return c.Render(http.StatusOK, "index", newPage(c, "Home", nil))
}

func (s *server) healthz(c echo.Context) error {
	if s.opts.HealthCheck != nil {
		if err := s.opts.HealthCheck(c.Request().Context()); err != nil {
			s.logger.Warn("Health check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (s *server) loginForm(c echo.Context) error {
	if acc := currentAccount(c); acc != nil {
		return c.Redirect(http.StatusSeeOther, homeOf(acc.Type))
	}
	return c.Render(http.StatusOK, "login", newPage(c, "Log in", authForm{}))
}

func (s *server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	p, err := s.opts.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) && !wantsJSON(c) {
			form := authForm{Email: req.Email, Error: model.ErrInvalidCredentials.Error()}
			return c.Render(http.StatusUnauthorized, "login", newPage(c, "Log in", form))
		}
		return err
	}

	if err := s.startSession(c, p); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.logger.Info("Logged in", zap.Int64("person_id", p.ID), zap.String("type", string(p.Type)))

	if wantsJSON(c) {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "id": p.ID, "type": p.Type})
	}
	return c.Redirect(http.StatusSeeOther, homeOf(p.Type))
}

func (s *server) signupForm(c echo.Context) error {
	form := authForm{Type: model.PersonTypeStudent, Types: signupTypes}
	return c.Render(http.StatusOK, "signup", newPage(c, "Sign up", form))
}

func (s *server) signup(c echo.Context) error {
	var in model.NewPerson
	if err := c.Bind(&in); err != nil {
		return err
	}
	photo, err := s.savePhoto(c)
	if err != nil {
		return err
	}
	in.Photo = photo

	p, err := s.opts.Auth.Signup(c.Request().Context(), in)
	if err != nil {
		s.removePhoto(photo)

		var vErr *model.ValidationError
		if errors.As(err, &vErr) && !wantsJSON(c) {
			form := authForm{
				Name:   in.Name,
				Email:  in.Email,
				Type:   in.Type,
				Types:  signupTypes,
				Error:  "Please fix the highlighted fields.",
				Fields: vErr.FieldMap(),
			}
			return c.Render(http.StatusBadRequest, "signup", newPage(c, "Sign up", form))
		}
		return err
	}

	if err := s.startSession(c, p); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if wantsJSON(c) {
		return c.JSON(http.StatusCreated, p)
	}
	return c.Redirect(http.StatusSeeOther, homeOf(p.Type))
}

func (s *server) logout(c echo.Context) error {
	if err := s.endSession(c); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func homeOf(t model.PersonType) string {
	if t == model.PersonTypeAdmin {
		return "/su"
	}
	return "/lessons"
}
