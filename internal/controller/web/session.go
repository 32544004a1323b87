package web

import (
	"errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
)

const (
	sessionName = "unisis-session"
	accountKey  = "account"
)

// account is the signed-in person. Only the person id lives in the cookie; the rest is
// read from the store on every request.
type account struct {
	ID    int64
	Name  string
	Type  model.PersonType
	Admin bool
}

func (a *account) is(types ...model.PersonType) bool {
	for _, t := range types {
		if a.Type == t {
			return true
		}
	}
	return false
}

// loadAccount reads the session cookie and puts the account, if any, into the context.
func (s *server) loadAccount(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := s.sessions.Get(c.Request(), sessionName)
		if err != nil {
			// tampered or signed with an old key; treat as logged out
			s.logger.Debug("Discarding unreadable session", zap.Error(err))
			return next(c)
		}

		id, ok := sess.Values["person_id"].(int64)
		if !ok || id == 0 {
			return next(c)
		}

		p, err := s.opts.Auth.Account(c.Request().Context(), id)
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Info("Session of a removed account", zap.Int64("person_id", id))
			return next(c)
		}
		if err != nil {
			return err
		}

		c.Set(accountKey, &account{
			ID:    p.ID,
			Name:  p.Name,
			Type:  p.Type,
			Admin: p.IsAdmin(),
		})
		return next(c)
	}
}

func currentAccount(c echo.Context) *account {
	acc, _ := c.Get(accountKey).(*account)
	return acc
}

func (s *server) startSession(c echo.Context, p model.Person) error {
	sess, _ := s.sessions.Get(c.Request(), sessionName)
	sess.Values["person_id"] = p.ID
	return sess.Save(c.Request(), c.Response())
}

func (s *server) endSession(c echo.Context) error {
	sess, _ := s.sessions.Get(c.Request(), sessionName)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}
