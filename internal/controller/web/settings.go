package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/betterthansis/unisis/internal/model"
)

type passwordRequest struct {
	Current string `form:"current_password" json:"current_password"`
	New     string `form:"new_password" json:"new_password"`
	Confirm string `form:"confirm_password" json:"confirm_password"`
}

type settingsPage struct {
	Changed bool
	Fields  map[string]string
}

func (s *server) registerSettings() {
	s.app.GET("/settings", s.settings, requireLogin)
	s.app.POST("/settings/password", s.changePassword, requireLogin)
}

func (s *server) settings(c echo.Context) error {
	data := settingsPage{Changed: c.QueryParam("changed") == "1"}
	return c.Render(http.StatusOK, "settings", newPage(c, "Settings", data))
}

func (s *server) changePassword(c echo.Context) error {
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	err := s.updatePassword(c, req)
	if err != nil {
		var vErr *model.ValidationError
		if errors.As(err, &vErr) && !wantsJSON(c) {
			data := settingsPage{Fields: vErr.FieldMap()}
			return c.Render(http.StatusBadRequest, "settings", newPage(c, "Settings", data))
		}
		return err
	}

	if wantsJSON(c) {
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	}
	return c.Redirect(http.StatusSeeOther, "/settings?changed=1")
}

func (s *server) updatePassword(c echo.Context, req passwordRequest) error {
	if req.New != req.Confirm {
		return model.FieldValidationError("confirm_password", "does not match the new password")
	}
	return s.opts.Auth.ChangePassword(c.Request().Context(), currentAccount(c).ID, req.Current, req.New)
}
