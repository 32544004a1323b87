package web

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/betterthansis/unisis/internal/model"
)

var (
	personTypeType = reflect.TypeOf(model.PersonType(""))
	roomKindType   = reflect.TypeOf(model.RoomKind(""))
)

// bindUpdate fills the pointer fields of an update descriptor from the submitted form.
// A field is set only when its form value is present and not blank.
func bindUpdate(c echo.Context, dst interface{}) error {
	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form").SetInternal(err)
	}

	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get("form")
		if name == "" || f.Type.Kind() != reflect.Ptr {
			continue
		}
		raw := strings.TrimSpace(form.Get(name))
		if raw == "" {
			continue
		}

		ptr := reflect.New(f.Type.Elem())
		if err := setScalar(ptr.Elem(), raw); err != nil {
			return model.FieldValidationError(name, "has an invalid value")
		}
		v.Field(i).Set(ptr)
	}
	return nil
}

func setScalar(v reflect.Value, raw string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		v.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", v.Kind())
	}
	return nil
}

// formField describes one input of an admin form.
type formField struct {
	Name    string
	Input   string
	Options []string
}

// formFields lists the inputs of an input or update struct from its form tags.
func formFields(t reflect.Type, optional bool) []formField {
	fields := make([]formField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get("form")
		if name == "" || name == "-" {
			continue
		}

		ft := f.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}

		field := formField{Name: name, Input: "text"}
		switch {
		case ft == personTypeType:
			field.Input = "select"
			for _, pt := range model.PersonTypes {
				field.Options = append(field.Options, string(pt))
			}
		case ft == roomKindType:
			field.Input = "select"
			field.Options = []string{
				string(model.RoomKindClassroom), string(model.RoomKindLab), string(model.RoomKindRoom),
			}
		case ft.Kind() == reflect.Bool:
			field.Input = "select"
			field.Options = []string{"true", "false"}
		case ft.Kind() >= reflect.Int && ft.Kind() <= reflect.Int64:
			field.Input = "number"
		case name == "password":
			field.Input = "password"
		case name == "email" || name == "mail":
			field.Input = "email"
		}
		if optional && field.Options != nil {
			field.Options = append([]string{""}, field.Options...)
		}
		fields = append(fields, field)
	}
	return fields
}

// tableRow is one record of an admin listing, formatted for display.
type tableRow struct {
	ID    int64
	Cells []string
}

// tableOf formats records by their JSON field names. Fields tagged json:"-" are left out.
func tableOf[T any](items []T) ([]string, []tableRow) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	var columns []string
	var index []int
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name == "-" || !t.Field(i).IsExported() {
			continue
		}
		if name == "" {
			name = t.Field(i).Name
		}
		columns = append(columns, name)
		index = append(index, i)
	}

	rows := make([]tableRow, 0, len(items))
	for _, item := range items {
		v := reflect.ValueOf(item)
		row := tableRow{Cells: make([]string, 0, len(index))}
		if id := v.FieldByName("ID"); id.IsValid() && id.Kind() == reflect.Int64 {
			row.ID = id.Int()
		}
		for _, i := range index {
			row.Cells = append(row.Cells, display(v.Field(i)))
		}
		rows = append(rows, row)
	}
	return columns, rows
}

func display(v reflect.Value) string {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	return fmt.Sprint(v.Interface())
}
