package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betterthansis/unisis/internal/model"
)

func formContext(values url.Values) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestBindUpdate(t *testing.T) {
	c := formContext(url.Values{
		"name":      {" A102 "},
		"available": {"false"},
		"type":      {"lab"},
		"building":  {""},
	})

	var upd model.RoomUpdate
	require.NoError(t, bindUpdate(c, &upd))

	require.NotNil(t, upd.Name)
	assert.Equal(t, "A102", *upd.Name)
	require.NotNil(t, upd.Available)
	assert.False(t, *upd.Available)
	require.NotNil(t, upd.Kind)
	assert.Equal(t, model.RoomKindLab, *upd.Kind)
	assert.Nil(t, upd.BuildingID)
}

func TestBindUpdate_InvalidValue(t *testing.T) {
	var upd model.LessonUpdate
	err := bindUpdate(formContext(url.Values{"cap": {"ten"}}), &upd)

	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, map[string]string{"cap": "has an invalid value"}, vErr.FieldMap())
	assert.Nil(t, upd.Cap)
}

func TestFormFields(t *testing.T) {
	fields := formFields(reflect.TypeOf(model.NewPerson{}), false)

	byName := map[string]formField{}
	for _, f := range fields {
		byName[f.Name] = f
	}
	assert.Equal(t, "text", byName["name"].Input)
	assert.Equal(t, "email", byName["email"].Input)
	assert.Equal(t, "password", byName["password"].Input)
	assert.Equal(t, "select", byName["type"].Input)
	assert.Equal(t, []string{"student", "instructor", "assistant", "admin"}, byName["type"].Options)

	update := formFields(reflect.TypeOf(model.PaperUpdate{}), true)
	require.Len(t, update, 5)
	assert.Equal(t, "number", update[2].Input)
	assert.Equal(t, []string{"", "true", "false"}, update[4].Options)
}

func TestTableOf(t *testing.T) {
	author := int64(3)
	columns, rows := tableOf([]model.Person{
		{ID: 1, Name: "Ada", Email: "ada@uni.edu", PasswordHash: "secret", Type: model.PersonTypeStudent},
	})
	assert.Equal(t, []string{"id", "name", "email", "photo", "type"}, columns)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, []string{"1", "Ada", "ada@uni.edu", "", "student"}, rows[0].Cells)

	_, rows = tableOf([]model.Paper{
		{ID: 2, Title: "Raft", AuthorID: &author},
		{ID: 3, Title: "Paxos"},
	})
	assert.Equal(t, "3", rows[0].Cells[4])
	assert.Equal(t, "", rows[1].Cells[4])
}

func TestGroupByDate(t *testing.T) {
	days := groupByDate([]model.LessonInfo{
		{Lesson: model.Lesson{CRN: 3, Date: 2}},
		{Lesson: model.Lesson{CRN: 2, Date: 1}},
		{Lesson: model.Lesson{CRN: 1, Date: 2}},
	})

	require.Len(t, days, 2)
	assert.Equal(t, 1, days[0].Date)
	assert.Equal(t, 2, days[1].Date)
	require.Len(t, days[1].Lessons, 2)
	assert.Equal(t, 1, days[1].Lessons[0].CRN)

	assert.Empty(t, groupByDate(nil))
}
