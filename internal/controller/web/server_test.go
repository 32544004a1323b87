package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/service"
	"github.com/betterthansis/unisis/internal/validation"
)

var (
	ada   = model.Person{ID: 10, Name: "Ada", Email: "ada@uni.edu", Type: model.PersonTypeStudent}
	grace = model.Person{ID: 20, Name: "Grace", Email: "grace@uni.edu", Type: model.PersonTypeInstructor}
	root  = model.Person{ID: 1, Name: "Root", Email: "root@uni.edu", Type: model.PersonTypeAdmin}
)

type fixture struct {
	srv         Server
	auth        *fakeAuth
	enrollments *fakeEnrollments
	lessons     *fakeLessons
	papers      *paperStore
	photoDir    string
	healthErr   error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		auth:        newFakeAuth(ada, grace, root),
		enrollments: &fakeEnrollments{lesson: model.Lesson{CRN: 21001, Cap: 2}},
		lessons:     &fakeLessons{},
		papers:      newPaperStore(model.Paper{ID: 1, Title: "Paxos Made Simple", CitationCount: 3}),
		photoDir:    t.TempDir(),
	}
	v := validation.New()
	f.srv = NewServer(&Options{
		SessionSecret:  []byte("0123456789abcdef0123456789abcdef"),
		DisableReqLogs: true,
		PhotoDir:       f.photoDir,
		HealthCheck:    func(context.Context) error { return f.healthErr },
		Auth:           f.auth,
		Enrollments:    f.enrollments,
		Lessons:        f.lessons,
		Academics:      service.NewAcademicService(nil, nil, nil, f.papers, v, zap.NewNop()),
		Validator:      v,
		Logger:         zap.NewNop(),
	})
	return f
}

type request struct {
	method  string
	path    string
	form    url.Values
	json    bool
	cookies []*http.Cookie
}

func (f *fixture) do(r request) *httptest.ResponseRecorder {
	var req *http.Request
	if r.form != nil {
		req = httptest.NewRequest(r.method, r.path, strings.NewReader(r.form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(r.method, r.path, nil)
	}
	if r.json {
		req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) login(t *testing.T, p model.Person) []*http.Cookie {
	t.Helper()
	rec := f.do(request{
		method: http.MethodPost,
		path:   "/login",
		form:   url.Values{"email": {p.Email}, "password": {"secret1"}},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{method: http.MethodGet, path: "/healthz"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	f.healthErr = model.ErrStoreUnavailable
	rec = f.do(request{method: http.MethodGet, path: "/healthz"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		person   model.Person
		location string
	}{
		{ada, "/lessons"},
		{grace, "/lessons"},
		{root, "/su"},
	}
	for _, tt := range tests {
		t.Run(string(tt.person.Type), func(t *testing.T) {
			rec := f.do(request{
				method: http.MethodPost,
				path:   "/login",
				form:   url.Values{"email": {tt.person.Email}, "password": {"secret1"}},
			})
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get(echo.HeaderLocation))
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{
		method: http.MethodPost,
		path:   "/login",
		form:   url.Values{"email": {ada.Email}, "password": {"wrong"}},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email or password")

	rec = f.do(request{
		method: http.MethodPost,
		path:   "/login",
		form:   url.Values{"email": {"nobody@uni.edu"}, "password": {"secret1"}},
		json:   true,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid email or password"}`, rec.Body.String())
}

func TestSignup(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{
		method: http.MethodPost,
		path:   "/signup",
		form: url.Values{
			"name": {"Root Two"}, "email": {"root2@uni.edu"}, "password": {"secret1"}, "type": {"admin"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin accounts cannot sign up")

	rec = f.do(request{
		method: http.MethodPost,
		path:   "/signup",
		form: url.Values{
			"name": {"Alan"}, "email": {"alan@uni.edu"}, "password": {"secret1"}, "type": {"student"},
		},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/lessons", rec.Header().Get(echo.HeaderLocation))
	assert.NotEmpty(t, rec.Result().Cookies())
}

func multipartSignup(t *testing.T, filename string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"name": "Alan", "email": "alan@uni.edu", "password": "secret1", "type": "student",
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("not really a png"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/signup", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	return req
}

func TestSignup_Photo(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, multipartSignup(t, "alan.exe"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"photo":"must be a jpg, png or gif image"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	f.srv.ServeHTTP(rec, multipartSignup(t, "Alan.PNG"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p model.Person
	decode(t, rec, &p)
	assert.True(t, strings.HasSuffix(p.Photo, ".png"))
	assert.NotEqual(t, "Alan.PNG", p.Photo)

	stored, err := os.ReadFile(filepath.Join(f.photoDir, p.Photo))
	require.NoError(t, err)
	assert.Equal(t, "not really a png", string(stored))

	rec = f.do(request{method: http.MethodGet, path: "/photos/" + p.Photo})
	assert.Equal(t, http.StatusOK, rec.Code)

	// the email is taken now, so the second photo must not stay behind
	rec = httptest.NewRecorder()
	f.srv.ServeHTTP(rec, multipartSignup(t, "again.jpg"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	entries, err := os.ReadDir(f.photoDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	cookies := f.login(t, ada)

	rec := f.do(request{method: http.MethodGet, path: "/logout", cookies: cookies})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
}

func TestRequireLogin(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/lessons", "/courses", "/schedule", "/settings"} {
		rec := f.do(request{method: http.MethodGet, path: path})
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation), path)
	}

	rec := f.do(request{method: http.MethodGet, path: "/lessons", json: true})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"login required"}`, rec.Body.String())
}

func TestEnroll(t *testing.T) {
	f := newFixture(t)
	cookies := f.login(t, ada)

	rec := f.do(request{method: http.MethodPost, path: "/lessons/7/enroll", cookies: cookies})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var ack enrollAck
	decode(t, rec, &ack)
	assert.True(t, ack.Success)
	assert.Equal(t, int64(7), ack.LessonID)
	assert.Equal(t, 21001, ack.CRN)
	assert.Equal(t, 1, ack.Enrolled)
	assert.Equal(t, 2, ack.Cap)
	assert.Equal(t, 1, ack.SeatsLeft)

	rec = f.do(request{method: http.MethodPost, path: "/lessons/7/leave", cookies: cookies})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &ack)
	assert.True(t, ack.Success)
	assert.Equal(t, []string{"enroll", "leave"}, f.enrollments.calls)
}

func TestEnroll_ErrorStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"full", fmt.Errorf("enroll: %w", model.ErrCapacityExceeded), http.StatusConflict, `{"error":"lesson is full"}`},
		{"twice", model.ErrAlreadyEnrolled, http.StatusConflict, `{"error":"student is already enrolled in this lesson"}`},
		{"not enrolled", model.ErrNotEnrolled, http.StatusConflict, `{"error":"student is not enrolled in this lesson"}`},
		{"missing lesson", fmt.Errorf("lesson 7: %w", model.ErrNotFound), http.StatusNotFound, `{"error":"not found"}`},
		{"store down", model.ErrStoreUnavailable, http.StatusServiceUnavailable, `{"error":"Service Unavailable"}`},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, `{"error":"Internal Server Error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			cookies := f.login(t, ada)
			f.enrollments.err = tt.err

			for _, action := range []string{"enroll", "leave"} {
				rec := f.do(request{method: http.MethodPost, path: "/lessons/7/" + action, cookies: cookies})
				assert.Equal(t, tt.wantCode, rec.Code, action)
				assert.JSONEq(t, tt.wantBody, rec.Body.String(), action)
			}
		})
	}
}

func TestEnroll_Gates(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{method: http.MethodPost, path: "/lessons/7/enroll"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"login required"}`, rec.Body.String())

	rec = f.do(request{method: http.MethodPost, path: "/lessons/7/enroll", cookies: f.login(t, grace)})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"permission denied"}`, rec.Body.String())

	rec = f.do(request{method: http.MethodPost, path: "/lessons/abc/enroll", cookies: f.login(t, ada)})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, f.enrollments.calls)
}

func TestLessons_StudentSeesActions(t *testing.T) {
	f := newFixture(t)
	f.lessons.lessons = []model.LessonInfo{
		{Lesson: model.Lesson{ID: 5, CRN: 100, Code: "BLG", Cap: 10}},
		{Lesson: model.Lesson{ID: 6, CRN: 101, Code: "MAT", Cap: 10, Enrolled: 1}},
		{Lesson: model.Lesson{ID: 8, CRN: 102, Code: "FIZ", Cap: 1, Enrolled: 1}},
	}
	f.enrollments.enrolled = []model.EnrolledLesson{{LessonInfo: f.lessons.lessons[1]}}

	rec := f.do(request{method: http.MethodGet, path: "/lessons", cookies: f.login(t, ada)})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "/lessons/5/enroll")
	assert.Contains(t, body, "/lessons/6/leave")
	assert.NotContains(t, body, "/lessons/8/enroll")
	assert.Contains(t, body, "Full")
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	cookies := f.login(t, ada)
	f.enrollments.found = []model.LessonInfo{
		{Lesson: model.Lesson{ID: 5, CRN: 100}, InstructorName: "Grace Hopper"},
	}

	rec := f.do(request{method: http.MethodGet, path: "/lessons/search?crn=abc", json: true, cookies: cookies})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"crn":"must be a number"}`, rec.Body.String())

	rec = f.do(request{method: http.MethodGet, path: "/lessons/search?crn=999", json: true, cookies: cookies})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = f.do(request{method: http.MethodGet, path: "/lessons/search?instructor=hopper", json: true, cookies: cookies})
	require.Equal(t, http.StatusOK, rec.Code)
	var got []model.LessonInfo
	decode(t, rec, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "Grace Hopper", got[0].InstructorName)
}

func TestCourses(t *testing.T) {
	f := newFixture(t)
	ins := grace.ID
	f.lessons.lessons = []model.LessonInfo{
		{Lesson: model.Lesson{ID: 5, CRN: 100, InstructorID: &ins}},
		{Lesson: model.Lesson{ID: 6, CRN: 101}},
	}

	rec := f.do(request{method: http.MethodGet, path: "/courses", json: true, cookies: f.login(t, grace)})
	require.Equal(t, http.StatusOK, rec.Code)
	var given []model.LessonInfo
	decode(t, rec, &given)
	require.Len(t, given, 1)
	assert.Equal(t, 100, given[0].CRN)

	rec = f.do(request{method: http.MethodGet, path: "/courses", cookies: f.login(t, root)})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoster_Gate(t *testing.T) {
	f := newFixture(t)
	f.enrollments.roster = []model.RosterEntry{{StudentID: 10, Name: "Ada"}}

	rec := f.do(request{method: http.MethodGet, path: "/lessons/5/roster", cookies: f.login(t, ada)})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "permission denied")

	rec = f.do(request{method: http.MethodGet, path: "/lessons/5/roster", cookies: f.login(t, grace)})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ada")
}

func TestSettings_ChangePassword(t *testing.T) {
	f := newFixture(t)
	cookies := f.login(t, ada)

	rec := f.do(request{
		method:  http.MethodPost,
		path:    "/settings/password",
		form:    url.Values{"current_password": {"secret1"}, "new_password": {"newpass1"}, "confirm_password": {"other"}},
		json:    true,
		cookies: cookies,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "confirm_password")

	rec = f.do(request{
		method:  http.MethodPost,
		path:    "/settings/password",
		form:    url.Values{"current_password": {"secret1"}, "new_password": {"newpass1"}, "confirm_password": {"newpass1"}},
		cookies: cookies,
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/settings?changed=1", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "newpass1", f.auth.changed[ada.ID])
}

func TestAdmin_Gate(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{method: http.MethodGet, path: "/su/papers"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = f.do(request{method: http.MethodGet, path: "/su/papers", cookies: f.login(t, ada)})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(request{
		method:  http.MethodPost,
		path:    "/su/papers/1/delete",
		json:    true,
		cookies: f.login(t, grace),
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, f.papers.papers, int64(1))
}

func TestSession_FollowsStoredAccount(t *testing.T) {
	f := newFixture(t)
	cookies := f.login(t, root)

	rec := f.do(request{method: http.MethodGet, path: "/su/papers", json: true, cookies: cookies})
	assert.Equal(t, http.StatusOK, rec.Code)

	demoted := root
	demoted.Type = model.PersonTypeInstructor
	f.auth.people[root.Email] = demoted

	rec = f.do(request{method: http.MethodGet, path: "/su/papers", json: true, cookies: cookies})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	delete(f.auth.people, root.Email)

	rec = f.do(request{method: http.MethodGet, path: "/su/papers", cookies: cookies})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	rec = f.do(request{method: http.MethodGet, path: "/lessons", json: true, cookies: cookies})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdmin_Papers(t *testing.T) {
	f := newFixture(t)
	cookies := f.login(t, root)

	rec := f.do(request{method: http.MethodGet, path: "/su/papers", cookies: cookies})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Paxos Made Simple")
	assert.Contains(t, rec.Body.String(), `action="/su/papers/1/update"`)

	rec = f.do(request{
		method:  http.MethodPost,
		path:    "/su/papers",
		form:    url.Values{"title": {"Raft"}, "citation_count": {"5"}, "conference": {"true"}},
		json:    true,
		cookies: cookies,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created model.Paper
	decode(t, rec, &created)
	assert.Equal(t, "Raft", created.Title)
	assert.True(t, created.Conference)

	rec = f.do(request{
		method:  http.MethodPost,
		path:    "/su/papers",
		form:    url.Values{"plat": {"arXiv"}},
		json:    true,
		cookies: cookies,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"title":"title is required"}`, rec.Body.String())

	rec = f.do(request{
		method:  http.MethodPost,
		path:    "/su/papers/1/update",
		form:    url.Values{"citation_count": {"12"}, "title": {""}},
		cookies: cookies,
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/su/papers", rec.Header().Get(echo.HeaderLocation))
	upd := f.papers.updates[1]
	require.NotNil(t, upd.CitationCount)
	assert.Equal(t, 12, *upd.CitationCount)
	assert.Nil(t, upd.Title)

	rec = f.do(request{
		method:  http.MethodPost,
		path:    "/su/papers/1/update",
		form:    url.Values{"citation_count": {"many"}},
		json:    true,
		cookies: cookies,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"citation_count":"has an invalid value"}`, rec.Body.String())

	rec = f.do(request{method: http.MethodPost, path: "/su/papers/99/delete", json: true, cookies: cookies})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(request{method: http.MethodPost, path: "/su/papers/1/delete", json: true, cookies: cookies})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.NotContains(t, f.papers.papers, int64(1))
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{model.ErrNotFound, http.StatusNotFound},
		{model.ErrAlreadyEnrolled, http.StatusConflict},
		{model.ErrCapacityExceeded, http.StatusConflict},
		{model.ErrNotEnrolled, http.StatusConflict},
		{fmt.Errorf("create person: %w", model.ErrConflict), http.StatusConflict},
		{model.FieldValidationError("crn", "is taken"), http.StatusBadRequest},
		{model.ErrEmptyUpdate(), http.StatusBadRequest},
		{model.ErrInvalidCredentials, http.StatusUnauthorized},
		{model.ErrForbidden, http.StatusForbidden},
		{model.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		code, _ := statusOf(tt.err)
		assert.Equal(t, tt.want, code, tt.err.Error())
	}
}
