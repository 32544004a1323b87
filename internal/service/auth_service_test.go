package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/validation"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakePeople) {
	t.Helper()
	people := newFakePeople()
	return NewAuthService(people, validation.New(), zap.NewNop()), people
}

func TestSignup(t *testing.T) {
	svc, people := newAuthFixture(t)
	ctx := context.Background()

	p, err := svc.Signup(ctx, model.NewPerson{
		Name:     "Ada Lovelace",
		Email:    " ada@uni.edu ",
		Password: "engine1",
		Photo:    "3f1c.jpg",
		Type:     model.PersonTypeStudent,
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "ada@uni.edu", p.Email)
	assert.NotEqual(t, "engine1", p.PasswordHash)
	assert.NoError(t, p.CheckPassword("engine1"))
	assert.Equal(t, "3f1c.jpg", p.Photo)

	stored, err := people.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.PasswordHash, stored.PasswordHash)
}

func TestSignup_Rejected(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, model.NewPerson{Name: "Ada", Email: "ada@uni.edu", Password: "engine1", Type: model.PersonTypeStudent})
	require.NoError(t, err)

	tests := []struct {
		name  string
		in    model.NewPerson
		field string
	}{
		{
			name:  "email taken, different case",
			in:    model.NewPerson{Name: "Ada 2", Email: "ADA@uni.edu", Password: "engine1", Type: model.PersonTypeStudent},
			field: "email",
		},
		{
			name:  "short password",
			in:    model.NewPerson{Name: "Bob", Email: "bob@uni.edu", Password: "123", Type: model.PersonTypeStudent},
			field: "password",
		},
		{
			name:  "admin self signup",
			in:    model.NewPerson{Name: "Eve", Email: "eve@uni.edu", Password: "secret1", Type: model.PersonTypeAdmin},
			field: "type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.in)
			var vErr *model.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.FieldMap(), tt.field)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, model.NewPerson{Name: "Ada", Email: "ada@uni.edu", Password: "engine1", Type: model.PersonTypeInstructor})
	require.NoError(t, err)

	p, err := svc.Login(ctx, "Ada@Uni.edu", "engine1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, p.ID)

	_, err = svc.Login(ctx, "ada@uni.edu", "wrong-password")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@uni.edu", "engine1")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAccount(t *testing.T) {
	svc, people := newAuthFixture(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, model.NewPerson{Name: "Ada", Email: "ada@uni.edu", Password: "engine1", Type: model.PersonTypeStudent})
	require.NoError(t, err)

	typ := model.PersonTypeAssistant
	require.NoError(t, people.Update(ctx, created.ID, model.PersonUpdate{Type: &typ}))

	p, err := svc.Account(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PersonTypeAssistant, p.Type)

	require.NoError(t, people.Delete(ctx, created.ID))
	_, err = svc.Account(ctx, created.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	p, err := svc.Signup(ctx, model.NewPerson{Name: "Ada", Email: "ada@uni.edu", Password: "engine1", Type: model.PersonTypeStudent})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, p.ID, "nope", "engine2")
	assert.True(t, model.IsValidation(err))

	err = svc.ChangePassword(ctx, p.ID, "engine1", "x")
	assert.True(t, model.IsValidation(err))

	require.NoError(t, svc.ChangePassword(ctx, p.ID, "engine1", "engine2"))

	_, err = svc.Login(ctx, "ada@uni.edu", "engine1")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "ada@uni.edu", "engine2")
	assert.NoError(t, err)
}

func TestCreateAdmin(t *testing.T) {
	svc, _ := newAuthFixture(t)

	p, err := svc.CreateAdmin(context.Background(), "Root", "root@uni.edu", "rootpass")
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
}
