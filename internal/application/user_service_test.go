package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane-api/internal/domain/entity"
	repo "github.com/storelane/storelane-api/internal/domain/repository"
	"github.com/storelane/storelane-api/pkg/helpers"
)

type fakeUserRepo struct {
	byEmail map[string]*entity.User
	byID    map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*entity.User{}, byID: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return repo.ErrDuplicateEmail
	}
	u.ID = "33333333-3333-3333-3333-333333333333"
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]entity.User, error) {
	out := make([]entity.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, id string, patch repo.UserPatch) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	return u, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	delete(f.byID, id)
	delete(f.byEmail, u.Email)
	return u, nil
}

func newUserService(f *fakeUserRepo) *UserService {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewUserService(f, jwt, nil, nil)
}

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	f := newFakeUserRepo()
	svc := newUserService(f)

	u, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret99",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.NotEqual(t, "s3cret99", u.Password)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "s3cret99"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFakeUserRepo()
	svc := newUserService(f)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "dup@example.com", Password: "pass123"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{Name: "B", Email: "dup@example.com", Password: "pass456"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginIssuesTokenWithRole(t *testing.T) {
	f := newFakeUserRepo()
	svc := newUserService(f)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: "adminpass",
		Role:     entity.RoleAdmin,
	})
	require.NoError(t, err)

	u, token, exp, err := svc.Login(context.Background(), "admin@example.com", "adminpass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	claims, err := svc.JWT.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, string(entity.RoleAdmin), claims.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFakeUserRepo()
	svc := newUserService(f)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "correct1"})
	require.NoError(t, err)

	_, _, _, errUnknown := svc.Login(context.Background(), "nobody@example.com", "whatever")
	_, _, _, errWrongPw := svc.Login(context.Background(), "a@example.com", "wrong")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errWrongPw)
}

func TestUpdateHashesNewPassword(t *testing.T) {
	f := newFakeUserRepo()
	svc := newUserService(f)

	u, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "oldpass1"})
	require.NoError(t, err)

	newPw := "newpass1"
	updated, err := svc.Update(context.Background(), u.ID, UpdateUserInput{Password: &newPw})
	require.NoError(t, err)
	assert.NotEqual(t, newPw, updated.Password)
	assert.True(t, helpers.CompareHashAndPassword(updated.Password, newPw))
}

func TestDeleteUnknownUser(t *testing.T) {
	svc := newUserService(newFakeUserRepo())

	_, err := svc.Delete(context.Background(), "44444444-4444-4444-4444-444444444444")
	assert.ErrorIs(t, err, ErrNotFound)
}
