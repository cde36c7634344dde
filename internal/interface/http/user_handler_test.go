package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane-api/internal/domain/entity"
)

func TestListUsersAdminOnly(t *testing.T) {
	env := newUserEnv(t)
	user := env.register(t, "Alice", "alice@example.com", "s3cret99", "")
	admin := env.register(t, "Root", "root@example.com", "adminpw1", entity.RoleAdmin)

	w := env.doJSON(t, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doJSON(t, http.MethodGet, "/api/users", env.token(t, user), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.doJSON(t, http.MethodGet, "/api/users", env.token(t, admin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetUserSelfOrAdmin(t *testing.T) {
	env := newUserEnv(t)
	alice := env.register(t, "Alice", "alice@example.com", "s3cret99", "")
	bob := env.register(t, "Bob", "bob@example.com", "bobpass1", "")
	admin := env.register(t, "Root", "root@example.com", "adminpw1", entity.RoleAdmin)

	w := env.doJSON(t, http.MethodGet, "/api/users/"+alice.ID, env.token(t, alice), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.doJSON(t, http.MethodGet, "/api/users/"+alice.ID, env.token(t, bob), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.doJSON(t, http.MethodGet, "/api/users/"+alice.ID, env.token(t, admin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserResponseOmitsPassword(t *testing.T) {
	env := newUserEnv(t)
	alice := env.register(t, "Alice", "alice@example.com", "s3cret99", "")

	w := env.doJSON(t, http.MethodGet, "/api/users/"+alice.ID, env.token(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), alice.Password)
}

func TestUpdateOwnProfile(t *testing.T) {
	env := newUserEnv(t)
	alice := env.register(t, "Alice", "alice@example.com", "s3cret99", "")

	w := env.doJSON(t, http.MethodPut, "/api/users/"+alice.ID, env.token(t, alice), gin.H{"name": "Alicia"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Alicia")
	assert.Contains(t, w.Body.String(), "alice@example.com")
}

func TestRoleChangeRequiresAdmin(t *testing.T) {
	env := newUserEnv(t)
	alice := env.register(t, "Alice", "alice@example.com", "s3cret99", "")
	admin := env.register(t, "Root", "root@example.com", "adminpw1", entity.RoleAdmin)

	w := env.doJSON(t, http.MethodPut, "/api/users/"+alice.ID, env.token(t, alice), gin.H{"role": "admin"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.doJSON(t, http.MethodPut, "/api/users/"+alice.ID, env.token(t, admin), gin.H{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestDeleteUserAdminOnly(t *testing.T) {
	env := newUserEnv(t)
	alice := env.register(t, "Alice", "alice@example.com", "s3cret99", "")
	admin := env.register(t, "Root", "root@example.com", "adminpw1", entity.RoleAdmin)

	w := env.doJSON(t, http.MethodDelete, "/api/users/"+alice.ID, env.token(t, alice), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.doJSON(t, http.MethodDelete, "/api/users/"+alice.ID, env.token(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user deleted")

	w = env.doJSON(t, http.MethodDelete, "/api/users/"+alice.ID, env.token(t, admin), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUnknownUser(t *testing.T) {
	env := newUserEnv(t)
	admin := env.register(t, "Root", "root@example.com", "adminpw1", entity.RoleAdmin)

	w := env.doJSON(t, http.MethodGet, "/api/users/88888888-8888-8888-8888-888888888888", env.token(t, admin), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
