package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturocg96/EduTrackAPI/internal/api/response"
	"github.com/arturocg96/EduTrackAPI/internal/pkg/config"
	"github.com/arturocg96/EduTrackAPI/internal/model"
)

func (s *testServer) register(username, password, role string) model.UserDataDTO {
	s.t.Helper()
	w := s.sendJSON(http.MethodPost, "/api/v1/users/register", model.UserRegisterDTO{
		Username: username, Name: "Name " + username, Password: password, Role: role,
	}, "")
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[model.UserDataDTO](s.t, w)
}

func TestUsers_RegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.sendJSON(http.MethodPost, "/api/v1/users/register", model.UserRegisterDTO{
		Username: "alice", Name: "Alice", Password: "Passw0rd!", Role: "admin",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode[model.UserDataDTO](t, w)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "/api/v1/users/"+user.ID, w.Header().Get("Location"))

	w = s.sendJSON(http.MethodPost, "/api/v2/users/login", model.UserLoginDTO{Username: "ALICE", Password: "Passw0rd!"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode[model.LoginResponseDTO](t, w)
	require.NotEmpty(t, login.Token)
	require.NotNil(t, login.User)
	assert.Equal(t, user.ID, login.User.ID)

	claims, err := s.tokens.ValidateToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, string(model.RoleAdmin), claims.Role)

	// the issued token opens admin routes
	w = s.do(http.MethodGet, "/api/v1/users", nil, "", login.Token)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[[]model.UserDTO](t, w)
	require.Len(t, users, 1)
	assert.Equal(t, []string{"Admin"}, users[0].Roles)
}

func TestUsers_RegisterRejects(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", "Passw0rd!", "")

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "duplicate username", body: model.UserRegisterDTO{Username: "Alice", Name: "A", Password: "Passw0rd!"}},
		{name: "weak password", body: model.UserRegisterDTO{Username: "bob", Name: "Bob", Password: "secret"}},
		{name: "blank username", body: model.UserRegisterDTO{Username: "  ", Name: "Dan", Password: "Passw0rd!"}},
		{name: "missing password", body: map[string]string{"username": "carol", "name": "Carol"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.sendJSON(http.MethodPost, "/api/v1/users/register", tt.body, "")
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.NotEmpty(t, decode[response.ErrorBody](t, w).Detail)
		})
	}
}

func TestUsers_LoginRejected(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", "Passw0rd!", "")

	w := s.sendJSON(http.MethodPost, "/api/v1/users/login", model.UserLoginDTO{Username: "alice", Password: "wrong"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "token")

	w = s.sendJSON(http.MethodPost, "/api/v1/users/login", model.UserLoginDTO{Username: "nobody", Password: "Passw0rd!"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsers_ListRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", "Passw0rd!", "user")

	w := s.do(http.MethodGet, "/api/v1/users", nil, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/users", nil, "", s.token(model.RoleUser))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/v1/users", nil, "", s.token(model.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[[]model.UserDTO](t, w)
	require.Len(t, users, 1)
	assert.Equal(t, []string{"User"}, users[0].Roles)
}

func TestUsers_Get(t *testing.T) {
	s := newTestServer(t)
	user := s.register("alice", "Passw0rd!", "")

	w := s.do(http.MethodGet, "/api/v1/users/"+user.ID, nil, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[model.UserDTO](t, w)
	assert.Equal(t, "alice", got.Username)
	assert.NotContains(t, w.Body.String(), "Passw0rd!")

	w = s.do(http.MethodGet, "/api/v1/users/unknown", nil, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsers_LoginRateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimit = config.RateLimitConfig{LoginRPS: 0.001, LoginBurst: 2}
	})

	body := model.UserLoginDTO{Username: "nobody", Password: "Passw0rd!"}
	for i := 0; i < 2; i++ {
		w := s.sendJSON(http.MethodPost, "/api/v1/users/login", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	w := s.sendJSON(http.MethodPost, "/api/v1/users/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
