package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/arturocg96/EduTrackAPI/internal/model"
	"github.com/arturocg96/EduTrackAPI/internal/pkg/cache"
	"github.com/arturocg96/EduTrackAPI/internal/pkg/config"
	"github.com/arturocg96/EduTrackAPI/internal/pkg/jwt"
	"github.com/arturocg96/EduTrackAPI/internal/repository"
	"github.com/arturocg96/EduTrackAPI/internal/service"
	"github.com/arturocg96/EduTrackAPI/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t        *testing.T
	engine   *gin.Engine
	tokens   *jwt.Manager
	imageDir string
	cache    *cache.MemoryStore
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		JWT:       config.JWTConfig{SecretKey: "test-secret", ExpireHours: 168},
		Cache:     config.CacheConfig{TTLSeconds: 30},
		Storage:   config.StorageConfig{ImageDir: filepath.Join(dir, "images"), PublicPath: "/CoursesImages", MaxUploadMB: 1},
		API:       config.APIConfig{Versions: []string{"v1", "v2"}},
		RateLimit: config.RateLimitConfig{LoginRPS: 100, LoginBurst: 100},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	for _, m := range mutate {
		m(cfg)
	}

	db, err := repository.Open(repository.Options{URL: filepath.Join(dir, "test.db"), LogLevel: "error"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close(db) })

	tokens, err := jwt.NewManager(cfg.JWT.SecretKey, time.Hour)
	require.NoError(t, err)

	store := cache.NewMemoryStore(cache.MemoryStoreOptions{MaxSize: 50})
	t.Cleanup(func() { _ = store.Close() })

	r := gin.New()
	SetupRouter(r, Dependencies{
		Config: cfg,
		Log:    zap.NewNop(),
		DB:     db,
		Tokens: tokens,
		Cache:  store,
		Images: storage.NewLocalImageStore(cfg.Storage.ImageDir, cfg.Storage.PublicPath, cfg.MaxUploadBytes(), zap.NewNop()),
		Hasher: &service.BcryptHasher{Cost: bcrypt.MinCost},
	})

	return &testServer{t: t, engine: r, tokens: tokens, imageDir: cfg.Storage.ImageDir, cache: store}
}

func (s *testServer) token(role model.Role) string {
	s.t.Helper()
	token, err := s.tokens.GenerateToken("tester", string(role))
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) sendJSON(method, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(s.t, err)
		body = bytes.NewReader(b)
	}
	return s.do(method, path, body, "application/json", token)
}

type upload struct {
	name    string
	content []byte
}

func (s *testServer) multipart(method, path string, fields map[string]string, file *upload, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("image", file.name)
		require.NoError(s.t, err)
		_, err = fw.Write(file.content)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, mw.Close())
	return s.do(method, path, &buf, mw.FormDataContentType(), token)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) createCategory(name string) model.CategoryDTO {
	s.t.Helper()
	w := s.sendJSON(http.MethodPost, "/api/categories", model.CreateCategoryDTO{Name: name}, s.token(model.RoleAdmin))
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[model.CategoryDTO](s.t, w)
}
