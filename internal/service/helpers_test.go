package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/arturocg96/EduTrackAPI/internal/pkg/jwt"
	"github.com/arturocg96/EduTrackAPI/internal/repository"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := repository.Open(repository.Options{
		URL:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "error",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close(db) })
	return db
}

func newTestUserService(t *testing.T) (*UserService, *jwt.Manager) {
	t.Helper()

	tokens, err := jwt.NewManager("test-secret", time.Hour)
	require.NoError(t, err)

	users := repository.NewUserRepository(testDB(t))
	hasher := &BcryptHasher{Cost: bcrypt.MinCost}
	return NewUserService(users, hasher, tokens, zap.NewNop()), tokens
}
