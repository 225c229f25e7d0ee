package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arturocg96/EduTrackAPI/internal/model"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testDB(t))

	user := &model.User{Username: "Alice", Name: "Alice A.", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ALICE", user.NormalizedUsername)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "Alice", byID.Username)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, user.ID, byName.ID)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_IsUniqueUser(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testDB(t))
	require.NoError(t, repo.Create(ctx, &model.User{Username: "bob", Name: "Bob", PasswordHash: "h"}))

	tests := []struct {
		username string
		want     bool
	}{
		{"bob", false},
		{"BOB", false},
		{"carol", true},
		{"", false},
		{"   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			got, err := repo.IsUniqueUser(ctx, tt.username)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserRepository_DuplicateNormalizedUsernameFails(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testDB(t))
	require.NoError(t, repo.Create(ctx, &model.User{Username: "dave", Name: "Dave", PasswordHash: "h"}))

	err := repo.Create(ctx, &model.User{Username: "DAVE", Name: "Dave 2", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestUserRepository_Roles(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.EnsureRoles(ctx, model.AllRoles...))
	// idempotent
	require.NoError(t, repo.EnsureRoles(ctx, model.AllRoles...))

	var roleCount int64
	require.NoError(t, db.Model(&model.RoleRecord{}).Count(&roleCount).Error)
	assert.Equal(t, int64(2), roleCount)

	user := &model.User{Username: "erin", Name: "Erin", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.AddToRole(ctx, user, model.RoleAdmin))

	roles, err := repo.GetRoles(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin"}, roles)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Len(t, users[0].Roles, 1)
	assert.Equal(t, "Admin", users[0].Roles[0].Name)
}

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testDB(t))

	require.NoError(t, SeedAdmin(ctx, repo, "admin", "Administrator", "hash", zap.NewNop()))
	// second run is a no-op
	require.NoError(t, SeedAdmin(ctx, repo, "admin", "Administrator", "hash", zap.NewNop()))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	roles, err := repo.GetRoles(ctx, &users[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin"}, roles)
}

func TestIsPostgresURL(t *testing.T) {
	assert.True(t, IsPostgresURL("postgres://u:p@localhost:5432/courses"))
	assert.True(t, IsPostgresURL("postgresql://localhost/courses"))
	assert.True(t, IsPostgresURL("host=localhost user=u dbname=courses"))
	assert.False(t, IsPostgresURL("data/courses.db"))
	assert.False(t, IsPostgresURL("file::memory:?cache=shared"))
}
