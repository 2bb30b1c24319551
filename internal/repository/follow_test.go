package repository

import (
	"context"
	"testing"

	"quill/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestFollowRepository_Idempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	follower := createUser(t, db, "bob")
	author := createUser(t, db, "alice")

	require.NoError(t, repo.Follow(ctx, follower.ID, author.ID))
	require.NoError(t, repo.Follow(ctx, follower.ID, author.ID))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = ? AND author_id = ?", follower.ID, author.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count, "double follow must leave exactly one row")

	following, err := repo.IsFollowing(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, following)

	followers, err := repo.CountFollowers(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)
}

func TestFollowRepository_UnfollowIsNoOpWhenAbsent(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	follower := createUser(t, db, "bob")
	author := createUser(t, db, "alice")

	// Unfollow without a prior follow must not error.
	require.NoError(t, repo.Unfollow(ctx, follower.ID, author.ID))

	require.NoError(t, repo.Follow(ctx, follower.ID, author.ID))
	require.NoError(t, repo.Unfollow(ctx, follower.ID, author.ID))

	following, err := repo.IsFollowing(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowRepository_DirectionMatters(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	bob := createUser(t, db, "bob")
	alice := createUser(t, db, "alice")

	require.NoError(t, repo.Follow(ctx, bob.ID, alice.ID))

	// The reverse edge does not exist.
	following, err := repo.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

// TestFollowRepository_ConflictClause pins the insert to the conflict-ignoring
// form so a concurrent duplicate follow cannot surface as an error.
func TestFollowRepository_ConflictClause(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectExec(`(?s)INSERT INTO follows.*ON CONFLICT \(follower_id, author_id\) DO NOTHING`).
		WithArgs(uint(2), uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewFollowRepository(db)
	require.NoError(t, repo.Follow(context.Background(), 2, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
