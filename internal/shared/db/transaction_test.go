package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type counterModel struct {
	ID    uint `gorm:"primarykey"`
	Value int
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&counterModel{}))
	return db
}

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()

	err := tm.RunInTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, tm.GetTx(ctx).Create(&counterModel{Value: 1}).Error)
		require.NoError(t, tm.GetTx(ctx).Create(&counterModel{Value: 2}).Error)
		return errors.New("second step failed")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&counterModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRunInTransaction_NestedJoinsOuter(t *testing.T) {
	db := setupTestDB(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()

	err := tm.RunInTransaction(ctx, func(ctx context.Context) error {
		outer := tm.GetTx(ctx)
		return tm.RunInTransaction(ctx, func(ctx context.Context) error {
			assert.Same(t, outer, tm.GetTx(ctx))
			return tm.GetTx(ctx).Create(&counterModel{Value: 3}).Error
		})
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&counterModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
