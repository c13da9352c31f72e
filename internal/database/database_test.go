package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nuhm/bitnap/backend/internal/database"
	"github.com/nuhm/bitnap/backend/internal/models"
	"github.com/nuhm/bitnap/backend/internal/testhelpers"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestProbe(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		err := database.Probe(context.Background(), pingerFunc(func(context.Context) error { return nil }), time.Second)
		assert.NoError(t, err)
	})

	t.Run("failure is unreachable", func(t *testing.T) {
		err := database.Probe(context.Background(), pingerFunc(func(context.Context) error {
			return errors.New("connection refused")
		}), time.Second)
		assert.ErrorIs(t, err, database.ErrUnreachable)
	})

	t.Run("timeout is unreachable", func(t *testing.T) {
		start := time.Now()
		err := database.Probe(context.Background(), pingerFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}), 20*time.Millisecond)
		assert.ErrorIs(t, err, database.ErrUnreachable)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestPairKeyIsUnique(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	a := testhelpers.CreateUser(t, db, "alice")
	b := testhelpers.CreateUser(t, db, "bob")

	testhelpers.Relate(t, db, a.ID, b.ID, models.BuddyStatusPending)

	reverse := models.Buddy{UserID: b.ID, BuddyID: a.ID, Status: models.BuddyStatusPending}
	err := db.Create(&reverse).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestEmptyUsernamesDoNotCollide(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)

	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&models.Profile{ID: uuid.New()}).Error)
	}

	require.NoError(t, db.Create(&models.Profile{ID: uuid.New(), Username: "taken"}).Error)
	err := db.Create(&models.Profile{ID: uuid.New(), Username: "taken"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestMigrationsOnPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	db := testhelpers.SetupTestDatabase(t)

	for _, m := range database.Models() {
		assert.True(t, db.Migrator().HasTable(m), "missing table for %T", m)
	}
}
