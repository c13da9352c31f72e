package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuhm/bitnap/backend/internal/models"
)

func TestNewSQLiteDBIsIsolated(t *testing.T) {
	first := NewSQLiteDB(t)
	second := NewSQLiteDB(t)

	CreateUser(t, first, "lucid_lu")

	var count int64
	require.NoError(t, second.Model(&models.Profile{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFixtures(t *testing.T) {
	db := NewSQLiteDB(t)
	a := CreateUser(t, db, "alice")
	b := CreateUser(t, db, "bob")

	rel := Relate(t, db, a.ID, b.ID, models.BuddyStatusAccepted)
	assert.Equal(t, models.PairKey(a.ID, b.ID), rel.PairKey)

	entry := CreateEntry(t, db, a.ID, "flying", models.VisibilityBuddies, time.Now())
	assert.NotEqual(t, uuid.Nil, entry.ID)
}

func TestSetupTestDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	db := SetupTestDatabase(t)
	a := CreateUser(t, db, "pg_alice")

	var got models.Profile
	require.NoError(t, db.First(&got, "id = ?", a.ID).Error)
	assert.Equal(t, "pg_alice", got.Username)
}
