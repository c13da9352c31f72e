package service_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuhm/bitnap/backend/internal/models"
	"github.com/nuhm/bitnap/backend/internal/service"
	"github.com/nuhm/bitnap/backend/internal/testhelpers"
	"github.com/nuhm/bitnap/backend/internal/types"
)

type fakeBlobStore struct {
	keys []string
	body []string
}

func (s *fakeBlobStore) Put(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.keys = append(s.keys, key)
	s.body = append(s.body, string(data))
	return "https://cdn.example.com/" + key, nil
}

func strPtr(s string) *string { return &s }

func TestEnsureProfileCreatesOnce(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := uuid.New()

	first, err := f.profiles.EnsureProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, first.ID)
	assert.Equal(t, placeholderAvatar, first.AvatarURL)
	assert.False(t, first.HasUsername())

	second, err := f.profiles.EnsureProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())

	var count int64
	require.NoError(t, f.db.Model(&models.Profile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSetUsername(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	taken := testhelpers.CreateUser(t, f.db, "dreamer")
	id := uuid.New()

	_, err := f.profiles.SetUsername(ctx, id, &types.SetUsernameRequest{Username: "no spaces"})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = f.profiles.SetUsername(ctx, id, &types.SetUsernameRequest{Username: taken.Username})
	assert.ErrorIs(t, err, service.ErrUsernameTaken)

	p, err := f.profiles.SetUsername(ctx, id, &types.SetUsernameRequest{Username: " sleepy_1 "})
	require.NoError(t, err)
	assert.Equal(t, "sleepy_1", p.Username)
	assert.Equal(t, placeholderAvatar, p.AvatarURL)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := testhelpers.CreateUser(t, f.db, "alice")
	testhelpers.CreateUser(t, f.db, "bob")

	p, err := f.profiles.UpdateProfile(ctx, a.ID, &types.UpdateProfileRequest{Bio: strPtr("  I dream in color ")})
	require.NoError(t, err)
	assert.Equal(t, "I dream in color", p.Bio)
	assert.Equal(t, "alice", p.Username)

	_, err = f.profiles.UpdateProfile(ctx, a.ID, &types.UpdateProfileRequest{Username: strPtr("bob")})
	assert.ErrorIs(t, err, service.ErrUsernameTaken)

	p, err = f.profiles.UpdateProfile(ctx, a.ID, &types.UpdateProfileRequest{AvatarURL: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, placeholderAvatar, p.AvatarURL)

	_, err = f.profiles.UpdateProfile(ctx, uuid.New(), &types.UpdateProfileRequest{Bio: strPtr("x")})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUploadAvatar(t *testing.T) {
	t.Run("stores and points profile at the object", func(t *testing.T) {
		store := &fakeBlobStore{}
		f := newFixture(t, store)
		a := testhelpers.CreateUser(t, f.db, "alice")

		p, err := f.profiles.UploadAvatar(context.Background(), a.ID, "me.PNG", strings.NewReader("png-bytes"), 9)
		require.NoError(t, err)
		require.Len(t, store.keys, 1)
		assert.True(t, strings.HasPrefix(store.keys[0], a.ID.String()+"/avatar_"))
		assert.True(t, strings.HasSuffix(store.keys[0], ".png"))
		assert.Equal(t, "https://cdn.example.com/"+store.keys[0], p.AvatarURL)
		assert.Equal(t, "png-bytes", store.body[0])
	})

	t.Run("no storage configured", func(t *testing.T) {
		f := newFixture(t, nil)
		a := testhelpers.CreateUser(t, f.db, "alice")

		_, err := f.profiles.UploadAvatar(context.Background(), a.ID, "me.jpg", strings.NewReader("x"), 1)
		assert.ErrorIs(t, err, service.ErrStorageUnavailable)
	})
}

func TestSearchProfiles(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := testhelpers.CreateUser(t, f.db, "dreamer_a")
	b := testhelpers.CreateUser(t, f.db, "dreamer_b")
	c := testhelpers.CreateUser(t, f.db, "dreamer_c")
	testhelpers.CreateUser(t, f.db, "sleeper")
	testhelpers.Relate(t, f.db, a.ID, b.ID, models.BuddyStatusAccepted)
	testhelpers.Relate(t, f.db, a.ID, c.ID, models.BuddyStatusPending)
	_, err := f.profiles.EnsureProfile(ctx, uuid.New())
	require.NoError(t, err)

	views, err := f.profiles.SearchProfiles(ctx, a.ID, "DREAM")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "dreamer_c", views[0].Username)
	assert.Equal(t, types.RelationshipPendingSent, views[0].Relationship)

	views, err = f.profiles.SearchProfiles(ctx, a.ID, "   ")
	require.NoError(t, err)
	assert.Empty(t, views)

	views, err = f.profiles.SearchProfiles(ctx, a.ID, "_")
	require.NoError(t, err)
	assert.Len(t, views, 1, "underscore must not act as a wildcard")
}

func TestViewProfile(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := testhelpers.CreateUser(t, f.db, "alice")
	b := testhelpers.CreateUser(t, f.db, "bob")
	testhelpers.Relate(t, f.db, b.ID, a.ID, models.BuddyStatusPending)

	view, err := f.profiles.ViewProfile(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RelationshipPendingReceived, view.Relationship)

	view, err = f.profiles.ViewProfile(ctx, a.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RelationshipSelf, view.Relationship)

	_, err = f.profiles.ViewProfile(ctx, a.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}
