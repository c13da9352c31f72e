package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuhm/bitnap/backend/internal/service"
	"github.com/nuhm/bitnap/backend/internal/testhelpers"
	"github.com/nuhm/bitnap/backend/internal/types"
)

func TestDraftAutosave(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := testhelpers.CreateUser(t, f.db, "alice")
	b := testhelpers.CreateUser(t, f.db, "bob")

	_, err := f.drafts.LoadDraft(ctx, a.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	require.NoError(t, f.drafts.SaveDraft(ctx, a.ID, types.JournalDraft{Title: "fl"}))
	require.NoError(t, f.drafts.SaveDraft(ctx, a.ID, types.JournalDraft{Title: "flying", MoodBefore: "calm"}))

	assert.Eventually(t, func() bool {
		d, err := f.drafts.LoadDraft(ctx, a.ID)
		return err == nil && d.Draft.Title == "flying"
	}, time.Second, 10*time.Millisecond)

	_, err = f.drafts.LoadDraft(ctx, b.ID)
	assert.ErrorIs(t, err, service.ErrNotFound, "drafts are per user")
}

func TestDraftWithoutContentIsNotStored(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := testhelpers.CreateUser(t, f.db, "alice")

	require.NoError(t, f.drafts.SaveDraft(ctx, a.ID, types.JournalDraft{Date: "2024-01-01", MoodBefore: "calm"}))
	require.NoError(t, f.drafts.FlushDraft(ctx, a.ID))

	_, err := f.drafts.LoadDraft(ctx, a.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestLoadDraftFlushesPendingEdit(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := testhelpers.CreateUser(t, f.db, "alice")

	require.NoError(t, f.drafts.SaveDraft(ctx, a.ID, types.JournalDraft{Content: "teeth falling out"}))
	d, err := f.drafts.LoadDraft(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "teeth falling out", d.Draft.Content)
	assert.False(t, d.SavedAt.IsZero())

	require.NoError(t, f.drafts.ClearDraft(ctx, a.ID))
	_, err = f.drafts.LoadDraft(ctx, a.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
