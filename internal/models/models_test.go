package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPairKeyIsOrderIndependent(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, PairKey(a, b), PairKey(b, a))
	assert.NotEqual(t, PairKey(a, b), PairKey(a, uuid.New()))
}

func TestBuddyOther(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	rel := Buddy{UserID: a, BuddyID: b}

	assert.Equal(t, b, rel.Other(a))
	assert.Equal(t, a, rel.Other(b))
	assert.True(t, rel.Involves(a))
	assert.False(t, rel.Involves(uuid.New()))
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"trims and dedups", " flying, water ,flying,,falling ", []string{"flying", "water", "falling"}},
		{"case sensitive", "Water,water", []string{"Water", "water"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTags(tt.in))
		})
	}
}

func TestJoinTags(t *testing.T) {
	assert.Equal(t, "a,b,c", JoinTags([]string{" a", "b, c", "a"}))
	assert.Equal(t, "", JoinTags(nil))
}
