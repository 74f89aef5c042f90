package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserContext(t *testing.T) {
	ctx := SetUserContext(context.Background(), 42, "buyer@example.com", "USER")

	id, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "buyer@example.com", GetUserEmailFromContext(ctx))
	assert.Equal(t, "USER", GetUserRoleFromContext(ctx))
	assert.False(t, IsAdmin(ctx))

	// empty context
	_, ok = GetUserIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestIsAdmin(t *testing.T) {
	ctx := SetUserContext(context.Background(), 1, "admin@example.com", "ADMIN")
	assert.True(t, IsAdmin(ctx))
}

func TestStrPtr(t *testing.T) {
	p := StrPtr("hello")
	assert.NotNil(t, p)
	assert.Equal(t, "hello", *p)
}

func TestFormatTimePtr(t *testing.T) {
	assert.Nil(t, FormatTimePtr(nil))

	ts := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	got := FormatTimePtr(&ts)
	assert.NotNil(t, got)
	assert.Equal(t, "2025-06-01T12:30:00Z", *got)
}
