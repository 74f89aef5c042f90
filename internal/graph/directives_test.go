package graph

import (
	"context"
	"testing"

	"storefront-be/internal/graph/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextOK(called *bool) func(ctx context.Context) (interface{}, error) {
	return func(ctx context.Context) (interface{}, error) {
		*called = true
		return "ok", nil
	}
}

func TestAuthDirectiveRequiresLogin(t *testing.T) {
	called := false

	_, err := AuthDirective(context.Background(), nil, nextOK(&called), nil)
	require.Error(t, err)
	assert.False(t, called)
}

func TestAuthDirectiveAllowsUser(t *testing.T) {
	called := false
	ctx := authedCtx(42, "buyer@example.com", "USER")

	res, err := AuthDirective(ctx, nil, nextOK(&called), nil)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", res)
}

func TestAuthDirectiveAdminOnly(t *testing.T) {
	admin := model.RoleAdmin

	called := false
	_, err := AuthDirective(authedCtx(42, "buyer@example.com", "USER"), nil, nextOK(&called), &admin)
	require.Error(t, err)
	assert.False(t, called)

	_, err = AuthDirective(authedCtx(1, "admin@example.com", "ADMIN"), nil, nextOK(&called), &admin)
	require.NoError(t, err)
	assert.True(t, called)
}
