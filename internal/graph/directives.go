package graph

import (
	"context"

	"storefront-be/internal/graph/model"
	"storefront-be/internal/utils"

	"github.com/99designs/gqlgen/graphql"
)

func AuthDirective(ctx context.Context, obj interface{}, next graphql.Resolver, role *model.Role) (res interface{}, err error) {
	if _, ok := utils.GetUserIDFromContext(ctx); !ok {
		return nil, errUnauthenticated()
	}

	requiredRole := model.RoleUser
	if role != nil {
		requiredRole = *role
	}
	if requiredRole == model.RoleAdmin && !utils.IsAdmin(ctx) {
		return nil, gqlError("forbidden: admin only", codeForbidden)
	}

	return next(ctx)
}
