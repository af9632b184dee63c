package middleware

import (
	"context"

	"github.com/luvlist-lab/backend/internal/model"
	"github.com/luvlist-lab/backend/pkg/authenticator"
	"github.com/luvlist-lab/backend/pkg/errorx"
	"github.com/luvlist-lab/backend/pkg/router"
	"github.com/luvlist-lab/backend/pkg/xcontext"
)

// AuthVerifier resolves the request user from the access token. A request
// without a token stays anonymous; domains that need a signed-in user
// reject it themselves. An invalid token is always an error.
func AuthVerifier(
	tokenEngine authenticator.TokenEngine[model.AccessToken],
) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := router.BearerToken(ctx, xcontext.Configs(ctx).Auth.AccessTokenName)
		if token == "" {
			return ctx, nil
		}

		accessToken, err := tokenEngine.Verify(token)
		if err != nil {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}
