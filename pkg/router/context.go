package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type (
	httpRequestKey struct{}
	uriParamsKey   struct{}
)

func withGinParams(base context.Context, ginCtx *gin.Context) context.Context {
	params := map[string]string{}
	for _, p := range ginCtx.Params {
		params[p.Key] = p.Value
	}

	ctx := context.WithValue(base, httpRequestKey{}, ginCtx.Request)
	return context.WithValue(ctx, uriParamsKey{}, params)
}

// HTTPRequest returns the underlying request of this call, or nil outside
// of an HTTP handler.
func HTTPRequest(ctx context.Context) *http.Request {
	r, _ := ctx.Value(httpRequestKey{}).(*http.Request)
	return r
}

// BearerToken extracts the access token of the request from the
// Authorization header, falling back to the named cookie.
func BearerToken(ctx context.Context, cookieName string) string {
	r := HTTPRequest(ctx)
	if r == nil {
		return ""
	}

	authorization := r.Header.Get("Authorization")
	if len(authorization) > len("Bearer ") && authorization[:len("Bearer ")] == "Bearer " {
		return authorization[len("Bearer "):]
	}

	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}
