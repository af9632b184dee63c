package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// Router wraps gin with typed handlers. Request-scoped values (db, logger,
// configs, request user) travel in a plain context.Context seeded from
// baseCtx, so domains never see gin.
type Router struct {
	Inner       gin.IRouter
	baseCtx     context.Context
	middlewares []MiddlewareFunc
}

func New(baseCtx context.Context) *Router {
	return &Router{
		Inner:   gin.New(),
		baseCtx: baseCtx,
	}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) Use(middleware MiddlewareFunc) {
	r.middlewares = append(r.middlewares, middleware)
}

func (r *Router) Group(pattern string) *Router {
	return &Router{
		Inner:       r.Inner.Group(pattern),
		baseCtx:     r.baseCtx,
		middlewares: r.middlewares,
	}
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}
