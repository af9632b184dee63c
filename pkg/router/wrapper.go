package router

import (
	"errors"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"net/http"

	"github.com/gin-gonic/gin"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(ginCtx *gin.Context) {
		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = bindQuery(ginCtx.Request.URL.Query(), &req)
		case http.MethodPost:
			err = ginCtx.ShouldBindJSON(&req)
		default:
			err = errors.New("unsupported method")
		}

		if err != nil {
			ginCtx.JSON(http.StatusBadRequest, newErrorResponse(err))
			return
		}

		ctx := withGinParams(router.baseCtx, ginCtx)
		for _, middleware := range router.middlewares {
			ctx, err = middleware(ctx)
			if err != nil {
				ginCtx.JSON(http.StatusOK, newErrorResponse(err))
				return
			}
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			ginCtx.JSON(http.StatusOK, newErrorResponse(err))
			return
		}

		ginCtx.JSON(http.StatusOK, newResponse(resp))
	}
}

// bindQuery fills req from URL query parameters, matching fields by their
// json tag. Only scalar fields are supported; GET requests never carry
// nested structures.
func bindQuery(query url.Values, req any) error {
	v := reflect.ValueOf(req).Elem()
	for i := 0; i < v.NumField(); i++ {
		name, _, _ := strings.Cut(v.Type().Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}

		queryVal := query.Get(name)
		if queryVal == "" {
			continue
		}

		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(queryVal)

		case reflect.Int, reflect.Int64:
			val, err := strconv.ParseInt(queryVal, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(val)

		case reflect.Bool:
			val, err := strconv.ParseBool(queryVal)
			if err != nil {
				return err
			}
			field.SetBool(val)
		}
	}

	return nil
}
