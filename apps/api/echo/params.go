package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// paramID parses the integer path parameter `name`.
func paramID(ctx echo.Context, name string) (int64, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// queryID parses the optional integer query parameter `name`; nil when absent.
func queryID(ctx echo.Context, name string) (*int64, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.Errorf("invalid %s %q", name, raw)
	}
	return &id, nil
}
