package controller

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/jbeshir/template-catalog/internal/domain"
)

type pageLimits struct {
	DefaultSize int
	MaxSize     int
}

var templatePageLimits = pageLimits{DefaultSize: 50, MaxSize: 200}

// parsePagination reads page and page_size. Both are 1-based; malformed or out of range
// values wrap domain.ErrValidationFailed.
func parsePagination(q url.Values, limits pageLimits) (page, pageSize int, err error) {
	page, err = positiveQueryInt(q, "page", 1)
	if err != nil {
		return 0, 0, err
	}

	pageSize, err = positiveQueryInt(q, "page_size", limits.DefaultSize)
	if err != nil {
		return 0, 0, err
	}
	if pageSize > limits.MaxSize {
		return 0, 0, fmt.Errorf("%w: page size [%d] exceeds limit [%d]",
			domain.ErrValidationFailed, pageSize, limits.MaxSize)
	}

	return page, pageSize, nil
}

func positiveQueryInt(q url.Values, name string, def int) (int, error) {
	if !q.Has(name) {
		return def, nil
	}

	v, err := strconv.ParseInt(q.Get(name), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: unable to parse %s from query: %w", domain.ErrValidationFailed, name, err)
	}
	if v < 1 {
		return 0, fmt.Errorf("%w: invalid %s value [%d]", domain.ErrValidationFailed, name, v)
	}
	return int(v), nil
}
