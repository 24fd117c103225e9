package utils

import (
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// ListParams carries the pagination window of a list request.
type ListParams struct {
	Skip       uint64
	Limit      uint64
	ActiveOnly bool
}

// ParseListParams reads skip/limit/active_only from the query string,
// clamping the limit and defaulting active_only to true.
func ParseListParams(values url.Values) ListParams {
	params := ListParams{
		Skip:       0,
		Limit:      DefaultLimit,
		ActiveOnly: true,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.ParseUint(limitStr, 10, 64); err == nil && l > 0 {
			if l > MaxLimit {
				params.Limit = MaxLimit
			} else {
				params.Limit = l
			}
		}
	}

	if skipStr := values.Get("skip"); skipStr != "" {
		if s, err := strconv.ParseUint(skipStr, 10, 64); err == nil {
			params.Skip = s
		}
	}

	if activeStr := values.Get("active_only"); activeStr != "" {
		if b, err := strconv.ParseBool(activeStr); err == nil {
			params.ActiveOnly = b
		}
	}

	return params
}
