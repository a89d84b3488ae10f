package dto

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"pxltravel/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// NewQueryParams reads page, limit, sort_by and sort_dir. Missing or malformed paging falls back
// to the defaults and limit is capped at MaxValueLimit.
func NewQueryParams(values url.Values) QueryParams {
	q := QueryParams{
		Page:   positive(values.Get(constant.RequestParamPage), constant.DefaultValuePage),
		Limit:  min(positive(values.Get(constant.RequestParamLimit), constant.DefaultValueLimit), constant.MaxValueLimit),
		SortBy: strings.TrimSpace(values.Get(constant.RequestParamSortBy)),
	}

	if dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir == SortDirAsc || dir == SortDirDesc {
		q.SortDir = dir
	}

	return q
}

func positive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}

	return n
}

// Offset is the number of rows before the requested page.
func (q QueryParams) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}

// Restrict keeps SortBy only when it names one of the sortable columns, since it is
// interpolated into ORDER BY. Otherwise the given default ordering applies.
func (q *QueryParams) Restrict(sortable []string, defaultSortBy, defaultSortDir string) {
	if !slices.Contains(sortable, q.SortBy) {
		q.SortBy = defaultSortBy
		q.SortDir = defaultSortDir
	}

	if q.SortDir == constant.Empty {
		q.SortDir = defaultSortDir
	}
}
