package shared

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"pxltravel/shared/cache"
	"pxltravel/shared/constant"
	"pxltravel/shared/dto"
	"pxltravel/shared/failure"
	"pxltravel/shared/timezone"
)

const (
	cacheKeySeparator = ":"
)

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func ConvertStringToInt(value string) (int, error) {
	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("failed to convert string to int: %w", err)
	}

	return intValue, nil
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the non-zero db-tagged fields of a struct into a column map for Update.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return FilterByField(fieldID, id, table)
}

func FilterByField(field string, value any, table string) dto.FilterGroup {
	return dto.And(dto.Filter{
		Field:    field,
		Value:    value,
		Operator: dto.FilterOperatorEq,
		Table:    table,
	})
}

// FilterByQuery ANDs an equality filter for each named query parameter that is present and non-blank.
func FilterByQuery(query url.Values, table string, fields ...string) dto.FilterGroup {
	group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}

	for _, field := range fields {
		value := strings.TrimSpace(query.Get(field))
		if value == constant.Empty {
			continue
		}

		group.Filters = append(group.Filters, dto.Filter{
			Field:    field,
			Value:    value,
			Operator: dto.FilterOperatorEq,
			Table:    table,
		})
	}

	return group
}

// WithDateRange adds inclusive date_from and date_to bounds on field. Both take YYYY-MM-DD.
func WithDateRange(group dto.FilterGroup, query url.Values, table, field string) (dto.FilterGroup, error) {
	bounds := []struct {
		param    string
		operator string
	}{
		{constant.RequestParamDateFrom, dto.FilterOperatorGreaterEq},
		{constant.RequestParamDateTo, dto.FilterOperatorLessEq},
	}

	for _, bound := range bounds {
		raw := strings.TrimSpace(query.Get(bound.param))
		if raw == constant.Empty {
			continue
		}

		date, err := timezone.ParseDate(raw)
		if err != nil {
			return group, failure.BadRequestFromString(bound.param + " must be a date in YYYY-MM-DD format") //nolint:wrapcheck
		}

		group.Filters = append(group.Filters, dto.Filter{
			ArgName:  bound.param,
			Field:    field,
			Value:    date,
			Operator: bound.operator,
			Table:    table,
		})
	}

	return group, nil
}

// BuildCacheKey joins a prefix and its parts, e.g. booking:get:<id>.
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery keys a listing by a digest of its paging and filters.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup, parts ...string) string {
	where, args := filter.GetWhereClause()

	payload, err := json.Marshal(struct {
		Params dto.QueryParams `json:"params"`
		Where  string          `json:"where"`
		Args   map[string]any  `json:"args"`
	}{params, where, args})
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to marshal cache query")
	}

	sum := sha256.Sum256(payload)

	return BuildCacheKey(prefix, append(parts, hex.EncodeToString(sum[:8]))...)
}

// InvalidateCaches removes every key under prefix.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+cacheKeySeparator+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
