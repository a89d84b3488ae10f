// Package repository holds the generic postgres store embedded by each domain repository.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pxltravel/infras/otel"
	"pxltravel/infras/postgres"
	"pxltravel/shared/constant"
	"pxltravel/shared/dto"
	"pxltravel/shared/logger"
)

var (
	errRequiredFilter = errors.New("required filter")

	// ErrUniqueViolation wraps inserts rejected by a unique constraint.
	ErrUniqueViolation = errors.New("unique constraint violated")

	// ErrNoRowsAffected wraps updates whose filter matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")
)

// setPrefix keeps SET arguments apart from filter arguments on the same column.
const setPrefix = "set_"

// Repository maps rows of one table onto T using its db tags.
type Repository[T any] struct {
	db      *postgres.Connection
	otel    otel.Otel
	table   string
	entity  string
	key     string
	columns []string
}

func NewRepository[T any](entity, table, key string, db *postgres.Connection, otl otel.Otel) Repository[T] {
	return Repository[T]{
		db:      db,
		otel:    otl,
		table:   table,
		entity:  entity,
		key:     key,
		columns: dbColumns(reflect.TypeFor[T]()),
	}
}

func (repo *Repository[T]) scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+repo.entity+"."+op)
}

// read prepares query against the read pool and hands the statement to run.
func (repo *Repository[T]) read(ctx context.Context, scope otel.Scope, op, query string, run func(*sqlx.NamedStmt) error) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return repo.fail(scope, "prepare "+op, err)
	}
	defer stmt.Close()

	if err = run(stmt); err != nil {
		return repo.fail(scope, op, err)
	}

	return nil
}

func (repo *Repository[T]) fail(scope otel.Scope, op string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", op, repo.entity, err)
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.scope(ctx, "Insert")
	defer scope.End()

	query := insertQuery(repo.table, repo.columns)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := repo.db.Write.NamedExecContext(ctx, query, model); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeUniqueViolation {
			scope.TraceError(err)

			return fmt.Errorf("failed to insert (%s): %w: %s", repo.entity, ErrUniqueViolation, pqErr.Constraint)
		}

		return repo.fail(scope, "insert", err)
	}

	return nil
}

// Exist refuses an empty filter so it can never answer for the whole table.
func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	var exist bool

	err := repo.read(ctx, scope, "check existence", fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s%s)", repo.table, where), func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &exist, args)
	})

	return exist, err
}

// Get returns the zero T when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "Get")
	defer scope.End()

	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT %s FROM %s%s", repo.selection(columns), repo.table, where)

	var model T

	err := repo.read(ctx, scope, "get", query, func(stmt *sqlx.NamedStmt) error {
		if err := stmt.GetContext(ctx, &model, args); !errors.Is(err, sql.ErrNoRows) {
			return err //nolint:wrapcheck
		}

		return nil
	})

	return model, err
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	where, args := whereClause(filter)

	var query strings.Builder

	fmt.Fprintf(&query, "SELECT %s FROM %s%s", repo.selection(columns), repo.table, where)

	if params.SortBy != "" && params.SortDir != "" {
		fmt.Fprintf(&query, " ORDER BY %s %s", params.SortBy, params.SortDir)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		args["offset"] = params.Offset()

		query.WriteString(" LIMIT :limit OFFSET :offset")
	}

	var models []T

	err := repo.read(ctx, scope, "list", query.String(), func(stmt *sqlx.NamedStmt) error {
		return stmt.SelectContext(ctx, &models, args)
	})

	return models, err
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	where, args := whereClause(filter)

	var count int

	err := repo.read(ctx, scope, "count", fmt.Sprintf("SELECT COUNT(%s) FROM %s%s", repo.key, repo.table, where), func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &count, args)
	})

	return count, err
}

// Update sets the given columns on every row the filter matches and reports ErrNoRowsAffected when there were none.
func (repo *Repository[T]) Update(ctx context.Context, fields map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "Update")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	query := updateQuery(repo.table, slices.Sorted(maps.Keys(fields)), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)
	for col, value := range fields {
		args[setPrefix+col] = value
	}

	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		return repo.fail(scope, "update", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("failed to update (%s): %w", repo.entity, ErrNoRowsAffected)
	}

	return nil
}

// selection keeps the requested columns that T actually maps, or all of them.
func (repo *Repository[T]) selection(wanted []string) string {
	if len(wanted) == 0 {
		return strings.Join(qualify(repo.table, repo.columns), ", ")
	}

	picked := slices.DeleteFunc(slices.Clone(repo.columns), func(col string) bool {
		return !slices.Contains(wanted, col)
	})

	return strings.Join(qualify(repo.table, picked), ", ")
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return " WHERE " + where, args
}

func insertQuery(table string, columns []string) string {
	named := make([]string, len(columns))
	for i, col := range columns {
		named[i] = ":" + col
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(named, ", "))
}

func updateQuery(table string, columns []string, where string) string {
	set := make([]string, len(columns))
	for i, col := range columns {
		set[i] = col + " = :" + setPrefix + col
	}

	return fmt.Sprintf("UPDATE %s SET %s%s", table, strings.Join(set, ", "), where)
}

func qualify(table string, columns []string) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = table + "." + col
	}

	return out
}

// dbColumns walks t in field order, flattening embedded structs.
func dbColumns(t reflect.Type) []string {
	var columns []string

	for i := range t.NumField() {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, dbColumns(field.Type)...)

			continue
		}

		if tag := field.Tag.Get("db"); tag != "" && tag != "-" {
			columns = append(columns, tag)
		}
	}

	return columns
}
