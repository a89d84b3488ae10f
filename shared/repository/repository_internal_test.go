package repository

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"pxltravel/shared/dto"
	"pxltravel/shared/model"
)

type route struct {
	ID      string `db:"id"`
	Origin  string `db:"origin"`
	Note    string `db:"-"`
	Scratch string
	model.Metadata
}

func TestDBColumns(t *testing.T) {
	assert.Equal(t,
		[]string{"id", "origin", "created_at", "modified_at", "created_by", "modified_by"},
		dbColumns(reflect.TypeFor[route]()),
	)
}

func TestInsertQuery(t *testing.T) {
	assert.Equal(t,
		"INSERT INTO routes (id, origin) VALUES (:id, :origin)",
		insertQuery("routes", []string{"id", "origin"}),
	)
}

func TestUpdateQuery_KeepsSetArgsApartFromFilterArgs(t *testing.T) {
	filter := dto.And(
		dto.Filter{Field: "id", Value: "b-1", Operator: dto.FilterOperatorEq, Table: "bookings"},
		dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorEq, Table: "bookings"},
	)

	where, args := whereClause(filter)
	query := updateQuery("bookings", []string{"modified_by", "status"}, where)

	assert.Equal(t, "UPDATE bookings SET modified_by = :set_modified_by, status = :set_status WHERE (bookings.id = :id AND bookings.status = :status)", query)
	assert.Equal(t, "pending", args["status"])
}

func TestWhereClause_Empty(t *testing.T) {
	where, args := whereClause(dto.FilterGroup{})

	assert.Empty(t, where)
	assert.NotNil(t, args)
}

func TestSelection(t *testing.T) {
	repo := Repository[route]{table: "routes", columns: dbColumns(reflect.TypeFor[route]())}

	assert.Equal(t, "routes.id, routes.origin", repo.selection([]string{"origin", "id", "unknown"}))
	assert.Contains(t, repo.selection(nil), "routes.modified_by")
}
