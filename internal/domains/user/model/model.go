package model

import (
	"time"

	"pxltravel/shared/constant"
	"pxltravel/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldRole      = "role"
	FieldFullName  = "full_name"
	FieldPhone     = "phone"
	FieldLastLogin = "last_login"
	FieldActive    = "active"
)

// Sortable lists the columns a listing may order by.
var Sortable = []string{constant.FieldCreatedAt, FieldEmail, FieldFullName, FieldRole}

type User struct {
	ID        string     `db:"id"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	FullName  string     `db:"full_name"`
	Phone     *string    `db:"phone"`
	Role      string     `db:"role"`
	Active    bool       `db:"active"`
	LastLogin *time.Time `db:"last_login"`
	model.Metadata
}
