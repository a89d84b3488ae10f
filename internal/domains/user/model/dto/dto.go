package dto

import (
	"strings"

	"pxltravel/internal/domains/user/model"
	"pxltravel/shared"
	"pxltravel/shared/constant"
	gDto "pxltravel/shared/dto"
	"pxltravel/shared/timezone"
)

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	Phone     *string `json:"phone,omitempty"`
	Role      string  `json:"role"`
	Active    bool    `json:"active"`
	LastLogin *string `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.Email = user.Email
	r.FullName = user.FullName
	r.Phone = user.Phone
	r.Role = user.Role
	r.Active = user.Active
	r.LastLogin = nil

	if user.LastLogin != nil {
		lastLogin := timezone.Format(*user.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}

	r.Metadata = gDto.NewMetadata(user.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=regular admin super_admin"`
}

type updateRoleFields struct {
	Role string `db:"role"`
}

// ToFields returns the column map for the role change.
func (r *UpdateRoleRequest) ToFields(actor string) map[string]any {
	return shared.TransformFields(updateRoleFields{Role: r.Role}, actor)
}

// NormalizeEmail is the stored and compared form of an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
