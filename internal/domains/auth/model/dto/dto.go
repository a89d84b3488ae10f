package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"pxltravel/infras/jwt"
	userModel "pxltravel/internal/domains/user/model"
	userDto "pxltravel/internal/domains/user/model/dto"
	"pxltravel/shared/access"
	"pxltravel/shared/constant"
	gModel "pxltravel/shared/model"
	"pxltravel/shared/timezone"
)

type RegisterRequest struct {
	Email    string  `json:"email"           validate:"required,email,max=254"`
	Password string  `json:"password"        validate:"required,min=6,max=72"`
	FullName string  `json:"full_name"       validate:"required,min=2,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10,max=20"`
}

// ToUserModel builds a regular, active account. Email is stored lower-cased.
func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	var phone *string

	if r.Phone != nil {
		if trimmed := strings.TrimSpace(*r.Phone); trimmed != constant.Empty {
			phone = &trimmed
		}
	}

	return userModel.User{
		ID:       uuid.NewString(),
		Email:    userDto.NormalizeEmail(r.Email),
		Password: hashedPassword,
		FullName: strings.TrimSpace(r.FullName),
		Phone:    phone,
		Role:     string(access.RoleRegular),
		Active:   true,
		Metadata: gModel.NewMetadata(timezone.Now(), constant.ContextGuest),
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    string `json:"expires_at"`
}

func (r *TokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.TokenType = tokenPair.TokenType
	r.ExpiresIn = tokenPair.ExpiresIn
	r.ExpiresAt = timezone.Format(tokenPair.ExpiresAt, constant.DateFormat)
}

type LoginResponse struct {
	TokenResponse
	User userDto.UserResponse `json:"user"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	TokenResponse
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// SessionUser is the copy of the account cached per session.
type SessionUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

func (u *SessionUser) FromModel(user userModel.User) {
	u.ID = user.ID
	u.Email = user.Email
	u.FullName = user.FullName
	u.Role = user.Role
	u.Active = user.Active
}

type SessionResponse struct {
	User      SessionUser `json:"user"`
	ExpiresAt string      `json:"expires_at"`
}
