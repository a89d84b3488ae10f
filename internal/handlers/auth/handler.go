package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pxltravel/infras/otel"
	"pxltravel/internal/domains/auth/model/dto"
	"pxltravel/internal/domains/auth/service"
	"pxltravel/internal/handlers"
	"pxltravel/shared/access"
	"pxltravel/shared/constant"
	"pxltravel/transport/http/response"
)

type Handler struct {
	service service.Auth
	otel    otel.Otel
}

func New(service service.Auth, otel otel.Otel) Handler {
	return Handler{service: service, otel: otel}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
		r.Post("/refresh-token", handler.RefreshToken)
		r.Post("/logout", handler.Logout)
		r.Get("/session", handler.Session)
	})
}

// Register opens a regular account.
// @Summary Register a new user
// @Description Register a regular account. Emails are unique, case-insensitively.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} response.Data[userDto.UserResponse] "Registered account"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/auth/register [post]
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Register")
	defer scope.End()

	req, ok := handlers.Bind[dto.RegisterRequest](w, r, scope)
	if !ok {
		return
	}

	res, err := handler.service.Register(ctx, req)
	if err != nil {
		handlers.Fail(w, scope, "failed to register user", err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// Login exchanges credentials for a token pair.
// @Summary Login a user
// @Description Exchange credentials for an access and refresh token pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Data[dto.LoginResponse] "User logged in successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/auth/login [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Login")
	defer scope.End()

	req, ok := handlers.Bind[dto.LoginRequest](w, r, scope)
	if !ok {
		return
	}

	res, err := handler.service.Login(ctx, req)
	if err != nil {
		handlers.Fail(w, scope, "failed to login user", err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// RefreshToken rotates a refresh token into a new pair.
// @Summary Refresh user token
// @Description Refresh user token using the provided refresh token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Data[dto.RefreshTokenResponse] "Token refreshed successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/auth/refresh-token [post]
func (handler *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RefreshToken")
	defer scope.End()

	req, ok := handlers.Bind[dto.RefreshTokenRequest](w, r, scope)
	if !ok {
		return
	}

	res, err := handler.service.RefreshToken(ctx, req)
	if err != nil {
		handlers.Fail(w, scope, "failed to refresh token", err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Logout revokes the current session. The body is optional.
// @Summary Logout
// @Description Revoke the access token and, when given, its refresh token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LogoutRequest false "Logout Request"
// @Success 200 {object} response.Message "Logged out"
// @Failure 401 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/auth/logout [post]
// @Security BearerAuth
func (handler *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Logout")
	defer scope.End()

	var req dto.LogoutRequest

	if r.ContentLength > 0 {
		var ok bool
		if req, ok = handlers.Bind[dto.LogoutRequest](w, r, scope); !ok {
			return
		}
	}

	if err := handler.service.Logout(ctx, access.FromContext(ctx), req); err != nil {
		handlers.Fail(w, scope, "failed to logout", err)

		return
	}

	scope.AddEvent("session revoked")

	response.WithMessage(w, http.StatusOK, "Logged out")
}

// Session describes the signed-in user.
// @Summary Current session
// @Description Return the signed-in user and when the session expires.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Data[dto.SessionResponse] "Current session"
// @Failure 401 {object} response.Error
// @Router /v1/auth/session [get]
// @Security BearerAuth
func (handler *Handler) Session(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Session")
	defer scope.End()

	res, err := handler.service.Session(ctx, access.FromContext(ctx))
	if err != nil {
		handlers.Fail(w, scope, "failed to describe session", err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
