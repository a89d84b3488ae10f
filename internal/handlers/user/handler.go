package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pxltravel/infras/otel"
	"pxltravel/internal/domains/user/model"
	"pxltravel/internal/domains/user/model/dto"
	"pxltravel/internal/domains/user/service"
	"pxltravel/internal/handlers"
	"pxltravel/shared"
	"pxltravel/shared/access"
	"pxltravel/shared/constant"
	gDto "pxltravel/shared/dto"
	"pxltravel/transport/http/response"
)

type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{service: service, otel: otel}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", handler.GetUsers)
		r.Patch("/{id}/role", handler.UpdateRole)
	})
}

// GetUsers lists accounts, filtered by email or role.
// @Summary Get all users
// @Description Super admins list accounts with optional filtering and pagination.
// @Tags User
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param email query string false "Filter by email"
// @Param role query string false "Filter by role"
// @Success 200 {object} response.Data[dto.GetUsersResponse] "List of users"
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/users [get]
// @Security BearerAuth
func (handler *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUsers")
	defer scope.End()

	query := r.URL.Query()
	params := gDto.NewQueryParams(query)
	filter := shared.FilterByQuery(query, model.TableName, model.FieldEmail, model.FieldRole)

	users, err := handler.service.GetAll(ctx, access.FromContext(ctx), params, filter)
	if err != nil {
		handlers.Fail(w, scope, "failed to get users", err)

		return
	}

	response.WithJSON(w, http.StatusOK, users)
}

// UpdateRole changes the role of an account.
// @Summary Change a user's role
// @Description Super admins promote or demote an account.
// @Tags User
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateRoleRequest true "Update Role Request"
// @Success 200 {object} response.Data[dto.UserResponse] "Updated user"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/users/{id}/role [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRole")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	scope.SetAttribute("user.id", id)

	req, ok := handlers.Bind[dto.UpdateRoleRequest](w, r, scope)
	if !ok {
		return
	}

	user, err := handler.service.UpdateRole(ctx, access.FromContext(ctx), id, req)
	if err != nil {
		handlers.Fail(w, scope, "failed to update user role", err)

		return
	}

	response.WithJSON(w, http.StatusOK, user)
}
