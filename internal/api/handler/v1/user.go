package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/buckutt/buckutt-api/internal/api/handler/v1/response"
	"github.com/buckutt/buckutt-api/internal/api/middleware"
	"github.com/buckutt/buckutt-api/internal/domain"
	"github.com/buckutt/buckutt-api/internal/service"
)

var errNoAuthenticatedUser = errors.New("no authenticated user")

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetUser godoc
// @Summary      Get a user and its credit
// @Tags         users
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200     {object}  response.User
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /users/{userID} [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid user ID")))
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), uint(userID))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewUser(user))
}

// sellerIDFromContext returns the id the JWT middleware authenticated.
func sellerIDFromContext(ctx *gin.Context) (uint, *response.Err) {
	id := ctx.GetUint(middleware.UserIDKey)
	if id == 0 {
		return 0, response.ErrUnauthorized(errNoAuthenticatedUser)
	}

	return id, nil
}
