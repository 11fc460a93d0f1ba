package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-directory-service/internal/usecase/user"
	apperrors "user-directory-service/pkg/errors"
	"user-directory-service/pkg/logger"
)

// RetryAfterSeconds is advertised on 503 responses.
const RetryAfterSeconds = "1"

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// UserRequest is the HTTP request body for creating or replacing a user.
type UserRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,max=72"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func toUserResponse(u *user.UserResponse) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("invalid user id", zap.String("id", idStr))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "invalid_id",
			Detail: "User ID must be a valid number",
		})
		return 0, false
	}
	return id, true
}

func (h *UserHandler) bindUser(c *gin.Context) (UserRequest, bool) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("invalid user request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "validation_error",
			Detail: err.Error(),
		})
		return req, false
	}
	return req, true
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i := range resp.Users {
		users[i] = toUserResponse(&resp.Users[i])
	}

	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(resp))
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	req, ok := h.bindUser(c)
	if !ok {
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(resp))
}

// UpdateUser handles PUT /users/:id. The body replaces all fields.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	req, ok := h.bindUser(c)
	if !ok {
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(resp))
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{Message: resp.Message, ID: resp.ID})
}

// handleError converts usecase errors to HTTP responses.
// A taken email is reported as 400, not 409, to match existing clients.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var (
		notFound    *apperrors.NotFoundError
		conflict    *apperrors.ConflictError
		validation  *apperrors.ValidationError
		unavailable *apperrors.UnavailableError
	)

	log := logger.WithContext(c.Request.Context(), h.log)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Detail: notFound.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "already_exists", Detail: conflict.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Detail: validation.Error()})
	case errors.As(err, &unavailable):
		log.Error("storage backend unavailable", zap.Error(err))
		c.Header("Retry-After", RetryAfterSeconds)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "backend_unavailable", Detail: unavailable.Message})
	default:
		log.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Detail: "An internal error occurred"})
	}
}
