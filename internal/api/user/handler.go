package user

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arturocg96/EduTrackAPI/internal/api/response"
	"github.com/arturocg96/EduTrackAPI/internal/model"
	"github.com/arturocg96/EduTrackAPI/internal/service"
)

// Handler serves the user endpoints
type Handler struct {
	users   *service.UserService
	limiter *service.LoginRateLimit
	log     *zap.Logger
}

// NewHandler creates a user Handler. A nil limiter disables login throttling.
func NewHandler(users *service.UserService, limiter *service.LoginRateLimit, log *zap.Logger) *Handler {
	return &Handler{users: users, limiter: limiter, log: log}
}

// List returns every user with their roles
func (h *Handler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		response.Internal(c, h.log, "Failed to list users", err)
		return
	}

	c.JSON(http.StatusOK, model.ToUserDTOs(users))
}

// Get returns a single user
func (h *Handler) Get(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Internal(c, h.log, "Failed to get user", err)
		return
	}
	if user == nil {
		response.NotFound(c, "User not found")
		return
	}

	c.JSON(http.StatusOK, model.ToUserDTO(user))
}

// Register handles user registration
func (h *Handler) Register(c *gin.Context) {
	var req model.UserRegisterDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	switch {
	case errors.Is(err, service.ErrUsernameExists):
		response.BadRequest(c, "Username already exists")
		return
	case errors.Is(err, service.ErrWeakPassword):
		response.BadRequest(c, "Password does not meet the requirements", err.Error())
		return
	case errors.Is(err, service.ErrRegistrationFailed):
		response.BadRequest(c, "Registration failed")
		return
	case err != nil:
		response.Internal(c, h.log, "Registration failed", err)
		return
	}

	location := strings.TrimSuffix(c.Request.URL.Path, "/register") + "/" + user.ID
	c.Header("Location", location)
	c.JSON(http.StatusCreated, user)
}

// Login handles user login
func (h *Handler) Login(c *gin.Context) {
	if h.limiter != nil && !h.limiter.Allow(c.ClientIP()) {
		response.Error(c, http.StatusTooManyRequests, "Too many login attempts, try again later")
		return
	}

	var req model.UserLoginDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	resp, err := h.users.Login(c.Request.Context(), req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.log.Info("Login rejected", zap.String("username", req.Username), zap.String("ip", c.ClientIP()))
		response.BadRequest(c, "Invalid username or password")
		return
	}
	if err != nil {
		response.Internal(c, h.log, "Login failed", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
