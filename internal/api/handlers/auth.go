package handlers

import (
	"net/http"
	"strings"

	"github.com/pratik-mahalle/ytgate/internal/api/dto"
	"github.com/pratik-mahalle/ytgate/internal/auth"
	"github.com/pratik-mahalle/ytgate/internal/domain/account"
	"github.com/pratik-mahalle/ytgate/internal/pkg/errors"
	"github.com/pratik-mahalle/ytgate/internal/pkg/logger"
	"github.com/pratik-mahalle/ytgate/internal/pkg/utils"
	"github.com/pratik-mahalle/ytgate/internal/pkg/validator"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	accounts  account.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts account.Service, log *logger.Logger, val *validator.Validator) *AuthHandler {
	return &AuthHandler{
		accounts:  accounts,
		logger:    log,
		validator: val,
	}
}

// Register handles account registration
// @Summary Register an account
// @Description Create a free account with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.RegisterResponse "Account created"
// @Failure 400 {object} utils.ErrorResponse "Invalid input"
// @Failure 500 {object} utils.ErrorResponse "User already exists or server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, errors.BadRequest("Email and password are required"))
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Email and password are required", validationErrs))
		return
	}

	a, err := h.accounts.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrPasswordTooLong):
			utils.WriteError(w, errors.BadRequest("Password must be at most 72 bytes"))
		case errors.Is(err, errors.ErrInvalidInput):
			utils.WriteError(w, errors.BadRequest("Email and password are required"))
		case errors.Is(err, errors.ErrAlreadyExists):
			utils.WriteError(w, errors.AlreadyExists())
		default:
			h.logger.ErrorWithErr(err, "Registration failed")
			utils.WriteError(w, errors.AlreadyExists())
		}
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, dto.RegisterResponse{
		ID:      a.ID,
		Email:   a.Email,
		Message: "User registered successfully",
	})
}

// Login handles user login
// @Summary User login
// @Description Authenticate with email and password and receive a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse "Session token"
// @Failure 400 {object} utils.ErrorResponse "Invalid credentials"
// @Failure 500 {object} utils.ErrorResponse "Server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Email and password are required", validationErrs))
		return
	}

	sess, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errors.ErrInvalidCredentials), errors.Is(err, errors.ErrInvalidInput):
			utils.WriteError(w, errors.InvalidCredentials())
		default:
			h.logger.ErrorWithErr(err, "Login failed")
			utils.WriteError(w, errors.Internal("Server error", err))
		}
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.LoginResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
	})
}
