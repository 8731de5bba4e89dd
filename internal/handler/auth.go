package handler

import (
	"errors"
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/bus-ticket-booking/internal/config"     // app configuration
	"github.com/iliyamo/bus-ticket-booking/internal/model"      // row types
	"github.com/iliyamo/bus-ticket-booking/internal/repository" // DB repositories
	"github.com/iliyamo/bus-ticket-booking/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD, optional
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register: hash the password and create the user.  No token is issued;
// the client logs in afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	req.Email = repository.NormalizeEmail(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "fullName, email and password are required"})
	}
	nu := model.NewUser{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Gender:   req.Gender,
	}
	if s := strings.TrimSpace(req.DateOfBirth); s != "" {
		dob, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "dateOfBirth must be YYYY-MM-DD"})
		}
		nu.DateOfBirth = &dob
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// fast path; the unique index still decides under a race
	exists, err := h.Users.EmailExists(ctx, req.Email)
	if err != nil {
		c.Logger().Errorf("request_id=%s email lookup: %v", requestID(c), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Database error occurred"})
	}
	if exists {
		return respondError(c, repository.ErrEmailExists, "")
	}

	hash, err := utils.HashPassword(nu.Password, h.Cfg.BcryptCost)
	if err != nil {
		c.Logger().Errorf("request_id=%s hash password: %v", requestID(c), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Error processing request"})
	}
	uid, err := h.Users.Create(ctx, nu, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return respondError(c, err, "")
		}
		c.Logger().Errorf("request_id=%s create user: %v", requestID(c), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Registration failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Registration successful",
		"userId":  uid,
	})
}

// Login: verify the password and return a one hour access token together
// with the user row (never the hash).
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Email = repository.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Please provide email and password"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
		}
		c.Logger().Errorf("request_id=%s login lookup: %v", requestID(c), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	}

	ttl := time.Duration(h.Cfg.AccessTTLMin) * time.Minute
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, ttl)
	if err != nil {
		c.Logger().Errorf("request_id=%s issue token: %v", requestID(c), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   access.Token,
		"user":    u,
	})
}
