package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
	"github.com/iliyamo/bus-ticket-booking/internal/repository"
)

type ProfileHandler struct {
	Users *repository.UserRepo
}

func NewProfileHandler(u *repository.UserRepo) *ProfileHandler { return &ProfileHandler{Users: u} }

// Pointer fields tell "absent" apart from "set to empty".
type updateProfileReq struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

// GetProfile returns the caller's user row without the password hash.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		c.Logger().Errorf("request_id=%s get profile: %v", requestID(c), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching profile"})
	}
	return c.JSON(http.StatusOK, u)
}

// UpdateProfile applies a partial update of full_name, phone and address.
// Fields missing from the body keep their stored value.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	patch := model.ProfilePatch{FullName: req.FullName, Phone: req.Phone, Address: req.Address}
	if patch.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "nothing to update"})
	}
	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "full_name must not be empty"})
		}
		patch.FullName = &name
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, uid, patch, time.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		c.Logger().Errorf("request_id=%s update profile: %v", requestID(c), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating profile"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated successfully"})
}
