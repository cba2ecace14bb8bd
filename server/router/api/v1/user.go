package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/usefundoo/fundoo/server/service/user"
	"github.com/usefundoo/fundoo/store"
)

type userResponse struct {
	ID        int32  `json:"id"`
	UID       string `json:"uid"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	CreatedTs int64  `json:"createdTs"`
}

func convertUser(u *store.User) *userResponse {
	return &userResponse{
		ID:        u.ID,
		UID:       u.UID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedTs: u.CreatedTs,
	}
}

// GetCurrentUser returns the authenticated user's profile.
func (s *APIV1Service) GetCurrentUser(c echo.Context) error {
	found, err := s.userService.Get(c.Request().Context(), currentUserID(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertUser(found))
}

type updateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Password  *string `json:"password"`
}

// UpdateCurrentUser applies a partial update to the authenticated user.
func (s *APIV1Service) UpdateCurrentUser(c echo.Context) error {
	req := &updateUserRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed update request")
	}

	updated, err := s.userService.Update(c.Request().Context(), currentUserID(c), &user.UpdateRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertUser(updated))
}
