package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/usefundoo/fundoo/server/auth"
	"github.com/usefundoo/fundoo/server/service/user"
)

// userIDContextKey is the echo context key holding the authenticated user id.
const userIDContextKey = "user-id"

// authMiddleware authenticates requests by bearer token.
func (s *APIV1Service) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractBearerToken(c.Request())
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		userID, err := auth.ParseAccessToken(token, s.Profile.Secret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		c.Set(userIDContextKey, userID)
		return next(c)
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	if after, found := strings.CutPrefix(header, "Bearer "); found {
		return after
	}
	return ""
}

func currentUserID(c echo.Context) int32 {
	id, _ := c.Get(userIDContextKey).(int32)
	return id
}

type signupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Signup registers a new account.
func (s *APIV1Service) Signup(c echo.Context) error {
	req := &signupRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed signup request")
	}

	created, err := s.userService.Register(c.Request().Context(), &user.RegisterRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, convertUser(created))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string        `json:"accessToken"`
	User        *userResponse `json:"user"`
}

// Login verifies credentials and returns an access token.
func (s *APIV1Service) Login(c echo.Context) error {
	req := &loginRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed login request")
	}

	token, loggedIn, err := s.userService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, &loginResponse{
		AccessToken: token,
		User:        convertUser(loggedIn),
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword mails a reset token to the given address.
func (s *APIV1Service) ForgotPassword(c echo.Context) error {
	req := &forgotPasswordRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	if err := s.userService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword sets a new password using a reset token.
func (s *APIV1Service) ResetPassword(c echo.Context) error {
	req := &resetPasswordRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	if err := s.userService.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
