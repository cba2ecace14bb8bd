// Package v1 exposes the JSON HTTP API.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/usefundoo/fundoo/internal/profile"
	"github.com/usefundoo/fundoo/server/internal/errcode"
	"github.com/usefundoo/fundoo/server/middleware"
	"github.com/usefundoo/fundoo/server/service/collaborator"
	"github.com/usefundoo/fundoo/server/service/label"
	"github.com/usefundoo/fundoo/server/service/note"
	"github.com/usefundoo/fundoo/server/service/user"
	"github.com/usefundoo/fundoo/store"
)

// APIV1Service wires the JSON API routes to the service layer.
type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store

	userService         *user.Service
	noteService         *note.Service
	labelService        *label.Service
	collaboratorService *collaborator.Service
}

// NewAPIV1Service creates the API service.
func NewAPIV1Service(
	prof *profile.Profile,
	st *store.Store,
	userService *user.Service,
	noteService *note.Service,
	labelService *label.Service,
	collaboratorService *collaborator.Service,
) *APIV1Service {
	return &APIV1Service{
		Profile:             prof,
		Store:               st,
		userService:         userService,
		noteService:         noteService,
		labelService:        labelService,
		collaboratorService: collaboratorService,
	}
}

// Register mounts all API routes on the echo instance.
func (s *APIV1Service) Register(e *echo.Echo) {
	root := e.Group("/api/v1")

	// Public routes, rate limited by client IP.
	authGroup := root.Group("/auth", middleware.NewAuthRateLimiter().Middleware())
	authGroup.POST("/signup", s.Signup)
	authGroup.POST("/login", s.Login)
	authGroup.POST("/forgot-password", s.ForgotPassword)
	authGroup.POST("/reset-password", s.ResetPassword)

	// Authenticated routes.
	secured := root.Group("", s.authMiddleware)

	secured.GET("/users/me", s.GetCurrentUser)
	secured.PATCH("/users/me", s.UpdateCurrentUser)

	secured.POST("/notes", s.CreateNote)
	secured.GET("/notes", s.ListNotes)
	secured.GET("/notes/:noteID", s.GetNote)
	secured.PATCH("/notes/:noteID", s.UpdateNote)
	secured.DELETE("/notes/:noteID", s.TrashNote)
	secured.POST("/notes/:noteID/restore", s.RestoreNote)
	secured.DELETE("/notes/:noteID/permanent", s.DeleteNote)
	secured.POST("/notes/:noteID/archive", s.SetNoteArchived)
	secured.POST("/notes/:noteID/pin", s.SetNotePinned)

	secured.POST("/labels", s.CreateLabel)
	secured.GET("/labels", s.ListLabels)
	secured.PATCH("/labels/:labelID", s.RenameLabel)
	secured.DELETE("/labels/:labelID", s.DeleteLabel)
	secured.GET("/labels/:labelID/notes", s.ListNotesByLabel)
	secured.POST("/notes/:noteID/labels/:labelID", s.AttachLabel)
	secured.DELETE("/notes/:noteID/labels/:labelID", s.DetachLabel)

	secured.GET("/notes/:noteID/collaborators", s.ListCollaborators)
	secured.POST("/notes/:noteID/collaborators", s.AddCollaborator)
	secured.DELETE("/notes/:noteID/collaborators/:collaboratorID", s.RemoveCollaborator)
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// toHTTPError maps a service error to an echo HTTP error.
func toHTTPError(err error) error {
	svcErr, ok := err.(*errcode.ServiceError)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, errorResponse{
			Code:    string(errcode.ErrCodeInternal),
			Message: "internal server error",
		})
	}

	status := http.StatusInternalServerError
	message := svcErr.Message
	switch svcErr.Code {
	case errcode.ErrCodeNotFound:
		status = http.StatusNotFound
	case errcode.ErrCodeInvalidArgument:
		status = http.StatusBadRequest
	case errcode.ErrCodeConflict:
		status = http.StatusConflict
	case errcode.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case errcode.ErrCodeFailedPrecondition:
		status = http.StatusPreconditionFailed
	case errcode.ErrCodeInternal:
		// Internal detail stays in the log, not the response.
		message = "internal server error"
	}

	return echo.NewHTTPError(status, errorResponse{
		Code:    string(svcErr.Code),
		Message: message,
	})
}
