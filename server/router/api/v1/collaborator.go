package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/usefundoo/fundoo/store"
)

type collaboratorResponse struct {
	ID      int32  `json:"id"`
	NoteID  int32  `json:"noteId"`
	UserID  int32  `json:"userId"`
	Email   string `json:"email"`
	AddedTs int64  `json:"addedTs"`
}

func convertCollaborator(c *store.Collaborator) *collaboratorResponse {
	return &collaboratorResponse{
		ID:      c.ID,
		NoteID:  c.NoteID,
		UserID:  c.UserID,
		Email:   c.Email,
		AddedTs: c.AddedTs,
	}
}

type addCollaboratorRequest struct {
	Email string `json:"email"`
}

// AddCollaborator shares a note with another registered user.
func (s *APIV1Service) AddCollaborator(c echo.Context) error {
	noteID, err := pathID(c, "noteID")
	if err != nil {
		return err
	}
	req := &addCollaboratorRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed collaborator request")
	}

	added, err := s.collaboratorService.Add(c.Request().Context(), currentUserID(c), noteID, req.Email)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, convertCollaborator(added))
}

// ListCollaborators returns the collaborators of a note.
func (s *APIV1Service) ListCollaborators(c echo.Context) error {
	noteID, err := pathID(c, "noteID")
	if err != nil {
		return err
	}

	list, err := s.collaboratorService.List(c.Request().Context(), currentUserID(c), noteID)
	if err != nil {
		return toHTTPError(err)
	}

	out := make([]*collaboratorResponse, 0, len(list))
	for _, collab := range list {
		out = append(out, convertCollaborator(collab))
	}
	return c.JSON(http.StatusOK, out)
}

// RemoveCollaborator revokes a collaborator's access to a note.
func (s *APIV1Service) RemoveCollaborator(c echo.Context) error {
	noteID, err := pathID(c, "noteID")
	if err != nil {
		return err
	}
	collaboratorID, err := pathID(c, "collaboratorID")
	if err != nil {
		return err
	}

	if err := s.collaboratorService.Remove(c.Request().Context(), currentUserID(c), noteID, collaboratorID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
