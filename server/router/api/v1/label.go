package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/usefundoo/fundoo/store"
)

type labelResponse struct {
	ID        int32  `json:"id"`
	CreatorID int32  `json:"creatorId"`
	Name      string `json:"name"`
	CreatedTs int64  `json:"createdTs"`
}

func convertLabel(l *store.Label) *labelResponse {
	return &labelResponse{
		ID:        l.ID,
		CreatorID: l.CreatorID,
		Name:      l.Name,
		CreatedTs: l.CreatedTs,
	}
}

type createLabelRequest struct {
	Name string `json:"name"`
	// NoteID, when given, attaches the new label to the note in one call.
	NoteID *int32 `json:"noteId"`
}

// CreateLabel stores a new label, optionally attached to a note.
func (s *APIV1Service) CreateLabel(c echo.Context) error {
	req := &createLabelRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed label request")
	}

	created, err := s.labelService.Create(c.Request().Context(), currentUserID(c), req.Name, req.NoteID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, convertLabel(created))
}

// ListLabels returns the user's labels.
func (s *APIV1Service) ListLabels(c echo.Context) error {
	list, err := s.labelService.List(c.Request().Context(), currentUserID(c))
	if err != nil {
		return toHTTPError(err)
	}

	out := make([]*labelResponse, 0, len(list))
	for _, l := range list {
		out = append(out, convertLabel(l))
	}
	return c.JSON(http.StatusOK, out)
}

type renameLabelRequest struct {
	Name string `json:"name"`
}

// RenameLabel changes a label's name.
func (s *APIV1Service) RenameLabel(c echo.Context) error {
	labelID, err := pathID(c, "labelID")
	if err != nil {
		return err
	}
	req := &renameLabelRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed label request")
	}

	renamed, err := s.labelService.Rename(c.Request().Context(), currentUserID(c), labelID, req.Name)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertLabel(renamed))
}

// DeleteLabel removes a label and its note links.
func (s *APIV1Service) DeleteLabel(c echo.Context) error {
	labelID, err := pathID(c, "labelID")
	if err != nil {
		return err
	}

	if err := s.labelService.Delete(c.Request().Context(), currentUserID(c), labelID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListNotesByLabel returns the user's notes linked to a label.
func (s *APIV1Service) ListNotesByLabel(c echo.Context) error {
	labelID, err := pathID(c, "labelID")
	if err != nil {
		return err
	}

	list, err := s.labelService.NotesByLabel(c.Request().Context(), currentUserID(c), labelID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertNoteList(list))
}

// AttachLabel links a label to a note.
func (s *APIV1Service) AttachLabel(c echo.Context) error {
	noteID, err := pathID(c, "noteID")
	if err != nil {
		return err
	}
	labelID, err := pathID(c, "labelID")
	if err != nil {
		return err
	}

	if err := s.labelService.Attach(c.Request().Context(), currentUserID(c), noteID, labelID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DetachLabel unlinks a label from a note.
func (s *APIV1Service) DetachLabel(c echo.Context) error {
	noteID, err := pathID(c, "noteID")
	if err != nil {
		return err
	}
	labelID, err := pathID(c, "labelID")
	if err != nil {
		return err
	}

	if err := s.labelService.Detach(c.Request().Context(), currentUserID(c), noteID, labelID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
