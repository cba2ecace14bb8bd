package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/usefundoo/fundoo/server/service/note"
	"github.com/usefundoo/fundoo/store"
)

type noteResponse struct {
	ID          int32   `json:"id"`
	UID         string  `json:"uid"`
	CreatorID   int32   `json:"creatorId"`
	CreatedTs   int64   `json:"createdTs"`
	UpdatedTs   int64   `json:"updatedTs"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Colour      string  `json:"colour"`
	Image       string  `json:"image"`
	Pinned      bool    `json:"pinned"`
	Archived    bool    `json:"archived"`
	Trashed     bool    `json:"trashed"`
	ReminderTs  *int64  `json:"reminderTs"`
	LabelIDs    []int32 `json:"labelIds"`
}

func convertNote(n *store.Note) *noteResponse {
	return &noteResponse{
		ID:          n.ID,
		UID:         n.UID,
		CreatorID:   n.CreatorID,
		CreatedTs:   n.CreatedTs,
		UpdatedTs:   n.UpdatedTs,
		Title:       n.Title,
		Description: n.Description,
		Colour:      n.Colour,
		Image:       n.Image,
		Pinned:      n.Pinned,
		Archived:    n.Archived,
		Trashed:     n.Trashed,
		ReminderTs:  n.ReminderTs,
		LabelIDs:    n.LabelIDs,
	}
}

func convertNoteList(list []*store.Note) []*noteResponse {
	out := make([]*noteResponse, 0, len(list))
	for _, n := range list {
		out = append(out, convertNote(n))
	}
	return out
}

// pathID parses an int32 path parameter.
func pathID(c echo.Context, name string) (int32, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return int32(id), nil
}

// queryBool parses an optional boolean query parameter. Absent means nil.
func queryBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return &v, nil
}

type createNoteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Colour      string `json:"colour"`
	Image       string `json:"image"`
	Pinned      bool   `json:"pinned"`
	ReminderTs  *int64 `json:"reminderTs"`
}

// CreateNote stores a new note.
func (s *APIV1Service) CreateNote(c echo.Context) error {
	req := &createNoteRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed note request")
	}

	created, err := s.noteService.Create(c.Request().Context(), currentUserID(c), &note.CreateNoteRequest{
		Title:       req.Title,
		Description: req.Description,
		Colour:      req.Colour,
		Image:       req.Image,
		Pinned:      req.Pinned,
		ReminderTs:  req.ReminderTs,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, convertNote(created))
}

// ListNotes returns the user's notes, filtered by the archived and trashed
// query parameters.
func (s *APIV1Service) ListNotes(c echo.Context) error {
	archived, err := queryBool(c, "archived")
	if err != nil {
		return err
	}
	trashed, err := queryBool(c, "trashed")
	if err != nil {
		return err
	}

	list, err := s.noteService.List(c.Request().Context(), currentUserID(c), archived, trashed)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertNoteList(list))
}

// GetNote returns a single note.
func (s *APIV1Service) GetNote(c echo.Context) error {
	noteID, err := pathID(c, "noteID")
	if err != nil {
		return err
	}

	found, err := s.noteService.Get(c.Request().Context(), currentUserID(c), noteID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertNote(found))
}

type updateNoteRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Colour      *string `json:"colour"`
	Image       *string `json:"image"`
	ReminderTs  *int64  `json:"reminderTs"`
}

// UpdateNote applies a partial update to a note.
func (s *APIV1Service) UpdateNote(c echo.Context) error {
	noteID, err := pathID(c, "noteID")
	if err != nil {
		return err
	}
	req := &updateNoteRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed note request")
	}

	updated, err := s.noteService.Update(c.Request().Context(), currentUserID(c), noteID, &note.UpdateNoteRequest{
		Title:       req.Title,
		Description: req.Description,
		Colour:      req.Colour,
		Image:       req.Image,
		ReminderTs:  req.ReminderTs,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertNote(updated))
}

// TrashNote moves a note to the trash.
func (s *APIV1Service) TrashNote(c echo.Context) error {
	noteID, err := pathID(c, "noteID")
	if err != nil {
		return err
	}

	trashed, err := s.noteService.Trash(c.Request().Context(), currentUserID(c), noteID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertNote(trashed))
}

// RestoreNote moves a trashed note back out of the trash.
func (s *APIV1Service) RestoreNote(c echo.Context) error {
	noteID, err := pathID(c, "noteID")
	if err != nil {
		return err
	}

	restored, err := s.noteService.Restore(c.Request().Context(), currentUserID(c), noteID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertNote(restored))
}

// DeleteNote removes a trashed note permanently.
func (s *APIV1Service) DeleteNote(c echo.Context) error {
	noteID, err := pathID(c, "noteID")
	if err != nil {
		return err
	}

	if err := s.noteService.Delete(c.Request().Context(), currentUserID(c), noteID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type setArchivedRequest struct {
	Archived bool `json:"archived"`
}

// SetNoteArchived archives or unarchives a note.
func (s *APIV1Service) SetNoteArchived(c echo.Context) error {
	noteID, err := pathID(c, "noteID")
	if err != nil {
		return err
	}
	req := &setArchivedRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	updated, err := s.noteService.SetArchived(c.Request().Context(), currentUserID(c), noteID, req.Archived)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertNote(updated))
}

type setPinnedRequest struct {
	Pinned bool `json:"pinned"`
}

// SetNotePinned pins or unpins a note.
func (s *APIV1Service) SetNotePinned(c echo.Context) error {
	noteID, err := pathID(c, "noteID")
	if err != nil {
		return err
	}
	req := &setPinnedRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	updated, err := s.noteService.SetPinned(c.Request().Context(), currentUserID(c), noteID, req.Pinned)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertNote(updated))
}
