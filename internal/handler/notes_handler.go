package handler

import (
	"github.com/gin-gonic/gin"

	"popupkit/jokebox/internal/service"
	"popupkit/jokebox/pkg/response"
)

type NotesHandler struct {
	notesService service.NotesService
	autosaver    *service.Autosaver
}

func NewNotesHandler(notesService service.NotesService, autosaver *service.Autosaver) *NotesHandler {
	return &NotesHandler{
		notesService: notesService,
		autosaver:    autosaver,
	}
}

type NotesRequest struct {
	Text *string `json:"text" binding:"required"`
}

type NotesResponse struct {
	Text string `json:"text"`
}

func (h *NotesHandler) Get(c *gin.Context) {
	text, err := h.notesService.Load(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c, "failed to load notes")
		return
	}
	response.Success(c, NotesResponse{Text: text})
}

// Put saves notes immediately, superseding any pending draft.
func (h *NotesHandler) Put(c *gin.Context) {
	var req NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.autosaver.Replace(c.Request.Context(), *req.Text); err != nil {
		_ = c.Error(err)
		response.InternalError(c, "failed to save notes")
		return
	}
	response.Success(c, NotesResponse{Text: *req.Text})
}

// Draft schedules a debounced save and returns before it is written.
func (h *NotesHandler) Draft(c *gin.Context) {
	var req NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	h.autosaver.Schedule(*req.Text)
	response.Accepted(c, nil)
}

func (h *NotesHandler) Clear(c *gin.Context) {
	if err := h.autosaver.Clear(c.Request.Context()); err != nil {
		_ = c.Error(err)
		response.InternalError(c, "failed to clear notes")
		return
	}
	response.Success(c, NotesResponse{Text: ""})
}
