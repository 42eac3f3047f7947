package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"popupkit/jokebox/internal/model"
	"popupkit/jokebox/internal/service"
	"popupkit/jokebox/pkg/response"
)

type TabHandler struct {
	tabService service.TabService
}

func NewTabHandler(tabService service.TabService) *TabHandler {
	return &TabHandler{tabService: tabService}
}

type TabRequest struct {
	Tab string `json:"tab" binding:"required"`
}

type TabResponse struct {
	Tab model.Tab `json:"tab"`
}

func (h *TabHandler) GetLast(c *gin.Context) {
	tab, err := h.tabService.LastTab(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c, "failed to load last tab")
		return
	}
	response.Success(c, TabResponse{Tab: tab})
}

func (h *TabHandler) SetLast(c *gin.Context) {
	var req TabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	tab := model.Tab(req.Tab)
	if err := h.tabService.SetLastTab(c.Request.Context(), tab); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTab):
			response.BadRequest(c, err.Error())
		default:
			_ = c.Error(err)
			response.InternalError(c, "failed to save last tab")
		}
		return
	}
	response.Success(c, TabResponse{Tab: tab})
}
