package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/merocrm/mero-crm/internal/application/service"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/request"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/response"
)

// SettingsHandler handles organization settings
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// List returns every setting, optionally narrowed by ?category=
func (h *SettingsHandler) List(c *gin.Context) {
	settings, err := h.settingsService.ListSettings(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Settings retrieved successfully", settings)
}

// Get returns one setting by key
func (h *SettingsHandler) Get(c *gin.Context) {
	setting, err := h.settingsService.GetSetting(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Setting retrieved successfully", setting)
}

// Put creates or replaces a setting
func (h *SettingsHandler) Put(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.SettingRequest
	if !bindJSON(c, &req) {
		return
	}

	setting, err := h.settingsService.PutSetting(c.Request.Context(), &service.PutSettingInput{
		UserID:   userID,
		Key:      c.Param("key"),
		Value:    req.Value,
		Category: req.Category,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Setting saved successfully", setting)
}
