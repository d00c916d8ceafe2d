package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"squarepg-backend/internal/model"
	"squarepg-backend/internal/mw"
	"squarepg-backend/internal/store"
)

// GetSettings handles GET /api/settings. Owners without a saved row get
// the defaults back rather than a 404.
func (h *Handler) GetSettings(c *gin.Context) {
	sess := mw.GetSession(c)
	setting, err := h.store.SettingForOwner(c.Request.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, model.Setting{OwnerID: sess.UserID, DefaultRentDay: 5})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, setting)
}

type putSettingsRequest struct {
	PGName         string `json:"pgName"`
	Address        string `json:"address"`
	DefaultRentDay int    `json:"defaultRentDay"`
	ManagerName    string `json:"managerName"`
	ManagerPhone   string `json:"managerPhone"`
}

// PutSettings handles PUT /api/settings.
func (h *Handler) PutSettings(c *gin.Context) {
	var req putSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DefaultRentDay < 1 || req.DefaultRentDay > 28 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "defaultRentDay must be between 1 and 28"})
		return
	}

	sess := mw.GetSession(c)
	setting := model.Setting{
		OwnerID:        sess.UserID,
		PGName:         req.PGName,
		Address:        req.Address,
		DefaultRentDay: req.DefaultRentDay,
		ManagerName:    req.ManagerName,
		ManagerPhone:   req.ManagerPhone,
	}
	if err := h.store.UpsertSetting(c.Request.Context(), &setting); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, setting)
}
