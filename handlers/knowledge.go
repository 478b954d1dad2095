package handlers

import (
	"net/http"

	"jetset/services/catalog"
	"jetset/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// KnowledgeHandler serves the public venue endpoints: tariffs, meeting
// point, FAQ and operator profile.
type KnowledgeHandler struct {
	KB catalog.KnowledgeBaseService
}

func NewKnowledgeHandler(kb catalog.KnowledgeBaseService) *KnowledgeHandler {
	return &KnowledgeHandler{KB: kb}
}

// GetPackages lists every bookable combination with its per-unit price.
func (h *KnowledgeHandler) GetPackages(c *gin.Context) {
	pkgs, err := h.KB.Packages(c.Request.Context())
	if err != nil {
		utils.GetLogger().Error("failed to list packages", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not load packages", "please try again")
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": pkgs})
}

// GetLocation returns the fixed meeting point and map link.
func (h *KnowledgeHandler) GetLocation(c *gin.Context) {
	c.JSON(http.StatusOK, h.KB.Location())
}

// GetFAQ returns the venue question/answer set.
func (h *KnowledgeHandler) GetFAQ(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"faq": h.KB.FAQ()})
}

// GetAbout returns the operator profile.
func (h *KnowledgeHandler) GetAbout(c *gin.Context) {
	c.JSON(http.StatusOK, h.KB.About())
}
