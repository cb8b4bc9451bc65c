// internal/handlers/tier/tier_handler.go
package tier

import (
	"net/http"

	"sokohub-service/internal/pkg/response"
	"sokohub-service/internal/service/catalog"

	"github.com/gin-gonic/gin"
)

type TierHandler struct {
	catalog *catalog.TierCatalog
}

func NewTierHandler(catalog *catalog.TierCatalog) *TierHandler {
	return &TierHandler{
		catalog: catalog,
	}
}

// ListTiers returns the purchasable tier definitions.
func (h *TierHandler) ListTiers(c *gin.Context) {
	response.Success(c, http.StatusOK, "tiers retrieved", h.catalog.List())
}

// ReloadCatalog refreshes the tier snapshot from storage. Administrative.
func (h *TierHandler) ReloadCatalog(c *gin.Context) {
	if err := h.catalog.Reload(c.Request.Context()); err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to reload tier catalog", err)
		return
	}

	response.Success(c, http.StatusOK, "tier catalog reloaded", nil)
}
