// internal/handlers/search/search_handler.go
package search

import (
	"net/http"

	"sokohub-service/internal/pkg/response"
	service "sokohub-service/internal/service/search"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchService *service.Service
}

func NewSearchHandler(searchService *service.Service) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// Search runs a ranked product query. Region and category are optional exact
// filters.
func (h *SearchHandler) Search(c *gin.Context) {
	region := c.Query("region")
	category := c.Query("category")

	result, err := h.searchService.Search(c.Request.Context(), region, category)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "search failed", err)
		return
	}

	response.Success(c, http.StatusOK, "search completed", result)
}
