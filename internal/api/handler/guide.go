package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"seoulmate/backend/internal/storage"
)

// ListGuides returns the guide directory, filtered and sorted. Public.
func (h *Handler) ListGuides(c *gin.Context) {
	filter := storage.GuideFilter{SortBy: c.DefaultQuery("sortBy", "rating")}

	if v := c.Query("languages"); v != "" {
		filter.Languages = strings.Split(v, ",")
	}
	if v := c.Query("categories"); v != "" {
		filter.Categories = strings.Split(v, ",")
	}
	if v := c.Query("minRating"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinRating = f
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Page = n
		}
	}

	guides, err := h.Guides.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, guides)
}

// GetGuide returns a guide's public page. Public.
func (h *Handler) GetGuide(c *gin.Context) {
	detail, err := h.Guides.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
