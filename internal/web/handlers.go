// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) index(c *gin.Context) {
	c.HTML(http.StatusOK, pageTemplate, pageData{Accept: acceptAttr()})
}

// convertPage handles the form post and renders one panel per file.
func (h *Handler) convertPage(c *gin.Context) {
	docs, cleanup, err := h.readUploads(c)
	defer cleanup()
	if err != nil {
		c.HTML(statusOf(err), pageTemplate, pageData{Accept: acceptAttr(), Error: err.Error()})
		return
	}

	results, summary := h.orch.ConvertBatch(c.Request.Context(), docs)
	c.HTML(http.StatusOK, pageTemplate, newPage(results, summary))
}

// convertAPI is the JSON form of convertPage.
func (h *Handler) convertAPI(c *gin.Context) {
	docs, cleanup, err := h.readUploads(c)
	defer cleanup()
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	results, summary := h.orch.ConvertBatch(c.Request.Context(), docs)
	c.JSON(http.StatusOK, newAPIResponse(results, summary))
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": h.backend})
}
