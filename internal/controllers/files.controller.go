package controllers

import (
	"net/http"

	"fileweb/internal/services"

	"github.com/gin-gonic/gin"
)

// FilesController serves directory listings and mutations
type FilesController struct {
	explorer *services.Explorer
}

// NewFilesController creates a FilesController
func NewFilesController(explorer *services.Explorer) *FilesController {
	return &FilesController{explorer: explorer}
}

type createRequest struct {
	Type string `json:"type" binding:"required"`
	Path string `json:"path" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type deleteRequest struct {
	Path string `json:"path" binding:"required"`
}

type renameRequest struct {
	OldPath string `json:"oldPath" binding:"required"`
	NewPath string `json:"newPath" binding:"required"`
}

type transferRequest struct {
	SourcePath      string `json:"sourcePath" binding:"required"`
	DestinationPath string `json:"destinationPath" binding:"required"`
}

type pasteRequest struct {
	Operation   string   `json:"operation" binding:"required"`
	Sources     []string `json:"sources" binding:"required"`
	Destination string   `json:"destination" binding:"required"`
}

// ListFiles handles GET /files?path=
func (fc *FilesController) ListFiles(c *gin.Context) {
	listing, err := fc.explorer.List(c.Request.Context(), c.Query("path"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Create handles POST /create
func (fc *FilesController) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	created, err := fc.explorer.Create(c.Request.Context(), services.ItemType(req.Type), req.Path, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "path": created})
}

// Delete handles DELETE /delete
func (fc *FilesController) Delete(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := fc.explorer.Delete(c.Request.Context(), req.Path); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Rename handles PUT /rename
func (fc *FilesController) Rename(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	renamed, err := fc.explorer.Rename(c.Request.Context(), req.OldPath, req.NewPath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "newPath": renamed})
}

// Copy handles POST /copy
func (fc *FilesController) Copy(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := fc.explorer.Copy(c.Request.Context(), req.SourcePath, req.DestinationPath); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Move handles POST /move
func (fc *FilesController) Move(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := fc.explorer.Move(c.Request.Context(), req.SourcePath, req.DestinationPath); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Paste handles POST /paste. The response carries one result per source;
// success is true only when every item succeeded.
func (fc *FilesController) Paste(c *gin.Context) {
	var req pasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	results, err := fc.explorer.Paste(c.Request.Context(), services.PasteOp(req.Operation), req.Sources, req.Destination)
	if err != nil {
		respondError(c, err)
		return
	}

	allOK := true
	for _, r := range results {
		allOK = allOK && r.Success
	}
	c.JSON(http.StatusOK, gin.H{"success": allOK, "results": results})
}
