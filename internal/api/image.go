package api

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recipehub/backend/internal/service"
)

// maxImageSize caps recipe image uploads at 5 MB.
const maxImageSize = 5 << 20

// ImageHandler handles recipe image uploads
type ImageHandler struct {
	uploader service.ImageUploader
}

func NewImageHandler(uploader service.ImageUploader) *ImageHandler {
	return &ImageHandler{uploader: uploader}
}

func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/images", h.Upload)
}

// Upload stores a multipart image and returns its public URL.
func (h *ImageHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds the 5MB limit"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image"})
		return
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".png"
	}
	fileName := "recipe-images/" + uuid.New().String() + ext

	url, err := h.uploader.Upload(c.Request.Context(), data, fileName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
