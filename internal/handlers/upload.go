// internal/handlers/upload.go
package handlers

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hadarhome/storefront/internal/services"
	"github.com/hadarhome/storefront/internal/utils"
)

const maxImagesPerRequest = 5

type UploadHandler struct {
	storageService *services.StorageService
}

func NewUploadHandler(storageService *services.StorageService) *UploadHandler {
	return &UploadHandler{storageService: storageService}
}

// UploadImage handles POST /api/upload/image (admin). Expects a
// multipart form with an "image" field.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Missing image file")
		return
	}

	result, err := h.uploadOne(fileHeader)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, result, "Image uploaded")
}

// UploadImages handles POST /api/upload/images (admin). Expects a
// multipart form with up to five "images" fields.
func (h *UploadHandler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form")
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, "Missing image files")
		return
	}
	if len(files) > maxImagesPerRequest {
		utils.BadRequestResponse(c, "Too many files (max 5)")
		return
	}

	results := make([]*services.UploadResult, 0, len(files))
	for _, fileHeader := range files {
		result, err := h.uploadOne(fileHeader)
		if err != nil {
			utils.BadRequestResponse(c, fileHeader.Filename+": "+err.Error())
			return
		}
		results = append(results, result)
	}

	utils.CreatedResponse(c, results, "Images uploaded")
}

// ListImages handles GET /api/upload/images (admin)
func (h *UploadHandler) ListImages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	images, next, err := h.storageService.ListImages(limit, c.Query("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"images": images, "nextToken": next})
}

// DeleteImage handles DELETE /api/upload/image/*publicId (admin). The
// key rides in the path because S3 keys contain slashes.
func (h *UploadHandler) DeleteImage(c *gin.Context) {
	publicID := strings.TrimPrefix(c.Param("publicId"), "/")
	if publicID == "" {
		utils.BadRequestResponse(c, "Missing image id")
		return
	}

	if err := h.storageService.DeleteImage(publicID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, nil, "Image deleted")
}

func (h *UploadHandler) uploadOne(fileHeader *multipart.FileHeader) (*services.UploadResult, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxImageSize+1))
	if err != nil {
		return nil, err
	}

	return h.storageService.UploadImage(data, fileHeader.Filename)
}
