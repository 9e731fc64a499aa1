package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"contractiq-backend/models"
	"contractiq-backend/repository"
	"contractiq-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler handles HTTP requests for source document operations
type DocumentHandler struct {
	documentRepo     *repository.DocumentRepository
	storage          storage.Storage
	maxFileSize      int64
	allowedMimeTypes map[string]bool
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentRepo *repository.DocumentRepository, fileStorage storage.Storage) *DocumentHandler {
	return &DocumentHandler{
		documentRepo: documentRepo,
		storage:      fileStorage,
		maxFileSize:  10 * 1024 * 1024, // 10MB
		allowedMimeTypes: map[string]bool{
			"application/pdf": true,
			"text/plain":      true,
		},
	}
}

// UploadDocument handles POST /api/documents/upload
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	docType := c.PostForm("doc_type")
	if docType != models.DocTypePolicy && docType != models.DocTypeContract {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_DOC_TYPE",
				"message": "doc_type must be 'policy' or 'contract'",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "File is required",
			},
		})
		return
	}

	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_TOO_LARGE",
				"message": fmt.Sprintf("File exceeds maximum size of %d bytes", h.maxFileSize),
			},
		})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	// Multipart content types can carry parameters
	if idx := strings.Index(mimeType, ";"); idx > 0 {
		mimeType = mimeType[:idx]
	}
	if !h.allowedMimeTypes[mimeType] {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNSUPPORTED_FILE_TYPE",
				"message": fmt.Sprintf("File type %s is not supported", mimeType),
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	defer file.Close()

	docID := uuid.New()
	storagePath, err := h.storage.Upload(c.Request.Context(), docType, docID, fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	doc := &models.Document{
		ID:          docID,
		Filename:    fileHeader.Filename,
		DocType:     docType,
		MimeType:    mimeType,
		Size:        fileHeader.Size,
		StoragePath: storagePath,
	}

	if err := h.documentRepo.Create(c.Request.Context(), doc); err != nil {
		// Roll back the stored object so metadata and storage stay consistent
		_ = h.storage.Delete(c.Request.Context(), storagePath)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    doc,
	})
}

// GetDocument handles GET /api/documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid document ID format",
			},
		})
		return
	}

	doc, err := h.documentRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Document not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    doc,
	})
}

// DownloadDocument handles GET /api/documents/:id/download
func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid document ID format",
			},
		})
		return
	}

	doc, err := h.documentRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Document not found",
			},
		})
		return
	}

	reader, err := h.storage.Download(c.Request.Context(), doc.StoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DOWNLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, doc.Filename))
	c.Header("Content-Type", doc.MimeType)
	c.DataFromReader(http.StatusOK, doc.Size, doc.MimeType, reader, nil)
}

// ListDocuments handles GET /api/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	docType := c.Query("doc_type")
	if docType != "" && docType != models.DocTypePolicy && docType != models.DocTypeContract {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_DOC_TYPE",
				"message": "doc_type must be 'policy' or 'contract'",
			},
		})
		return
	}

	docs, err := h.documentRepo.List(c.Request.Context(), docType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    docs,
	})
}
