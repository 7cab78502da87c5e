package file

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"luma/internal/middleware"
	"luma/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RequestUpload handles POST /courses/:id/files.
func (h *Handler) RequestUpload(c *gin.Context) {
	userID := middleware.UserID(c)

	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	req.CourseID = c.Param("id")

	ticket, err := h.service.RequestUpload(c.Request.Context(), userID, req)
	if err != nil {
		writeFileError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ticket)
}

// Confirm handles POST /files/:id/confirm.
func (h *Handler) Confirm(c *gin.Context) {
	userID := middleware.UserID(c)

	f, err := h.service.Confirm(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeFileError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"file": f})
}

// ListByCourse handles GET /courses/:id/files.
func (h *Handler) ListByCourse(c *gin.Context) {
	userID := middleware.UserID(c)

	files, err := h.service.ListByCourse(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeFileError(c, err)
		return
	}
	response.Success(c, http.StatusOK, files)
}

// Get handles GET /files/:id.
func (h *Handler) Get(c *gin.Context) {
	userID := middleware.UserID(c)

	f, err := h.service.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeFileError(c, err)
		return
	}
	response.Success(c, http.StatusOK, f)
}

// Delete handles DELETE /files/:id.
func (h *Handler) Delete(c *gin.Context) {
	userID := middleware.UserID(c)

	if err := h.service.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeFileError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// DownloadURL handles GET /files/:id/download.
func (h *Handler) DownloadURL(c *gin.Context) {
	userID := middleware.UserID(c)

	url, err := h.service.DownloadURL(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeFileError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"download_url": url})
}

// ReportStatus handles POST /internal/files/:id/status, called by the
// processing worker behind the internal-token middleware.
func (h *Handler) ReportStatus(c *gin.Context) {
	var report StatusReport
	if err := c.ShouldBindJSON(&report); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	f, err := h.service.MarkProcessed(c.Request.Context(), c.Param("id"), report)
	if err != nil {
		writeFileError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"file": f})
}

func writeFileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrInvalidFileType):
		response.Error(c, http.StatusBadRequest, "INVALID_FILE_TYPE", err.Error())
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, ErrFileCountLimitReached):
		response.Error(c, http.StatusConflict, "FILE_COUNT_LIMIT_REACHED", err.Error())
	case errors.Is(err, ErrStorageLimitReached):
		response.Error(c, http.StatusConflict, "STORAGE_LIMIT_REACHED", err.Error())
	case errors.Is(err, ErrDuplicateFileName):
		response.Error(c, http.StatusConflict, "DUPLICATE_FILE_NAME", err.Error())
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "the request could not be completed, please retry")
	}
}
