package course

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

func (h *Handler) Create(c *gin.Context) {
	userID := middleware.UserID(c)

	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		writeCourseError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, created)
}

func (h *Handler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	courses, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list courses")
		return
	}
	response.Success(c, http.StatusOK, courses)
}

func (h *Handler) Get(c *gin.Context) {
	userID := middleware.UserID(c)

	got, err := h.service.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeCourseError(c, err)
		return
	}
	response.Success(c, http.StatusOK, got)
}

func (h *Handler) Delete(c *gin.Context) {
	userID := middleware.UserID(c)

	if err := h.service.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeCourseError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func writeCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrDuplicateName):
		response.Error(c, http.StatusConflict, "DUPLICATE_COURSE_NAME", err.Error())
	case errors.Is(err, ErrCourseLimitReached):
		response.Error(c, http.StatusConflict, "COURSE_LIMIT_REACHED", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "course operation failed")
	}
}
