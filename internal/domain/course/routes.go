package course

import "github.com/gin-gonic/gin"

// RegisterRoutes registers course endpoints under the protected group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	courses := r.Group("/courses")
	{
		courses.POST("", h.Create)
		courses.GET("", h.List)
		courses.GET("/:id", h.Get)
		courses.DELETE("/:id", h.Delete)
	}
}
