package file

import "github.com/gin-gonic/gin"

// RegisterRoutes registers user-facing file endpoints under the protected
// group. Upload requests hang off the owning course.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/courses/:id/files", h.RequestUpload)
	r.GET("/courses/:id/files", h.ListByCourse)

	files := r.Group("/files")
	{
		files.GET("/:id", h.Get)
		files.POST("/:id/confirm", h.Confirm)
		files.GET("/:id/download", h.DownloadURL)
		files.DELETE("/:id", h.Delete)
	}
}

// RegisterInternalRoutes registers the worker callback. The group is
// expected to carry middleware.InternalTokenAuth.
func RegisterInternalRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/files/:id/status", h.ReportStatus)
}
