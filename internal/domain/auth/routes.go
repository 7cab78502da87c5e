package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts public auth endpoints; RegisterProtectedRoutes mounts
// the ones that require a valid token.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	a := r.Group("/auth")
	{
		a.POST("/register", h.Register)
		a.POST("/login", h.Login)
	}
}

func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/me", h.Me)
}
