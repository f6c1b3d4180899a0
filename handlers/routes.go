package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API. The submission endpoint is public;
// the dashboard surface requires an admin session token. A nil
// authHandler (storeless dev mode without an admins table) leaves the
// login route unregistered but keeps the guard in place.
func RegisterRoutes(r *gin.Engine, grievanceHandler *GrievanceHandler, authHandler *AuthHandler, adminOnly gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		if authHandler != nil {
			api.POST("/auth/login", authHandler.Login)
		}

		api.POST("/grievances", grievanceHandler.SubmitGrievance)

		admin := api.Group("", adminOnly)
		{
			admin.GET("/grievances", grievanceHandler.GetGrievances)
			admin.GET("/grievances/stats", grievanceHandler.GetGrievanceStats)
			admin.GET("/grievances/search/:id", grievanceHandler.SearchGrievanceByID)
			admin.GET("/grievances/:id", grievanceHandler.GetGrievanceByID)
			admin.PATCH("/grievances/:id/status", grievanceHandler.UpdateGrievanceStatus)
			admin.DELETE("/grievances/:id", grievanceHandler.DeleteGrievance)
		}
	}
}
