package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mailhub/internal/handler"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	accountHandler *handler.AccountHandler,
	folderHandler *handler.FolderHandler,
	emailHandler *handler.EmailHandler,
	addressHandler *handler.AddressHandler,
	personalizationHandler *handler.PersonalizationHandler,
	jwtSecret string,
	db *pgxpool.Pool,
) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.GET("/accounts", accountHandler.List)
		auth.POST("/accounts", accountHandler.Create)
		auth.GET("/accounts/:id", accountHandler.Get)
		auth.DELETE("/accounts/:id", accountHandler.Delete)
		auth.POST("/accounts/:id/sync", accountHandler.Sync)

		auth.GET("/folders", folderHandler.List)
		auth.GET("/folders/tree", folderHandler.Tree)
		auth.GET("/folders/:id", folderHandler.Get)
		auth.GET("/folders/:id/children", folderHandler.Children)

		auth.GET("/emails", emailHandler.List)
		auth.GET("/emails/:message_id", emailHandler.Get)
		auth.GET("/emails/:message_id/thread", emailHandler.Thread)

		auth.GET("/addresses", addressHandler.List)
		auth.GET("/addresses/:id", addressHandler.Get)

		auth.GET("/personalizations/emails", personalizationHandler.ListEmail)
		auth.POST("/personalizations/emails", personalizationHandler.CreateEmail)
		auth.GET("/personalizations/emails/:id", personalizationHandler.GetEmail)
		auth.PUT("/personalizations/emails/:id", personalizationHandler.UpdateEmail)
		auth.DELETE("/personalizations/emails/:id", personalizationHandler.DeleteEmail)

		auth.GET("/personalizations/folders", personalizationHandler.ListFolder)
		auth.POST("/personalizations/folders", personalizationHandler.CreateFolder)
		auth.GET("/personalizations/folders/:id", personalizationHandler.GetFolder)
		auth.PUT("/personalizations/folders/:id", personalizationHandler.UpdateFolder)
		auth.DELETE("/personalizations/folders/:id", personalizationHandler.DeleteFolder)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
