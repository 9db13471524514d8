package app

import (
	"github.com/shovanmaity/chaos-demo-app/internal/config"
	"github.com/shovanmaity/chaos-demo-app/internal/emissary"
	"github.com/shovanmaity/chaos-demo-app/internal/events"
	"github.com/shovanmaity/chaos-demo-app/internal/handlers"
	"github.com/shovanmaity/chaos-demo-app/internal/store"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, st *store.Store, em *emissary.Client, hub *events.Hub) {
	sys := handlers.NewSystemHandler(cfg, st, em)

	r.GET("/", sys.Root)
	r.GET("/health", sys.Health)
	r.GET("/version", versionHandler(cfg))
	r.GET("/ws", gin.WrapH(hub))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	api := r.Group("/api")
	api.GET("/info", sys.Info)

	todoHandler := handlers.NewTodoHandler(st)
	api.GET("/stats", todoHandler.Stats)
	registerTodoRoutes(api, todoHandler)

	// The endpoint list served by /api/info reflects whatever was registered
	// above, the same way the routes themselves do.
	sys.SetRoutes(r.Routes())
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTodoRoutes(api *gin.RouterGroup, h *handlers.TodoHandler) {
	api.POST("/todos", h.Create)
	api.GET("/todos", h.List)
	api.GET("/todos/:id", h.GetByID)
	api.PUT("/todos/:id", h.Update)
	api.PATCH("/todos/:id", h.Toggle)
	api.DELETE("/todos/:id", h.Delete)
}
