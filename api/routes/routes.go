package routes

import (
	"net/http"

	"pokelookup/api/handlers"

	"github.com/gin-gonic/gin"
)

type Router struct {
	Engine *gin.Engine
	api    *gin.RouterGroup
}

func NewRouter(engine *gin.Engine) *Router {
	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return &Router{
		api:    engine.Group("/api/v1"),
		Engine: engine,
	}
}

func (r *Router) SetupRoutes(handlerList ...any) {
	for _, h := range handlerList {
		switch handler := h.(type) {
		case *handlers.LookupHandler:
			r.registerLookupHandler(handler)
		}
	}
}

// Register the lookup handler.
func (r *Router) registerLookupHandler(handler *handlers.LookupHandler) {
	lookup := r.api.Group("/pokemon")
	{
		lookup.GET("/:name", handler.GetPokemon)
	}
}

// Handler returns the engine as a http.Handler, for the server.
func (r *Router) Handler() http.Handler {
	return r.Engine
}
