package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pokelookup/api/handlers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupTestRouter() *Router {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	return NewRouter(engine)
}

func TestNewRouter(t *testing.T) {
	router := setupTestRouter()

	assert.NotNil(t, router)
	assert.NotNil(t, router.Engine)
	assert.NotNil(t, router.api)
}

func TestSetupRoutes(t *testing.T) {
	router := setupTestRouter()

	lookupHandler := &handlers.LookupHandler{}
	router.SetupRoutes(lookupHandler, "ignored")

	paths := map[string]bool{}
	for _, route := range router.Engine.Routes() {
		paths[route.Method+" "+route.Path] = true
	}
	assert.True(t, paths["GET /api/v1/pokemon/:name"])
	assert.True(t, paths["GET /healthz"])
}

func TestHealthz(t *testing.T) {
	router := setupTestRouter()

	w := httptest.NewRecorder()
	router.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
