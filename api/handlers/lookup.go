package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"pokelookup/api/filters"
	lookupservice "pokelookup/api/services/lookup"
	"pokelookup/pkg/messages"
	"pokelookup/pkg/models/pokemon"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header used to correlate a request with the logs and the audit trail.
const RequestIDHeader = "X-Request-ID"

// Gateway runs the lookups for the handler.
type Gateway interface {
	Lookup(ctx context.Context, req lookupservice.Request) (pokemon.Pokemon, error)
}

// LookupHandler is the handler for the lookup endpoints.
type LookupHandler struct {
	gateway Gateway
}

// NewLookupHandler creates a new instance of the lookup handler.
func NewLookupHandler(gateway Gateway) *LookupHandler {
	return &LookupHandler{gateway: gateway}
}

// GetPokemon is the handler to resolve a pokemon by name.
func (h *LookupHandler) GetPokemon(c *gin.Context) {
	var params filters.LookupURIParams
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": lookupservice.ErrInvalidName.Error()})
		return
	}

	requestID, err := uuid.Parse(c.GetHeader(RequestIDHeader))
	if err != nil {
		requestID = uuid.New()
	}
	c.Header(RequestIDHeader, requestID.String())

	result, err := h.gateway.Lookup(c.Request.Context(), lookupservice.Request{
		ID:     requestID,
		Source: "http",
		Name:   params.Name,
	})
	if err != nil {
		var throttled *lookupservice.ThrottledError
		if errors.As(err, &throttled) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(throttled.RetryAfter.Seconds()))))
		}
		status := statusOf(err)
		if status == http.StatusInternalServerError {
			c.JSON(status, gin.H{"error": messages.InternalError})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// Map the lookup errors to the http status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, lookupservice.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, lookupservice.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lookupservice.ErrThrottled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
