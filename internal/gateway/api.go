package gateway

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/filecrate/filecrate/pkg/types"
)

// API is the stateless relay between clients and the store. It does
// not validate, retry, or transform anything it forwards.
type API struct {
	store *StoreClient
}

func NewAPI(store *StoreClient) *API {
	return &API{store: store}
}

func (a *API) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.GET("/health", a.health)

	api := router.Group("/api")
	api.POST("/accounts", a.relay("/api/accounts"))
	api.POST("/files", a.relay("/api/files"))
}

// relay forwards the raw request body to the store. Store responses
// below 500 pass through with status and body untouched, so structured
// causes like duplicate_email reach the caller. Transport failures and
// store 5xx answers collapse into one opaque relay failure; the cause
// is logged here and never surfaced.
func (a *API) relay(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Error: "failed to read request body",
				Code:  types.CodeInvalidRequest,
			})
			return
		}

		resp, err := a.store.Forward(c.Request.Context(), path, body)
		if err != nil {
			log.WithError(err).WithField("path", path).Error("relay failed")
			c.JSON(http.StatusBadGateway, types.ErrorResponse{
				Error: "relay failure",
				Code:  types.CodeRelayFailure,
			})
			return
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			log.WithFields(log.Fields{
				"path":   path,
				"status": resp.StatusCode,
			}).Error("store reported failure")
			c.JSON(http.StatusBadGateway, types.ErrorResponse{
				Error: "relay failure",
				Code:  types.CodeRelayFailure,
			})
			return
		}

		c.Data(resp.StatusCode, "application/json", resp.Body)
	}
}

func (a *API) health(c *gin.Context) {
	storeStatus := "ok"
	if err := a.store.Health(c.Request.Context()); err != nil {
		log.WithError(err).Warn("store health probe failed")
		storeStatus = "unreachable"
	}
	c.JSON(http.StatusOK, types.HealthResponse{
		Status: "ok",
		Store:  storeStatus,
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
