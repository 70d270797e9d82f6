package store

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/filecrate/filecrate/pkg/types"
)

// API exposes the store's create operations over HTTP.
type API struct {
	repo   *Repository
	apiKey string
}

func NewAPI(repo *Repository, apiKey string) *API {
	return &API{
		repo:   repo,
		apiKey: apiKey,
	}
}

func (a *API) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", a.health)

	api := router.Group("/api")
	api.Use(a.authMiddleware())

	api.POST("/accounts", a.createAccount)
	api.POST("/files", a.createFileReference)
}

func (a *API) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey != a.apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{
				Error: "invalid API key",
				Code:  types.CodeInvalidRequest,
			})
			return
		}
		c.Next()
	}
}

func (a *API) createAccount(c *gin.Context) {
	var req types.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: err.Error(),
			Code:  types.CodeInvalidRequest,
		})
		return
	}

	account, err := a.repo.CreateAccount(c.Request.Context(), req.Email, req.Credential)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, types.ErrorResponse{
				Error: ErrDuplicateEmail.Error(),
				Code:  types.CodeDuplicateEmail,
			})
			return
		}
		log.WithError(err).Error("failed to create account")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error: "internal error",
			Code:  types.CodeInternal,
		})
		return
	}

	log.WithField("account_id", account.ID).Info("account created")
	c.JSON(http.StatusCreated, account)
}

func (a *API) createFileReference(c *gin.Context) {
	var req types.CreateFileReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: err.Error(),
			Code:  types.CodeInvalidRequest,
		})
		return
	}

	ref, err := a.repo.CreateFileReference(c.Request.Context(), req.DisplayName, req.OwnerID)
	if err != nil {
		if errors.Is(err, ErrUnknownOwner) {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Error: ErrUnknownOwner.Error(),
				Code:  types.CodeUnknownOwner,
			})
			return
		}
		log.WithError(err).Error("failed to create file reference")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error: "internal error",
			Code:  types.CodeInternal,
		})
		return
	}

	log.WithFields(log.Fields{
		"file_id":  ref.ID,
		"owner_id": ref.OwnerID,
	}).Info("file reference created")
	c.JSON(http.StatusCreated, ref)
}

func (a *API) health(c *gin.Context) {
	if err := a.repo.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, types.HealthResponse{
			Status:   "degraded",
			Database: "unreachable",
		})
		return
	}
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:   "ok",
		Database: "ok",
	})
}
