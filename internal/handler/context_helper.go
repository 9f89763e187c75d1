package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yearbook-api/internal/middleware"
	"github.com/noah-isme/yearbook-api/internal/models"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
	"github.com/noah-isme/yearbook-api/pkg/response"
)

// requireClaims writes 401 and returns nil when the request is unauthenticated.
func requireClaims(c *gin.Context) *models.JWTClaims {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required"))
	}
	return claims
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func bindError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
