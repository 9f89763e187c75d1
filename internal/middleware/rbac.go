package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yearbook-api/internal/models"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
	"github.com/noah-isme/yearbook-api/pkg/response"
)

// RequireUserTypes lets only the listed account types through. It must run after JWT.
func RequireUserTypes(types ...models.UserType) gin.HandlerFunc {
	allowed := make(map[models.UserType]struct{}, len(types))
	for _, t := range types {
		allowed[t] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required"))
			c.Abort()
			return
		}
		if _, ok := allowed[claims.UserType]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, forbiddenMessage(types)))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin is RequireUserTypes(models.UserTypeAdmin).
func RequireAdmin() gin.HandlerFunc {
	return RequireUserTypes(models.UserTypeAdmin)
}

// RequireStudent is RequireUserTypes(models.UserTypeStudent).
func RequireStudent() gin.HandlerFunc {
	return RequireUserTypes(models.UserTypeStudent)
}

func forbiddenMessage(types []models.UserType) string {
	if len(types) == 1 {
		switch types[0] {
		case models.UserTypeAdmin:
			return "Admin access required"
		case models.UserTypeStudent:
			return "Student access required"
		}
	}
	return "forbidden"
}
