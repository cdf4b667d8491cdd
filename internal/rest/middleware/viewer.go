package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/senuthbros6699-eng/dialect/domain"
)

const ViewerKey = "viewer"

type ViewerResolver interface {
	Viewer(accessToken string) (*domain.Viewer, error)
}

// BearerToken is the access token of the Authorization header, "" when absent
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) < len("Bearer ") || !strings.EqualFold(h[:len("Bearer ")], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[len("Bearer "):])
}

// Viewer resolves an optional bearer token into the viewer of the request.
// Requests without a token pass through anonymously; a bad token is refused.
func Viewer(resolver ViewerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		v, err := resolver.Viewer(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": domain.ErrUnauthenticated.Error()})
			return
		}
		c.Set(ViewerKey, v)
		c.Next()
	}
}

// RequireViewer refuses anonymous requests
func RequireViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ViewerOf(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": domain.ErrUnauthenticated.Error()})
			return
		}
		c.Next()
	}
}

// ViewerOf returns the viewer set by Viewer, nil for anonymous requests
func ViewerOf(c *gin.Context) *domain.Viewer {
	v, ok := c.Get(ViewerKey)
	if !ok {
		return nil
	}
	viewer, _ := v.(*domain.Viewer)
	return viewer
}
