package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/marketplace-payments/internal/auth"
	"github.com/nurpe/marketplace-payments/internal/model"
	"github.com/nurpe/marketplace-payments/internal/service"
)

const principalKey = "principal"

type ProfileResolver interface {
	ResolveProfile(ctx context.Context, id int64) (*model.Profile, error)
}

// Auth resolves the calling profile from a bearer token, when the parser is
// enabled, or from the profile id header, and aborts with 401 otherwise.
func Auth(parser *auth.Parser, resolver ProfileResolver, header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, ok := identify(c, parser, header)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
			return
		}

		profile, err := resolver.ResolveProfile(c.Request.Context(), profileID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
			return
		}

		c.Set(principalKey, *profile)
		c.Next()
	}
}

func identify(c *gin.Context, parser *auth.Parser, header string) (int64, bool) {
	if parser.Enabled() {
		if raw := c.GetHeader("Authorization"); raw != "" {
			parts := strings.SplitN(raw, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return 0, false
			}
			profileID, err := parser.Parse(parts[1])
			if err != nil {
				return 0, false
			}
			return profileID, true
		}
	}

	if header == "" {
		return 0, false
	}
	raw := strings.TrimSpace(c.GetHeader(header))
	if raw == "" {
		return 0, false
	}
	profileID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || profileID <= 0 {
		return 0, false
	}
	return profileID, true
}

func MustPrincipal(c *gin.Context) (model.Profile, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return model.Profile{}, false
	}
	principal, ok := value.(model.Profile)
	return principal, ok
}
