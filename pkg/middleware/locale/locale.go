package locale

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const contextKey = "locale"

// Middleware validates the two-letter locale segment on public marketing
// routes (/:locale/...). Unknown locales fall back to the default rather than
// 404ing, so stale links keep working. Dashboard and API routes are mounted
// outside the locale group and never pass through here.
func Middleware(defaultLocale string, allowed []string) gin.HandlerFunc {
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, l := range allowed {
		allowedSet[strings.ToLower(l)] = struct{}{}
	}
	if len(allowedSet) == 0 {
		allowedSet[defaultLocale] = struct{}{}
	}

	return func(c *gin.Context) {
		loc := strings.ToLower(c.Param("locale"))
		if _, ok := allowedSet[loc]; !ok {
			loc = defaultLocale
		}
		c.Set(contextKey, loc)
		c.Next()
	}
}

// Value returns the locale resolved for the current request.
func Value(c *gin.Context) string {
	if v, exists := c.Get(contextKey); exists {
		if loc, ok := v.(string); ok {
			return loc
		}
	}
	return ""
}
