package middleware

import (
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"popupkit/jokebox/internal/config"
)

// CORS lets the extension popup (chrome-extension:// origin) call the API.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:           cfg.AllowedMethods,
		AllowHeaders:           cfg.AllowedHeaders,
		ExposeHeaders:          []string{HeaderRequestID},
		AllowCredentials:       cfg.AllowCredentials,
		MaxAge:                 cfg.MaxAge,
		AllowBrowserExtensions: true,
	}
	if slices.Contains(cfg.AllowedOrigins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
	}
	return cors.New(c)
}
