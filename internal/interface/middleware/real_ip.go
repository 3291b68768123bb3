package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxRealIP = "real_ip"

// RealIP stores the client address used in login notifications.
// CF-Connecting-IP wins, then the left-most X-Forwarded-For entry, then c.ClientIP().
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxRealIP, realIP(c))
		c.Next()
	}
}

func realIP(c *gin.Context) string {
	if ip := net.ParseIP(strings.TrimSpace(c.GetHeader("CF-Connecting-IP"))); ip != nil {
		return ip.String()
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}

// ClientIP returns the address stored by RealIP, or c.ClientIP() when the middleware did not run.
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(CtxRealIP); ip != "" {
		return ip
	}
	return c.ClientIP()
}
