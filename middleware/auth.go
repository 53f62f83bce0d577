package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"stem-orders/models"
	"stem-orders/utils"
)

const SessionCookie = "stem_session"

// AuthMiddleware guards operator pages. The token is read from the session
// cookie or an Authorization bearer header; browsers without one are sent to
// the login page.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(SessionCookie)
		}
		if token == "" {
			rejectUnauthorized(c)
			return
		}

		claims, err := utils.ValidateToken(token, secret)
		if err != nil || claims.Role != utils.RoleOperator {
			rejectUnauthorized(c)
			return
		}

		c.Set("operator_email", claims.Email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func rejectUnauthorized(c *gin.Context) {
	if c.Request.Method == http.MethodGet && strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
		Status:  "error",
		Message: "Invalid or expired session",
	})
}
