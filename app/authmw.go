package app

import (
	"net/http"

	"radio_rental_tool/session"

	"github.com/gin-gonic/gin"
)

const AdminSessionCookie = "admin_session"

// AdminRequired guards the administrative routes behind the shared admin
// session. There is one admin role, no per-user identity.
func AdminRequired(adminSess *session.AdminSessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AdminSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if _, err := adminSess.Get(c.Request.Context(), ck.Value); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}
		c.Next()
	}
}
