package authn

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/network-onboarding/network-onboarding/internal/middleware"
)

// @Summary      Protected demo route
// @Description  Echoes the identity decoded from the bearer token. Exists to exercise the token gate.
// @Tags         Authentication
// @Security     Bearer
// @Produce      plain
// @Success      200  {string}  string  "Identity summary"
// @Failure      401  {string}  string  "No or malformed token"
// @Failure      403  {string}  string  "Invalid token."
// @Router       /protected [get]
// ProtectedHandler echoes the authenticated identity
// GET /protected
func (h *Handlers) ProtectedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.ClaimsFromContext(c)
		if !ok {
			c.String(http.StatusForbidden, "User not authenticated.")
			return
		}

		c.String(http.StatusOK, "This is a protected route. Username: %s, User Mail ID: %s, Project ID: %d",
			claims.Username, claims.Email, claims.ProjectID)
	}
}
