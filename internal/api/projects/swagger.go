package projects

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/network-onboarding/network-onboarding/internal/middleware"
)

// @Summary      Get swagger URI
// @Description  Return the documentation URI of the caller's project. The query-string username must match the token's embedded username.
// @Tags         Projects
// @Security     Bearer
// @Produce      json
// @Param        username  query  string  true  "Username, must equal the authenticated username"
// @Success      200  {object}  map[string]interface{}  "swagger_url: documentation URI (null until provisioning)"
// @Failure      400  {string}  string  "username missing"
// @Failure      403  {string}  string  "Username does not match the authenticated user."
// @Failure      404  {string}  string  "Project not found."
// @Failure      500  {string}  string  "Internal error"
// @Router       /get-swagger-uri [get]
// GetSwaggerURIHandler returns the caller's project documentation URI
// GET /get-swagger-uri?username=alice
func (h *Handlers) GetSwaggerURIHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.ClaimsFromContext(c)
		if !ok {
			c.String(http.StatusForbidden, "User not authenticated.")
			return
		}

		queryUsername := c.Query("username")
		if queryUsername == "" {
			c.String(http.StatusBadRequest, "Invalid input: username is required.")
			return
		}
		if queryUsername != claims.Username {
			c.String(http.StatusForbidden, "Username does not match the authenticated user.")
			return
		}

		project, err := h.projects.GetByID(c.Request.Context(), claims.ProjectID)
		if err != nil {
			c.String(http.StatusInternalServerError, "An error occurred while retrieving the Swagger URI.")
			return
		}
		if project == nil {
			c.String(http.StatusNotFound, "Project not found.")
			return
		}

		// Unprovisioned projects report a null URI rather than 404; the row
		// exists, only the column is unset.
		var swaggerURL interface{}
		if project.SwaggerURL.Valid {
			swaggerURL = project.SwaggerURL.String
		}
		c.JSON(http.StatusOK, gin.H{"swagger_url": swaggerURL})
	}
}
