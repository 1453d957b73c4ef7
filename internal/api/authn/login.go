// Package authn implements credential login and the demo protected route.
//
// Login is gated on provisioning: valid credentials are rejected with 403
// until the owning project has a network identifier. The issued token is also
// persisted onto the membership row (last-login-wins, no revocation list).
package authn

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/network-onboarding/network-onboarding/internal/auth"
	"github.com/network-onboarding/network-onboarding/internal/db/repositories"
)

// Handlers handles login and the protected demo route
type Handlers struct {
	issuer        *auth.TokenIssuer
	projects      *repositories.ProjectRepository
	registrations *repositories.RegistrationRepository
}

// NewHandlers creates a new authn Handlers instance
func NewHandlers(db *sqlx.DB, issuer *auth.TokenIssuer) *Handlers {
	return &Handlers{
		issuer:        issuer,
		projects:      repositories.NewProjectRepository(db),
		registrations: repositories.NewRegistrationRepository(db),
	}
}

// LoginRequest is the credential payload for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// @Summary      Login
// @Description  Verify credentials and issue a session token. Fails with 403 until the user's project is provisioned with a network identifier.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        body  body  LoginRequest  true  "Username and password"
// @Success      200  {object}  map[string]interface{}  "token: signed session token"
// @Failure      400  {string}  string  "username or password missing"
// @Failure      401  {string}  string  "Invalid username or password."
// @Failure      403  {string}  string  "Network ID not created for the project."
// @Failure      500  {string}  string  "Internal error"
// @Router       /login [post]
// LoginHandler verifies credentials and issues a session token
// POST /login
func (h *Handlers) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
			c.String(http.StatusBadRequest, "Invalid input: username and password are required.")
			return
		}

		ctx := c.Request.Context()

		reg, err := h.registrations.GetByUsername(ctx, req.Username)
		if err != nil {
			c.String(http.StatusInternalServerError, "An error occurred during login.")
			return
		}
		// Unknown username and wrong password produce the same response so
		// callers cannot enumerate registered usernames.
		if reg == nil {
			c.String(http.StatusUnauthorized, "Invalid username or password.")
			return
		}

		if !auth.VerifyPassword(req.Password, reg.Password) {
			c.String(http.StatusUnauthorized, "Invalid username or password.")
			return
		}

		project, err := h.projects.GetByID(ctx, reg.ProjectID)
		if err != nil {
			c.String(http.StatusInternalServerError, "An error occurred during login.")
			return
		}
		if project == nil || !project.Provisioned() {
			c.String(http.StatusForbidden, "Network ID not created for the project.")
			return
		}

		token, err := h.issuer.Generate(reg.Username, reg.Email, reg.ProjectID)
		if err != nil {
			c.String(http.StatusInternalServerError, "An error occurred during login.")
			return
		}

		if err := h.registrations.UpdateToken(ctx, reg.Username, token); err != nil {
			c.String(http.StatusInternalServerError, "An error occurred during login.")
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
