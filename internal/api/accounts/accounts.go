// Package accounts implements the read-only account lookups: username
// existence, latest-token retrieval, and the reversible password read.
//
// Two of these endpoints carry deliberate compatibility quirks. The existence
// check responds with the literal strings "true"/"false" rather than JSON
// booleans, and the token retrieval is unauthenticated — any caller who knows
// a username can fetch its latest session token. Existing clients depend on
// both behaviors, so tightening either one is a breaking contract change.
package accounts

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/network-onboarding/network-onboarding/internal/crypto"
	"github.com/network-onboarding/network-onboarding/internal/db/repositories"
)

// Handlers handles account query endpoints
type Handlers struct {
	registrations *repositories.RegistrationRepository
	cipher        *crypto.PasswordCipher
}

// NewHandlers creates a new accounts Handlers instance. cipher may be nil when
// no password encryption key is configured; the decrypted-password endpoint
// then always fails with 500.
func NewHandlers(db *sqlx.DB, cipher *crypto.PasswordCipher) *Handlers {
	return &Handlers{
		registrations: repositories.NewRegistrationRepository(db),
		cipher:        cipher,
	}
}

// @Summary      Check username existence
// @Description  Report whether a username is already registered. Responds with the literal string "true" or "false".
// @Tags         Accounts
// @Produce      plain
// @Param        username  query  string  true  "Username to check"
// @Success      200  {string}  string  "true or false"
// @Failure      400  {string}  string  "username missing"
// @Failure      500  {string}  string  "Internal error"
// @Router       /check-username [get]
// CheckUsernameHandler reports whether a username is taken
// GET /check-username?username=alice
func (h *Handlers) CheckUsernameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Query("username")
		if username == "" {
			c.String(http.StatusBadRequest, "Invalid input: username is required.")
			return
		}

		exists, err := h.registrations.UsernameExists(c.Request.Context(), username)
		if err != nil {
			c.String(http.StatusInternalServerError, "An error occurred while checking the username.")
			return
		}

		if exists {
			c.String(http.StatusOK, "true")
		} else {
			c.String(http.StatusOK, "false")
		}
	}
}

// @Summary      Get latest auth token
// @Description  Return the latest session token issued to a username. Unauthenticated by contract.
// @Tags         Accounts
// @Produce      json
// @Param        username  query  string  true  "Username"
// @Success      200  {object}  map[string]interface{}  "token: latest issued token (null if never logged in)"
// @Failure      400  {string}  string  "username missing"
// @Failure      404  {string}  string  "User not found."
// @Failure      500  {string}  string  "Internal error"
// @Router       /get-auth-token [get]
// GetAuthTokenHandler returns the latest token issued to a username
// GET /get-auth-token?username=alice
func (h *Handlers) GetAuthTokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Query("username")
		if username == "" {
			c.String(http.StatusBadRequest, "Invalid input: username is required.")
			return
		}

		token, found, err := h.registrations.GetToken(c.Request.Context(), username)
		if err != nil {
			c.String(http.StatusInternalServerError, "An error occurred while retrieving the auth token.")
			return
		}
		if !found {
			c.String(http.StatusNotFound, "User not found.")
			return
		}

		// A user who never logged in has a NULL token; report it as null.
		var value interface{}
		if token.Valid {
			value = token.String
		}
		c.JSON(http.StatusOK, gin.H{"token": value})
	}
}

// @Summary      Get decrypted password
// @Description  Attempt a reversible decryption of the stored password column for the matching user.
// @Tags         Accounts
// @Produce      json
// @Param        username    query  string  true  "Username"
// @Param        orgname     query  string  true  "Organization name"
// @Param        usermailId  query  string  true  "User email"
// @Success      200  {object}  map[string]interface{}  "decrypted_password"
// @Failure      400  {string}  string  "required query parameter missing"
// @Failure      404  {string}  string  "User not found in the specified organization with the given email."
// @Failure      500  {string}  string  "Stored value does not decrypt or internal error"
// @Router       /get-decrypted-password [get]
// GetDecryptedPasswordHandler attempts a reversible read of the password column
// GET /get-decrypted-password?username=alice&orgname=acme&usermailId=a@x.com
//
// Registration stores bcrypt hashes, which this endpoint cannot decrypt; the
// decryption failure surfaces as 500. Kept as-is until the system owner
// decides which storage semantic is intended.
func (h *Handlers) GetDecryptedPasswordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Query("username")
		orgname := c.Query("orgname")
		email := c.Query("usermailId")
		if username == "" || orgname == "" || email == "" {
			c.String(http.StatusBadRequest, "Invalid input: username, orgname, and usermailId are required.")
			return
		}

		stored, found, err := h.registrations.GetStoredPassword(c.Request.Context(), username, orgname, email)
		if err != nil {
			c.String(http.StatusInternalServerError, "An error occurred while retrieving the password.")
			return
		}
		if !found {
			c.String(http.StatusNotFound, "User not found in the specified organization with the given email.")
			return
		}

		if h.cipher == nil {
			c.String(http.StatusInternalServerError, "An error occurred while retrieving the password.")
			return
		}

		plaintext, err := h.cipher.Open(stored)
		if err != nil {
			c.String(http.StatusInternalServerError, "An error occurred while retrieving the password.")
			return
		}

		c.JSON(http.StatusOK, gin.H{"decrypted_password": plaintext})
	}
}
