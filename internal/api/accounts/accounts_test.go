package accounts

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/network-onboarding/network-onboarding/internal/auth"
	"github.com/network-onboarding/network-onboarding/internal/crypto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *crypto.PasswordCipher) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	cipher, err := crypto.NewPasswordCipher(bytes.Repeat([]byte("k"), 32))
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	h := NewHandlers(sqlx.NewDb(mockDB, "sqlmock"), cipher)

	r := gin.New()
	r.GET("/check-username", h.CheckUsernameHandler())
	r.GET("/get-auth-token", h.GetAuthTokenHandler())
	r.GET("/get-decrypted-password", h.GetDecryptedPasswordHandler())
	return r, mock, cipher
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestCheckUsername(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	mock.ExpectQuery("SELECT 1 FROM registrations").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM registrations").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	w := get(r, "/check-username?username=alice")
	if w.Code != http.StatusOK || w.Body.String() != "true" {
		t.Errorf("taken username: got %d %q", w.Code, w.Body.String())
	}

	w = get(r, "/check-username?username=ghost")
	if w.Code != http.StatusOK || w.Body.String() != "false" {
		t.Errorf("free username: got %d %q", w.Code, w.Body.String())
	}

	w = get(r, "/check-username")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing username: expected 400, got %d", w.Code)
	}
}

func TestGetAuthToken(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	mock.ExpectQuery("SELECT token FROM registrations").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"token"}).AddRow("tok-123"))

	w := get(r, "/get-auth-token?username=alice")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["token"] != "tok-123" {
		t.Errorf("unexpected token: %v", resp["token"])
	}
}

func TestGetAuthTokenNeverLoggedIn(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	mock.ExpectQuery("SELECT token FROM registrations").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"token"}).AddRow(nil))

	w := get(r, "/get-auth-token?username=alice")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["token"] != nil {
		t.Errorf("expected null token, got %v", resp["token"])
	}
}

func TestGetAuthTokenUnknownUser(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	mock.ExpectQuery("SELECT token FROM registrations").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"token"}))

	w := get(r, "/get-auth-token?username=ghost")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w.Body.String() != "User not found." {
		t.Errorf("unexpected body: %q", w.Body.String())
	}
}

func TestGetDecryptedPassword(t *testing.T) {
	r, mock, cipher := newTestRouter(t)

	sealed, err := cipher.Seal("s3cret")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	mock.ExpectQuery("SELECT password FROM registrations").
		WithArgs("alice", "acme", "alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"password"}).AddRow(sealed))

	w := get(r, "/get-decrypted-password?username=alice&orgname=acme&usermailId=alice@example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["decrypted_password"] != "s3cret" {
		t.Errorf("unexpected password: %v", resp["decrypted_password"])
	}
}

// Registration writes bcrypt hashes, which the reversible read path cannot
// decrypt. The mismatch surfaces as a 500, not a silent fallback.
func TestGetDecryptedPasswordBcryptStored(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	mock.ExpectQuery("SELECT password FROM registrations").
		WithArgs("alice", "acme", "alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"password"}).AddRow(hash))

	w := get(r, "/get-decrypted-password?username=alice&orgname=acme&usermailId=alice@example.com")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if w.Body.String() != "An error occurred while retrieving the password." {
		t.Errorf("unexpected body: %q", w.Body.String())
	}
}

func TestGetDecryptedPasswordValidation(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := get(r, "/get-decrypted-password?username=alice&orgname=acme")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w.Body.String() != "Invalid input: username, orgname, and usermailId are required." {
		t.Errorf("unexpected body: %q", w.Body.String())
	}
}

func TestGetDecryptedPasswordUnknownUser(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	mock.ExpectQuery("SELECT password FROM registrations").
		WithArgs("ghost", "acme", "g@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"password"}))

	w := get(r, "/get-decrypted-password?username=ghost&orgname=acme&usermailId=g@x.com")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w.Body.String() != "User not found in the specified organization with the given email." {
		t.Errorf("unexpected body: %q", w.Body.String())
	}
}
