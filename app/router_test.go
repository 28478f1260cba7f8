package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"pricecompare/account-api/internal"
	"pricecompare/account-api/internal/account"
	"pricecompare/account-api/internal/model"
	"pricecompare/account-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type noopNotifier struct{}

func (noopNotifier) SendVerificationMail(email, username, code string) error { return nil }

func newTestEnv(t *testing.T) (*gin.Engine, *internal.Deps) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// newEngine reads the CORS origins from viper; cors.New panics if
	// they are empty, so mirror the default set by config.Setup.
	viper.Set("host.cors_origins", []string{"http://localhost:5173"})

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(model.User{}, model.Verification{}))

	tokens := security.NewTokenIssuer([]byte("test-secret"), time.Minute)

	d := &internal.Deps{
		DB:      conn,
		Account: account.NewService(conn, security.NewArgonHash(), tokens, noopNotifier{}),
	}

	return newEngine(d), d
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doLogin(t *testing.T, router *gin.Engine, username, password string) *httptest.ResponseRecorder {
	t.Helper()

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func storedCode(t *testing.T, d *internal.Deps, username string) string {
	t.Helper()

	var user model.User
	require.NoError(t, d.DB.Where("username = ?", username).First(&user).Error)

	var verif model.Verification
	require.NoError(t, d.DB.Where("user_id = ?", user.ID).First(&verif).Error)
	return verif.Code
}

func storedID(t *testing.T, d *internal.Deps, username string) string {
	t.Helper()

	var user model.User
	require.NoError(t, d.DB.Where("username = ?", username).First(&user).Error)
	return user.ID
}

func registerAndVerify(t *testing.T, router *gin.Engine, d *internal.Deps, username, email, password string) (id, token string) {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/verify", "", gin.H{
		"user_name":         username,
		"verification_code": storedCode(t, d, username),
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doLogin(t, router, username, password)
	require.Equal(t, http.StatusOK, w.Code)

	return storedID(t, d, username), decodeBody(t, w)["access_token"].(string)
}

func TestAccountJourney(t *testing.T) {
	router, d := newTestEnv(t)

	// Register
	w := doJSON(t, router, http.MethodPost, "/api/register", "", gin.H{
		"username": "alice",
		"email":    "alice@x.com",
		"password": "password1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, map[string]any{"username": "alice", "email": "alice@x.com"}, decodeBody(t, w))

	// Login before verifying
	w = doLogin(t, router, "alice", "password1")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "User not verified", decodeBody(t, w)["error"])
	require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	// Wrong code
	w = doJSON(t, router, http.MethodPut, "/api/verify", "", gin.H{
		"user_name":         "alice",
		"verification_code": "000000",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Correct code
	w = doJSON(t, router, http.MethodPut, "/api/verify", "", gin.H{
		"user_name":         "alice",
		"verification_code": storedCode(t, d, "alice"),
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Verified successfully", decodeBody(t, w)["message"])

	// Login
	w = doLogin(t, router, "alice", "password1")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "bearer", body["token_type"])
	token := body["access_token"].(string)
	require.NotEmpty(t, token)

	id := storedID(t, d, "alice")

	// Fetch own profile
	w = doJSON(t, router, http.MethodGet, "/api/user/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, map[string]any{"username": "alice", "email": "alice@x.com"}, decodeBody(t, w))

	// Change the username
	w = doJSON(t, router, http.MethodPut, "/api/user/"+id+"/username", token, gin.H{"username": "bob"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, map[string]any{"username": "bob", "email": "alice@x.com"}, decodeBody(t, w))

	// Same change again is a conflict
	w = doJSON(t, router, http.MethodPut, "/api/user/"+id+"/username", token, gin.H{"username": "bob"})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginFailureMessages(t *testing.T) {
	router, d := newTestEnv(t)
	registerAndVerify(t, router, d, "alice", "alice@x.com", "password1")

	w := doLogin(t, router, "nobody", "password1")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "User not found", decodeBody(t, w)["error"])

	w = doLogin(t, router, "alice", "wrong password")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Incorrect password", decodeBody(t, w)["error"])
}

func TestProtectedWithoutToken(t *testing.T) {
	router, _ := newTestEnv(t)

	w := doJSON(t, router, http.MethodGet, "/api/user/some-id", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	// A token signed with a different secret is rejected the same way
	forged, err := security.NewTokenIssuer([]byte("other-secret"), time.Minute).Issue("alice")
	require.NoError(t, err)

	w = doJSON(t, router, http.MethodGet, "/api/user/some-id", forged, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Could not validate credentials", decodeBody(t, w)["error"])
}

func TestForbiddenCrossUser(t *testing.T) {
	router, d := newTestEnv(t)

	_, tokenA := registerAndVerify(t, router, d, "alice", "alice@x.com", "password1")
	idB, _ := registerAndVerify(t, router, d, "bob", "bob@x.com", "password1")

	requests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/user/" + idB, nil},
		{http.MethodPut, "/api/user/" + idB + "/username", gin.H{"username": "mallory"}},
		{http.MethodPut, "/api/user/" + idB + "/email", gin.H{"email": "mallory@x.com"}},
		{http.MethodPut, "/api/user/" + idB + "/password", gin.H{"current_password": "password1", "new_password": "password2"}},
		{http.MethodDelete, "/api/user/" + idB, nil},
	}

	for _, r := range requests {
		w := doJSON(t, router, r.method, r.path, tokenA, r.body)
		require.Equal(t, http.StatusForbidden, w.Code, "%s %s", r.method, r.path)
	}
}

func TestUpdatePasswordEndpoint(t *testing.T) {
	router, d := newTestEnv(t)
	id, token := registerAndVerify(t, router, d, "alice", "alice@x.com", "password1")

	w := doJSON(t, router, http.MethodPut, "/api/user/"+id+"/password", token, gin.H{
		"current_password": "wrong password",
		"new_password":     "password2",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/user/"+id+"/password", token, gin.H{
		"current_password": "password1",
		"new_password":     "password2",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doLogin(t, router, "alice", "password2")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteUserEndpoint(t *testing.T) {
	router, d := newTestEnv(t)
	id, token := registerAndVerify(t, router, d, "alice", "alice@x.com", "password1")

	w := doJSON(t, router, http.MethodDelete, "/api/user/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "User deleted successfully", decodeBody(t, w)["message"])

	// The token's subject is gone, so the same token stops working
	w = doJSON(t, router, http.MethodGet, "/api/user/"+id, token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	router, _ := newTestEnv(t)

	cases := []gin.H{
		{"username": "alice", "email": "not-an-email", "password": "password1"},
		{"username": "alice", "email": "alice@x.com", "password": "short"},
		{"username": "al", "email": "alice@x.com", "password": "password1"},
	}

	for _, body := range cases {
		w := doJSON(t, router, http.MethodPost, "/api/register", "", body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %v", body)
	}
}

func TestVerifyUnknownUser(t *testing.T) {
	router, _ := newTestEnv(t)

	w := doJSON(t, router, http.MethodPut, "/api/verify", "", gin.H{
		"user_name":         "nobody",
		"verification_code": "abc123",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Verification code not found", decodeBody(t, w)["error"])
}

func TestHeartbeat(t *testing.T) {
	router, _ := newTestEnv(t)

	req := httptest.NewRequest(http.MethodHead, "/api/heartbeat", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
