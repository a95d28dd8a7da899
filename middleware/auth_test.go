package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func authRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(secret))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func request(router *gin.Engine, token string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestAuthDisabledWithoutSecret(t *testing.T) {
	if code := request(authRouter(""), ""); code != http.StatusOK {
		t.Fatalf("status = %d, want open access", code)
	}
}

func TestAuthTokenRoundTrip(t *testing.T) {
	token, err := MintToken("s3cret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if code := request(authRouter("s3cret"), token); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	if code := request(authRouter("s3cret"), ""); code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", code)
	}
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	token, err := MintToken("other", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if code := request(authRouter("s3cret"), token); code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", code)
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	token, err := MintToken("s3cret", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if code := request(authRouter("s3cret"), token); code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", code)
	}
}
