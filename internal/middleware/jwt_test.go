package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func gateProbe(t *testing.T) (http.Handler, *int) {
	t.Helper()
	var gotID int
	h := JWTMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserID(r.Context())
		if !ok {
			t.Error("user id missing from context")
		}
		gotID = id
		w.WriteHeader(http.StatusOK)
	}))
	return h, &gotID
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	h, gotID := gateProbe(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/cards", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body: %s", rr.Code, rr.Body.String())
	}
	if *gotID != 42 {
		t.Errorf("user id: got %d, want 42", *gotID)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	h, _ := gateProbe(t)

	req := httptest.NewRequest("GET", "/cards", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if out["code"] != "MISSING_CREDENTIAL" {
		t.Errorf("unexpected code: %s", out["code"])
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	h, _ := gateProbe(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})

	req := httptest.NewRequest("GET", "/cards", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if out["code"] != "INVALID_CREDENTIAL" {
		t.Errorf("unexpected code: %s", out["code"])
	}
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	h, _ := gateProbe(t)

	token := signToken(t, []byte("other-secret"), jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/cards", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rr.Code)
	}
}

func TestJWTMiddleware_GarbageToken(t *testing.T) {
	h, _ := gateProbe(t)

	req := httptest.NewRequest("GET", "/cards", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rr.Code)
	}
}
