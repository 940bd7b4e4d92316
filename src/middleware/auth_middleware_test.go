package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func validClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id":  float64(7),
		"username": "alice",
		"role":     role,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

func TestJWTAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	var gotUserID int64
	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = r.Context().Value("user_id").(int64)
		gotRole = r.Context().Value("role").(string)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("manager")))
	rec := httptest.NewRecorder()
	JWTAuthMiddleware(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}
	if gotUserID != 7 || gotRole != "manager" {
		t.Fatalf("context user_id=%d role=%q, want 7/manager", gotUserID, gotRole)
	}
}

func TestJWTAuthMiddlewareRejects(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run")
	})

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "garbage token", token: "Bearer not.a.token"},
		{name: "wrong secret", token: "Bearer " + func() string {
			tok := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("manager"))
			s, _ := tok.SignedString([]byte("other-secret"))
			return s
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", tt.token)
			}
			rec := httptest.NewRecorder()
			JWTAuthMiddleware(next).ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status=%d want 401", rec.Code)
			}
		})
	}
}

func TestJWTAuthMiddlewareExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	claims := validClaims("manager")
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, claims))
	rec := httptest.NewRecorder()
	JWTAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d want 401", rec.Code)
	}
}

func TestAdminMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	tests := []struct {
		role string
		want int
	}{
		{role: "admin", want: http.StatusOK},
		{role: "manager", want: http.StatusForbidden},
		{role: "visitor", want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			handler := JWTAuthMiddleware(AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})))
			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims(tt.role)))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("role %s: status=%d want %d", tt.role, rec.Code, tt.want)
			}
		})
	}
}

func TestReadOnlyMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	tests := []struct {
		role   string
		method string
		want   int
	}{
		{role: "visitor", method: http.MethodGet, want: http.StatusOK},
		{role: "visitor", method: http.MethodPost, want: http.StatusForbidden},
		{role: "visitor", method: http.MethodDelete, want: http.StatusForbidden},
		{role: "manager", method: http.MethodPost, want: http.StatusOK},
		{role: "admin", method: http.MethodDelete, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.role+" "+tt.method, func(t *testing.T) {
			handler := JWTAuthMiddleware(ReadOnlyMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})))
			req := httptest.NewRequest(tt.method, "/api/transactions", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims(tt.role)))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("%s %s: status=%d want %d", tt.role, tt.method, rec.Code, tt.want)
			}
		})
	}
}
