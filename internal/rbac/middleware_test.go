package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"collab-platform/internal/token"

	"github.com/gin-gonic/gin"
)

func routerWithRole(role string, allowed ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		if role != "" {
			ctx := token.WithIdentity(c.Request.Context(), token.Identity{UID: "u", Role: role})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}, RequireAnyRole(allowed...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(r *gin.Engine) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w.Code
}

func TestRequireAnyRole(t *testing.T) {
	cases := []struct {
		name    string
		role    string
		allowed []string
		want    int
	}{
		{"allowed role", RoleDeveloper, []string{RoleDeveloper}, http.StatusOK},
		{"denied role", RoleClient, []string{RoleDeveloper}, http.StatusForbidden},
		{"admin bypasses", RoleAdmin, []string{RoleDeveloper}, http.StatusOK},
		{"missing identity", "", []string{RoleDeveloper}, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := get(routerWithRole(tc.role, tc.allowed...)); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}
