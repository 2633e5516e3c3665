package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"diagnostic-center-server/internal/authz"
)

func runMiddleware(t *testing.T, mw gin.HandlerFunc, userID string, roles authz.RoleSet) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if userID != "" {
		c.Set("userID", userID)
	}
	if roles != nil {
		c.Set("userRoles", roles)
	}

	reached := false
	mw(c)
	if !c.IsAborted() {
		reached = true
	}
	return w, reached
}

func TestRoleAuthMiddleware(t *testing.T) {
	cases := []struct {
		name    string
		allowed []authz.Role
		roles   authz.RoleSet
		pass    bool
	}{
		{"held role passes", []authz.Role{authz.RoleStaff}, authz.NewRoleSet(authz.RoleStaff), true},
		{"any allowed role passes", []authz.Role{authz.RoleAdmin, authz.RoleManager}, authz.NewRoleSet(authz.RoleManager), true},
		{"missing role rejected", []authz.Role{authz.RoleAdmin}, authz.NewRoleSet(authz.RolePatient), false},
		{"extra roles do not help", []authz.Role{authz.RoleAdmin}, authz.NewRoleSet(authz.RolePatient, authz.RoleStaff), false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			w, reached := runMiddleware(t, RoleAuthMiddleware(tt.allowed...), "u1", tt.roles)
			if reached != tt.pass {
				t.Fatalf("reached=%v, want %v (status %d)", reached, tt.pass, w.Code)
			}
			if !tt.pass && w.Code != http.StatusForbidden {
				t.Fatalf("status=%d, want %d", w.Code, http.StatusForbidden)
			}
		})
	}

	t.Run("no roles in context", func(t *testing.T) {
		w, reached := runMiddleware(t, RoleAuthMiddleware(authz.RoleAdmin), "u1", nil)
		if reached {
			t.Fatal("request passed without roles in context")
		}
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status=%d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}

func TestAdminOnlyMiddleware(t *testing.T) {
	cases := []struct {
		name  string
		roles authz.RoleSet
		pass  bool
	}{
		{"super admin", authz.NewRoleSet(authz.RoleSuperAdmin), true},
		{"admin", authz.NewRoleSet(authz.RoleAdmin), true},
		{"manager", authz.NewRoleSet(authz.RoleManager), true},
		{"staff", authz.NewRoleSet(authz.RoleStaff), false},
		{"patient", authz.NewRoleSet(authz.RolePatient), false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			w, reached := runMiddleware(t, AdminOnlyMiddleware(), "u1", tt.roles)
			if reached != tt.pass {
				t.Fatalf("reached=%v, want %v (status %d)", reached, tt.pass, w.Code)
			}
		})
	}
}
