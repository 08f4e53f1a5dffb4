package auth

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if err := CheckPassword(hash, "super-secret"); err != nil {
		t.Fatalf("expected password to match, got %v", err)
	}

	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"
	claims := Claims{UserID: "u1", EmployeeID: "e1", Role: RoleManager}

	token, err := GenerateToken(secret, claims, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	parsed, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if parsed.UserID != claims.UserID || parsed.EmployeeID != claims.EmployeeID || parsed.Role != claims.Role {
		t.Fatalf("claims mismatch: %+v", parsed)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", Claims{UserID: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	if _, err := ParseToken("secret-b", token); err == nil {
		t.Fatal("expected parse to fail with the wrong secret")
	}
}

func TestNormalizeRole(t *testing.T) {
	cases := map[string]string{
		"employee":        RoleEmployee,
		"Manager":         RoleManager,
		"human_resources": RoleHR,
		"hr":              RoleHR,
		"ADMINISTRATOR":   RoleAdmin,
		" admin ":         RoleAdmin,
		"intern":          "",
	}
	for in, want := range cases {
		if got := NormalizeRole(in); got != want {
			t.Fatalf("NormalizeRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHasRole(t *testing.T) {
	admin := UserContext{Role: RoleAdmin}
	if !admin.HasRole(RoleManager) || !admin.HasRole(RoleHR) || !admin.HasRole(RoleEmployee) {
		t.Fatal("admin must satisfy every role check")
	}

	manager := UserContext{Role: RoleManager}
	if !manager.HasRole(RoleManager) {
		t.Fatal("manager must satisfy the manager check")
	}
	if manager.HasRole(RoleHR) {
		t.Fatal("manager must not satisfy the hr check")
	}
}

func TestHasPermission(t *testing.T) {
	if !HasPermission(RoleAdmin, PermTemplatesImport) {
		t.Fatal("admin holds every permission")
	}
	if !HasPermission(RoleHR, PermTemplatesImport) {
		t.Fatal("hr may import templates")
	}
	if HasPermission(RoleEmployee, PermTemplatesImport) {
		t.Fatal("employees may not import templates")
	}
	if !HasPermission("human_resources", PermCyclesManage) {
		t.Fatal("role aliases must resolve before the permission lookup")
	}
	if HasPermission("intern", PermSheetsRead) {
		t.Fatal("unknown roles hold nothing")
	}
}
