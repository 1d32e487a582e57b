package server

import (
	"net/http"
	"testing"

	"aura/internal/models"
)

func TestSignupAndLoginFlow(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"username":     "corvid",
		"email":        "corvid@example.com",
		"password":     "Sup3rSecret!",
		"display_name": "Corvid",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", resp.StatusCode)
	}
	var created models.User
	decodeBody(t, resp, &created)
	if created.ID == 0 || created.Username != "corvid" {
		t.Fatalf("unexpected signup response: %+v", created)
	}

	var stored models.User
	if err := db.Where("username = ?", "corvid").First(&stored).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.Password == "Sup3rSecret!" {
		t.Fatal("password stored in plaintext")
	}

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "corvid@example.com",
		"password": "Sup3rSecret!",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	var loginResp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &loginResp)
	if loginResp.Token == "" {
		t.Fatal("login returned no token")
	}

	// The issued token must be accepted by protected routes.
	resp = doJSON(t, app, http.MethodGet, "/api/users/me", "Bearer "+loginResp.Token, nil)
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("users/me with fresh token: expected 200, got %d", resp.StatusCode)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	createTestUser(t, db, "taken")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "someone_else",
		"email":    "taken@example.com",
		"password": "Sup3rSecret!",
	})
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	createTestUser(t, db, "wrongpw")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "wrongpw@example.com",
		"password": "not-the-password",
	})
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestLoginBannedAccount(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	user := createTestUser(t, db, "banned")
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_banned", true).Error; err != nil {
		t.Fatalf("ban user: %v", err)
	}

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "banned@example.com",
		"password": "password123",
	})
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for banned account, got %d", resp.StatusCode)
	}
}

func TestSystemAccountCannotLogIn(t *testing.T) {
	t.Parallel()

	_, app, _ := setupTestApp(t, nil)

	// The bootstrap account's placeholder password must not be guessable.
	for _, password := range []string{"1", "aura_system", "system"} {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "system@aura.local",
			"password": password,
		})
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("password %q: expected 401, got %d", password, resp.StatusCode)
		}
	}
}

func TestProtectedRouteRequiresAuth(t *testing.T) {
	t.Parallel()

	_, app, _ := setupTestApp(t, nil)

	resp := doJSON(t, app, http.MethodGet, "/api/users/me", "", nil)
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}
