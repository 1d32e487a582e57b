package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"aura/internal/bootstrap"
	"aura/internal/config"
	"aura/internal/database"
	"aura/internal/middleware"
	"aura/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "handler-test-secret"

func TestMain(m *testing.M) {
	middleware.InitMiddleware(&config.Config{JWTSecret: testJWTSecret})
	m.Run()
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:              testJWTSecret,
		Port:                   "0",
		Env:                    "test",
		FlagAutoRemoveAt:       5,
		AdminSessionTTLMinutes: 60,
		RateLimitPerMinute:     10000,
	}
}

// setupTestApp builds a full server against an in-memory database with the
// real route table. Redis is absent, so rate limiting fails open and
// realtime delivery is disabled.
func setupTestApp(t *testing.T, cfg *config.Config) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	if cfg == nil {
		cfg = testConfig()
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	if err := bootstrap.EnsureGeneralList(db); err != nil {
		t.Fatalf("bootstrap general list: %v", err)
	}

	s, err := NewServerWithDeps(cfg, db, nil)
	if err != nil {
		t.Fatalf("create server: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	s.SetupRoutes(app)
	return s, app, db
}

// createTestUser persists a user whose password is "password123".
func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Username:       username,
		Email:          username + "@example.com",
		Password:       string(hash),
		DisplayName:    username,
		DefaultPrivacy: models.PrivacyPublic,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// bearerFor mints a JWT for the given user the same way the login flow does.
func bearerFor(t *testing.T, userID uint) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

// doJSON performs a request against the app. A nil body sends no payload
// and an empty auth string sends no Authorization header.
func doJSON(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}
	return resp
}

// decodeBody decodes and closes a response body.
func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// createTestPost inserts a post directly, bypassing the service layer.
func createTestPost(t *testing.T, db *gorm.DB, author *models.User, privacy models.Privacy) *models.Post {
	t.Helper()

	post := &models.Post{
		Title:   "test post",
		Content: "hello",
		UserID:  author.ID,
		ListID:  models.GeneralListID,
		Privacy: privacy,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

// befriend inserts an accepted friendship between two users.
func befriend(t *testing.T, db *gorm.DB, a, b *models.User) {
	t.Helper()

	f := &models.Friendship{RequesterID: a.ID, AddresseeID: b.ID, Status: models.FriendshipStatusAccepted}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("create friendship: %v", err)
	}
}
