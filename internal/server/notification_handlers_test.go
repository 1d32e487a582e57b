package server

import (
	"fmt"
	"net/http"
	"testing"

	"aura/internal/models"
)

func TestNotificationReadFlow(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	author := createTestUser(t, db, "notified")
	actor := createTestUser(t, db, "actor")

	// Generate two notifications by engaging with the author's posts.
	post := createTestPost(t, db, author, models.PrivacyPublic)
	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", post.ID), bearerFor(t, actor.ID), nil)
	_ = resp.Body.Close()
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", post.ID),
		bearerFor(t, actor.ID), map[string]string{"content": "hey"})
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", bearerFor(t, author.ID), nil)
	var count struct {
		Count int64 `json:"count"`
	}
	decodeBody(t, resp, &count)
	if count.Count != 2 {
		t.Fatalf("expected 2 unread, got %d", count.Count)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/notifications", bearerFor(t, author.ID), nil)
	var notifs []models.Notification
	decodeBody(t, resp, &notifs)
	if len(notifs) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifs))
	}

	// Another user's acknowledgement must not touch the row.
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", notifs[0].ID), bearerFor(t, actor.ID), nil)
	_ = resp.Body.Close()
	resp = doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", bearerFor(t, author.ID), nil)
	decodeBody(t, resp, &count)
	if count.Count != 2 {
		t.Fatalf("foreign read-ack changed unread count: %d", count.Count)
	}

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", notifs[0].ID), bearerFor(t, author.ID), nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("mark read: expected 204, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", bearerFor(t, author.ID), nil)
	decodeBody(t, resp, &count)
	if count.Count != 1 {
		t.Fatalf("expected 1 unread after read, got %d", count.Count)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/notifications/read-all", bearerFor(t, author.ID), nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("read-all: expected 204, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", bearerFor(t, author.ID), nil)
	decodeBody(t, resp, &count)
	if count.Count != 0 {
		t.Fatalf("expected 0 unread after read-all, got %d", count.Count)
	}
}

func TestFeatureFlagSnapshotRoute(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.FeatureFlags = "new_feed=on,dark_mode=off,beta_search=50%"
	_, app, db := setupTestApp(t, cfg)
	user := createTestUser(t, db, "flagged_user")

	resp := doJSON(t, app, http.MethodGet, "/api/feature-flags", bearerFor(t, user.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var snapshot map[string]bool
	decodeBody(t, resp, &snapshot)
	if !snapshot["new_feed"] {
		t.Fatal("expected new_feed on")
	}
	if snapshot["dark_mode"] {
		t.Fatal("expected dark_mode off")
	}
	if _, ok := snapshot["beta_search"]; !ok {
		t.Fatal("expected beta_search present in snapshot")
	}

	// Anonymous viewers get a snapshot too; percentage flags read off.
	resp = doJSON(t, app, http.MethodGet, "/api/feature-flags", "", nil)
	decodeBody(t, resp, &snapshot)
	if snapshot["beta_search"] {
		t.Fatal("expected beta_search off for anonymous viewer")
	}
}
