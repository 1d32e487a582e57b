package server

import (
	"net/http"
	"testing"

	"aura/internal/models"
)

func TestHashtagBrowseAndFollow(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	author := createTestUser(t, db, "tagger")
	follower := createTestUser(t, db, "tagfollower")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", bearerFor(t, author.ID), map[string]interface{}{
		"title":    "tagged content",
		"hashtags": []string{"Music", "#music", "books"},
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d", resp.StatusCode)
	}

	// Duplicate spellings collapse to one tag.
	var tagCount int64
	if err := db.Model(&models.Hashtag{}).Count(&tagCount).Error; err != nil {
		t.Fatalf("count hashtags: %v", err)
	}
	if tagCount != 2 {
		t.Fatalf("expected 2 hashtags, got %d", tagCount)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/hashtags/music/posts", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("hashtag posts: expected 200, got %d", resp.StatusCode)
	}
	var posts []models.Post
	decodeBody(t, resp, &posts)
	if len(posts) != 1 {
		t.Fatalf("expected 1 post under #music, got %d", len(posts))
	}

	// The lookup normalizes the requested tag too.
	resp = doJSON(t, app, http.MethodGet, "/api/hashtags/%23Music/posts", "", nil)
	decodeBody(t, resp, &posts)
	if len(posts) != 1 {
		t.Fatalf("expected normalized lookup to match, got %d posts", len(posts))
	}

	resp = doJSON(t, app, http.MethodPost, "/api/hashtags/music/follow", bearerFor(t, follower.ID), nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("follow: expected 204, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/hashtags/followed", bearerFor(t, follower.ID), nil)
	var followed []models.Hashtag
	decodeBody(t, resp, &followed)
	if len(followed) != 1 || followed[0].Tag != "music" {
		t.Fatalf("unexpected followed tags: %+v", followed)
	}

	resp = doJSON(t, app, http.MethodDelete, "/api/hashtags/music/follow", bearerFor(t, follower.ID), nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("unfollow: expected 204, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/hashtags/followed", bearerFor(t, follower.ID), nil)
	decodeBody(t, resp, &followed)
	if len(followed) != 0 {
		t.Fatalf("expected no followed tags, got %+v", followed)
	}
}

func TestTrendingHashtags(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	author := createTestUser(t, db, "trender")

	for i, tags := range [][]string{{"popular"}, {"popular"}, {"popular", "niche"}} {
		resp := doJSON(t, app, http.MethodPost, "/api/posts", bearerFor(t, author.ID), map[string]interface{}{
			"title":    "post",
			"hashtags": tags,
		})
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("post %d: expected 201, got %d", i, resp.StatusCode)
		}
	}

	resp := doJSON(t, app, http.MethodGet, "/api/hashtags/trending", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("trending: expected 200, got %d", resp.StatusCode)
	}
	var trending []struct {
		Tag   string `json:"tag"`
		Count int64  `json:"count"`
	}
	decodeBody(t, resp, &trending)
	if len(trending) != 2 {
		t.Fatalf("expected 2 trending tags, got %d", len(trending))
	}
	if trending[0].Tag != "popular" || trending[0].Count != 3 {
		t.Fatalf("unexpected top tag: %+v", trending[0])
	}
}
