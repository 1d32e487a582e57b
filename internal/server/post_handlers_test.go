package server

import (
	"fmt"
	"net/http"
	"testing"

	"aura/internal/models"
)

func TestCreatePostWithHashtagsAndTags(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	author := createTestUser(t, db, "author")
	tagged := createTestUser(t, db, "tagged")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", bearerFor(t, author.ID), map[string]interface{}{
		"title":           "Great article",
		"content":         "worth a read",
		"link_url":        "https://example.com/article",
		"privacy":         "public",
		"hashtags":        []string{"#GoLang", "reading"},
		"tagged_user_ids": []uint{tagged.ID},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var post models.Post
	decodeBody(t, resp, &post)
	if post.ID == 0 || post.ListID != models.GeneralListID {
		t.Fatalf("unexpected post: %+v", post)
	}
	if len(post.Hashtags) != 2 {
		t.Fatalf("expected 2 hashtags, got %d", len(post.Hashtags))
	}
	for _, h := range post.Hashtags {
		if h.Tag != "golang" && h.Tag != "reading" {
			t.Fatalf("hashtag not normalized: %q", h.Tag)
		}
	}

	var notif models.Notification
	if err := db.Where("user_id = ? AND type = ?", tagged.ID, models.NotificationPostTag).First(&notif).Error; err != nil {
		t.Fatalf("tag notification missing: %v", err)
	}
	if notif.PostID == nil || *notif.PostID != post.ID {
		t.Fatalf("tag notification points at wrong post: %+v", notif)
	}
}

func TestCreatePostRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	author := createTestUser(t, db, "strict")

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing title", map[string]interface{}{"content": "no title"}},
		{"bad link", map[string]interface{}{"title": "x", "link_url": "not a url"}},
		{"rsvp without event", map[string]interface{}{"title": "x", "allow_rsvp": true}},
		{"bad event date", map[string]interface{}{"title": "x", "event_date": "tomorrow"}},
	}
	for _, tc := range cases {
		resp := doJSON(t, app, http.MethodPost, "/api/posts", bearerFor(t, author.ID), tc.body)
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, resp.StatusCode)
		}
	}
}

func TestFeedRespectsPrivacy(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	author := createTestUser(t, db, "feedauthor")
	friend := createTestUser(t, db, "feedfriend")
	stranger := createTestUser(t, db, "feedstranger")
	befriend(t, db, author, friend)

	public := createTestPost(t, db, author, models.PrivacyPublic)
	connections := createTestPost(t, db, author, models.PrivacyConnections)
	private := createTestPost(t, db, author, models.PrivacyPrivate)

	fetchIDs := func(auth string) map[uint]bool {
		resp := doJSON(t, app, http.MethodGet, "/api/posts", auth, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("feed: expected 200, got %d", resp.StatusCode)
		}
		var posts []models.Post
		decodeBody(t, resp, &posts)
		ids := make(map[uint]bool, len(posts))
		for _, p := range posts {
			ids[p.ID] = true
		}
		return ids
	}

	anon := fetchIDs("")
	if !anon[public.ID] || anon[connections.ID] || anon[private.ID] {
		t.Fatalf("anonymous feed wrong: %v", anon)
	}

	friendIDs := fetchIDs(bearerFor(t, friend.ID))
	if !friendIDs[public.ID] || !friendIDs[connections.ID] || friendIDs[private.ID] {
		t.Fatalf("friend feed wrong: %v", friendIDs)
	}

	strangerIDs := fetchIDs(bearerFor(t, stranger.ID))
	if !strangerIDs[public.ID] || strangerIDs[connections.ID] {
		t.Fatalf("stranger feed wrong: %v", strangerIDs)
	}

	authorIDs := fetchIDs(bearerFor(t, author.ID))
	if !authorIDs[private.ID] {
		t.Fatal("author cannot see own private post")
	}
}

func TestInvisiblePostReadsAsNotFound(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	author := createTestUser(t, db, "hidden")
	stranger := createTestUser(t, db, "peeker")
	private := createTestPost(t, db, author, models.PrivacyPrivate)

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", private.ID), bearerFor(t, stranger.ID), nil)
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for invisible post, got %d", resp.StatusCode)
	}
}

func TestLikePostIsIdempotentAndNotifies(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	author := createTestUser(t, db, "liked")
	liker := createTestUser(t, db, "liker")
	post := createTestPost(t, db, author, models.PrivacyPublic)

	path := fmt.Sprintf("/api/posts/%d/like", post.ID)
	for i := 0; i < 2; i++ {
		resp := doJSON(t, app, http.MethodPost, path, bearerFor(t, liker.ID), nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("like attempt %d: expected 200, got %d", i+1, resp.StatusCode)
		}
		var updated models.Post
		decodeBody(t, resp, &updated)
		if updated.LikesCount != 1 {
			t.Fatalf("like attempt %d: expected likes_count 1, got %d", i+1, updated.LikesCount)
		}
		if !updated.Liked {
			t.Fatalf("like attempt %d: expected liked=true", i+1)
		}
	}

	// Repeated likes must not duplicate the notification.
	var count int64
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", author.ID, models.NotificationPostLike).
		Count(&count).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 like notification, got %d", count)
	}

	resp := doJSON(t, app, http.MethodDelete, path, bearerFor(t, liker.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unlike: expected 200, got %d", resp.StatusCode)
	}
	var updated models.Post
	decodeBody(t, resp, &updated)
	if updated.LikesCount != 0 || updated.Liked {
		t.Fatalf("unlike did not stick: likes=%d liked=%v", updated.LikesCount, updated.Liked)
	}
}

func TestSelfLikeDoesNotNotify(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	author := createTestUser(t, db, "selflike")
	post := createTestPost(t, db, author, models.PrivacyPublic)

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", post.ID), bearerFor(t, author.ID), nil)
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var count int64
	if err := db.Model(&models.Notification{}).Where("type = ?", models.NotificationPostLike).Count(&count).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if count != 0 {
		t.Fatalf("self-like produced %d notifications", count)
	}
}

func TestFlagThresholdAutoRemovesPost(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.FlagAutoRemoveAt = 2
	_, app, db := setupTestApp(t, cfg)

	author := createTestUser(t, db, "flagged")
	flagger1 := createTestUser(t, db, "flagger1")
	flagger2 := createTestUser(t, db, "flagger2")
	post := createTestPost(t, db, author, models.PrivacyPublic)

	path := fmt.Sprintf("/api/posts/%d/flag", post.ID)

	resp := doJSON(t, app, http.MethodPost, path, bearerFor(t, flagger1.ID), map[string]string{"reason": "spam"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first flag: expected 200, got %d", resp.StatusCode)
	}
	var result struct {
		Flagged bool  `json:"flagged"`
		Count   int64 `json:"count"`
		Removed bool  `json:"removed"`
	}
	decodeBody(t, resp, &result)
	if !result.Flagged || result.Count != 1 || result.Removed {
		t.Fatalf("first flag result wrong: %+v", result)
	}

	resp = doJSON(t, app, http.MethodPost, path, bearerFor(t, flagger2.ID), map[string]string{"reason": "abuse"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second flag: expected 200, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &result)
	if !result.Removed {
		t.Fatalf("threshold flag did not remove: %+v", result)
	}

	// The post is soft-deleted and no longer readable.
	var gone models.Post
	if err := db.First(&gone, post.ID).Error; err == nil {
		t.Fatal("post still readable after auto-removal")
	}

	var queued models.ReviewQueueItem
	if err := db.Where("content_type = ? AND content_id = ?", "post", post.ID).First(&queued).Error; err != nil {
		t.Fatalf("review queue item missing: %v", err)
	}
	if queued.Status != models.ReviewStatusPending {
		t.Fatalf("expected pending review, got %s", queued.Status)
	}

	var action models.ModerationAction
	if err := db.Where("content_id = ? AND action = ?", post.ID, "auto_remove").First(&action).Error; err != nil {
		t.Fatalf("moderation action missing: %v", err)
	}

	var notif models.Notification
	if err := db.Where("user_id = ? AND type = ?", author.ID, models.NotificationPostRemoved).First(&notif).Error; err != nil {
		t.Fatalf("removal notification missing: %v", err)
	}
}

func TestFlagOwnPostRejected(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	author := createTestUser(t, db, "selfflag")
	post := createTestPost(t, db, author, models.PrivacyPublic)

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/flag", post.ID),
		bearerFor(t, author.ID), map[string]string{"reason": "oops"})
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRepeatFlagsBySameUserDoNotCount(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.FlagAutoRemoveAt = 2
	_, app, db := setupTestApp(t, cfg)

	author := createTestUser(t, db, "reflagged")
	flagger := createTestUser(t, db, "reflagger")
	post := createTestPost(t, db, author, models.PrivacyPublic)

	path := fmt.Sprintf("/api/posts/%d/flag", post.ID)
	for i := 0; i < 3; i++ {
		resp := doJSON(t, app, http.MethodPost, path, bearerFor(t, flagger.ID), map[string]string{"reason": "spam"})
		var result struct {
			Count   int64 `json:"count"`
			Removed bool  `json:"removed"`
		}
		decodeBody(t, resp, &result)
		if result.Count != 1 || result.Removed {
			t.Fatalf("attempt %d: duplicate flag counted: %+v", i+1, result)
		}
	}
}

func TestRSVPFlow(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	host := createTestUser(t, db, "host")
	guest := createTestUser(t, db, "guest")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", bearerFor(t, host.ID), map[string]interface{}{
		"title":      "Picnic",
		"event_date": "2026-09-15T12:00:00Z",
		"allow_rsvp": true,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create event: expected 201, got %d", resp.StatusCode)
	}
	var event models.Post
	decodeBody(t, resp, &event)

	rsvpPath := fmt.Sprintf("/api/posts/%d/rsvp", event.ID)
	resp = doJSON(t, app, http.MethodPost, rsvpPath, bearerFor(t, guest.ID), map[string]string{"status": "going"})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("rsvp: expected 204, got %d", resp.StatusCode)
	}

	// Changing the answer keeps a single row per user.
	resp = doJSON(t, app, http.MethodPost, rsvpPath, bearerFor(t, guest.ID), map[string]string{"status": "maybe"})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("rsvp change: expected 204, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d/rsvps", event.ID), "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list rsvps: expected 200, got %d", resp.StatusCode)
	}
	var rsvps []models.RSVP
	decodeBody(t, resp, &rsvps)
	if len(rsvps) != 1 || rsvps[0].Status != models.RSVPMaybe {
		t.Fatalf("unexpected rsvps: %+v", rsvps)
	}

	// The host hears about the first response only.
	var count int64
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", host.ID, models.NotificationRSVP).
		Count(&count).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 rsvp notification, got %d", count)
	}

	// Posts without RSVP enabled refuse responses.
	plain := createTestPost(t, db, host, models.PrivacyPublic)
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/rsvp", plain.ID),
		bearerFor(t, guest.ID), map[string]string{"status": "going"})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("rsvp on plain post: expected 400, got %d", resp.StatusCode)
	}
}

func TestDeletePostAuthorOnly(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	author := createTestUser(t, db, "deleter")
	other := createTestUser(t, db, "notdeleter")
	post := createTestPost(t, db, author, models.PrivacyPublic)

	resp := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), bearerFor(t, other.ID), nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-author delete, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), bearerFor(t, author.ID), nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for author delete, got %d", resp.StatusCode)
	}
}
