package server

import (
	"fmt"
	"net/http"
	"testing"

	"aura/internal/models"
)

func TestListInviteAcceptFlow(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	owner := createTestUser(t, db, "listowner")
	invitee := createTestUser(t, db, "invitee")

	resp := doJSON(t, app, http.MethodPost, "/api/lists", bearerFor(t, owner.ID), map[string]string{
		"name":    "Recipes",
		"privacy": "private",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create list: expected 201, got %d", resp.StatusCode)
	}
	var list models.List
	decodeBody(t, resp, &list)

	// Non-members cannot post to a private list.
	resp = doJSON(t, app, http.MethodPost, "/api/posts", bearerFor(t, invitee.ID), map[string]interface{}{
		"title":   "intruding",
		"list_id": list.ID,
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-member post: expected 403, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/lists/%d/invites", list.ID),
		bearerFor(t, owner.ID), map[string]interface{}{"user_id": invitee.ID, "role": "collaborator"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("invite: expected 201, got %d", resp.StatusCode)
	}
	var access models.ListAccess
	decodeBody(t, resp, &access)
	if access.Status != models.ListAccessStatusPending {
		t.Fatalf("expected pending invite, got %s", access.Status)
	}

	var notif models.Notification
	if err := db.Where("user_id = ? AND type = ?", invitee.ID, models.NotificationListInvite).First(&notif).Error; err != nil {
		t.Fatalf("invite notification missing: %v", err)
	}

	// A pending invite does not yet grant posting rights.
	resp = doJSON(t, app, http.MethodPost, "/api/posts", bearerFor(t, invitee.ID), map[string]interface{}{
		"title":   "still intruding",
		"list_id": list.ID,
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("pending-invite post: expected 403, got %d", resp.StatusCode)
	}

	// The owner cannot accept on the invitee's behalf.
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/invites/%d/accept", access.ID), bearerFor(t, owner.ID), nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("owner accepting invite: expected 403, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/invites/%d/accept", access.ID), bearerFor(t, invitee.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("accept invite: expected 200, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &access)
	if access.Status != models.ListAccessStatusAccepted {
		t.Fatalf("expected accepted, got %s", access.Status)
	}

	// Collaborators may now post into the list.
	resp = doJSON(t, app, http.MethodPost, "/api/posts", bearerFor(t, invitee.ID), map[string]interface{}{
		"title":   "collaborating",
		"list_id": list.ID,
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("collaborator post: expected 201, got %d", resp.StatusCode)
	}
}

func TestViewerRoleCannotPost(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	owner := createTestUser(t, db, "viewowner")
	viewer := createTestUser(t, db, "viewer1")

	resp := doJSON(t, app, http.MethodPost, "/api/lists", bearerFor(t, owner.ID), map[string]string{"name": "Readings"})
	var list models.List
	decodeBody(t, resp, &list)

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/lists/%d/invites", list.ID),
		bearerFor(t, owner.ID), map[string]interface{}{"user_id": viewer.ID, "role": "viewer"})
	var access models.ListAccess
	decodeBody(t, resp, &access)

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/invites/%d/accept", access.ID), bearerFor(t, viewer.ID), nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("accept invite: expected 200, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/posts", bearerFor(t, viewer.ID), map[string]interface{}{
		"title":   "read only",
		"list_id": list.ID,
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("viewer post: expected 403, got %d", resp.StatusCode)
	}
}

func TestAccessRequestApproveFlow(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	owner := createTestUser(t, db, "reqowner")
	requester := createTestUser(t, db, "requester")

	resp := doJSON(t, app, http.MethodPost, "/api/lists", bearerFor(t, owner.ID), map[string]string{
		"name":    "Inner Circle",
		"privacy": "private",
	})
	var list models.List
	decodeBody(t, resp, &list)

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/lists/%d/requests", list.ID),
		bearerFor(t, requester.ID), map[string]string{"role": "collaborator", "message": "let me in"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("request access: expected 201, got %d", resp.StatusCode)
	}
	var request models.AccessRequest
	decodeBody(t, resp, &request)

	// Duplicate requests are rejected while one is pending.
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/lists/%d/requests", list.ID),
		bearerFor(t, requester.ID), map[string]string{"role": "collaborator"})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate request: expected 400, got %d", resp.StatusCode)
	}

	// Only the owner sees and answers requests.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/lists/%d/requests", list.ID), bearerFor(t, requester.ID), nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-owner listing requests: expected 403, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/access-requests/%d/approve", request.ID),
		bearerFor(t, owner.ID), nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("approve: expected 204, got %d", resp.StatusCode)
	}

	// The request is consumed and an accepted grant exists.
	var remaining int64
	if err := db.Model(&models.AccessRequest{}).Where("id = ?", request.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("count requests: %v", err)
	}
	if remaining != 0 {
		t.Fatal("approved request was not consumed")
	}

	var grant models.ListAccess
	if err := db.Where("list_id = ? AND user_id = ?", list.ID, requester.ID).First(&grant).Error; err != nil {
		t.Fatalf("grant missing: %v", err)
	}
	if grant.Status != models.ListAccessStatusAccepted || grant.Role != models.ListRoleCollaborator {
		t.Fatalf("unexpected grant: %+v", grant)
	}

	var notif models.Notification
	if err := db.Where("user_id = ? AND type = ?", requester.ID, models.NotificationAccessGranted).First(&notif).Error; err != nil {
		t.Fatalf("grant notification missing: %v", err)
	}
}

func TestDeleteListReassignsPostsToGeneral(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	owner := createTestUser(t, db, "reassign")

	resp := doJSON(t, app, http.MethodPost, "/api/lists", bearerFor(t, owner.ID), map[string]string{"name": "Doomed"})
	var list models.List
	decodeBody(t, resp, &list)

	post := &models.Post{Title: "survivor", UserID: owner.ID, ListID: list.ID, Privacy: models.PrivacyPublic}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/lists/%d", list.ID), bearerFor(t, owner.ID), nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete list: expected 204, got %d", resp.StatusCode)
	}

	var survivor models.Post
	if err := db.First(&survivor, post.ID).Error; err != nil {
		t.Fatalf("post vanished with its list: %v", err)
	}
	if survivor.ListID != models.GeneralListID {
		t.Fatalf("expected post moved to General, got list %d", survivor.ListID)
	}
}

func TestGeneralListIsImmutable(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	user := createTestUser(t, db, "generaluser")

	resp := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/lists/%d", models.GeneralListID),
		bearerFor(t, user.ID), map[string]string{"name": "Mine Now"})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("update General: expected 403, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/lists/%d", models.GeneralListID),
		bearerFor(t, user.ID), nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("delete General: expected 403, got %d", resp.StatusCode)
	}
}

func TestRevokeListAccess(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestApp(t, nil)
	owner := createTestUser(t, db, "revoker")
	member := createTestUser(t, db, "revokee")

	resp := doJSON(t, app, http.MethodPost, "/api/lists", bearerFor(t, owner.ID), map[string]string{"name": "Temp"})
	var list models.List
	decodeBody(t, resp, &list)

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/lists/%d/invites", list.ID),
		bearerFor(t, owner.ID), map[string]interface{}{"user_id": member.ID, "role": "collaborator"})
	var access models.ListAccess
	decodeBody(t, resp, &access)
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/invites/%d/accept", access.ID), bearerFor(t, member.ID), nil)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/lists/%d/members/%d", list.ID, member.ID),
		bearerFor(t, owner.ID), nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("revoke: expected 204, got %d", resp.StatusCode)
	}

	var count int64
	if err := db.Model(&models.ListAccess{}).
		Where("list_id = ? AND user_id = ?", list.ID, member.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count grants: %v", err)
	}
	if count != 0 {
		t.Fatal("grant still present after revoke")
	}
}
