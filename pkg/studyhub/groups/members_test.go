package groups

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/eli-bans/studyhub/pkg/studyhub/models"
)

func TestListMembersMembersOnly(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	creator := createTestUser(t, db, "creator@example.edu", "+233200000001")
	member := createTestUser(t, db, "member@example.edu", "+233200000002")
	outsider := createTestUser(t, db, "outsider@example.edu", "+233200000003")

	group := createTestGroup(t, db, creator, "Closed Group", models.MajorCS)
	addTestMember(t, db, group, member, false)

	resp := doJSON(router, "GET", "/groups/1/members", getAuthHeader(outsider), nil)
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for outsider, got %d", resp.Code)
	}

	resp = doJSON(router, "GET", "/groups/1/members", getAuthHeader(member), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var members []MemberResponse
	json.Unmarshal(resp.Body.Bytes(), &members)
	if len(members) != 2 {
		t.Fatalf("Expected 2 members, got %d", len(members))
	}
	if !members[0].IsAdmin || members[0].UserID != creator.ID {
		t.Errorf("Expected creator listed first as admin, got %+v", members[0])
	}
}

func TestMakeAdminCreatorOnly(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	creator := createTestUser(t, db, "creator@example.edu", "+233200000001")
	admin := createTestUser(t, db, "admin@example.edu", "+233200000002")
	member := createTestUser(t, db, "member@example.edu", "+233200000003")

	group := createTestGroup(t, db, creator, "Ranked", models.MajorCS)
	addTestMember(t, db, group, admin, true)
	target := addTestMember(t, db, group, member, false)

	// Even another admin cannot promote; only the creator can
	resp := doJSON(router, "POST", "/groups/members/3/admin", getAuthHeader(admin), nil)
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for non-creator, got %d", resp.Code)
	}
	var unchanged models.GroupMember
	db.First(&unchanged, target.ID)
	if unchanged.IsAdmin {
		t.Error("Expected member to stay non-admin after rejected promotion")
	}

	resp = doJSON(router, "POST", "/groups/members/3/admin", getAuthHeader(creator), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var promoted models.GroupMember
	db.First(&promoted, target.ID)
	if !promoted.IsAdmin {
		t.Error("Expected member to be admin after promotion")
	}

	// The promoted member is told
	var count int64
	db.Model(&models.Notification{}).Where("user_id = ?", member.ID).Count(&count)
	if count == 0 {
		t.Error("Expected promotion notification")
	}
}

func TestRemoveAdminGuardsLastAdmin(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	creator := createTestUser(t, db, "creator@example.edu", "+233200000001")
	admin := createTestUser(t, db, "admin@example.edu", "+233200000002")

	group := createTestGroup(t, db, creator, "Ranked", models.MajorCS)
	addTestMember(t, db, group, admin, true)

	// Creator's membership is row 1; demoting it leaves one admin
	resp := doJSON(router, "DELETE", "/groups/members/1/admin", getAuthHeader(creator), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// Row 2 is now the last admin and cannot be demoted
	resp = doJSON(router, "DELETE", "/groups/members/2/admin", getAuthHeader(creator), nil)
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for last admin, got %d", resp.Code)
	}

	var last models.GroupMember
	db.First(&last, 2)
	if !last.IsAdmin {
		t.Error("Expected last admin to keep the flag")
	}
}

func TestRemoveMemberGuardsLastAdmin(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	creator := createTestUser(t, db, "creator@example.edu", "+233200000001")
	member := createTestUser(t, db, "member@example.edu", "+233200000002")

	group := createTestGroup(t, db, creator, "Ranked", models.MajorCS)
	addTestMember(t, db, group, member, false)

	// The creator membership is the sole admin
	resp := doJSON(router, "DELETE", "/groups/members/1", getAuthHeader(creator), nil)
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 removing the last admin, got %d", resp.Code)
	}

	resp = doJSON(router, "DELETE", "/groups/members/2", getAuthHeader(creator), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.GroupMember{}).Where("group_id = ?", group.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 remaining member, got %d", count)
	}

	// The removed member is told
	db.Model(&models.Notification{}).Where("user_id = ?", member.ID).Count(&count)
	if count == 0 {
		t.Error("Expected removal notification")
	}

	resp = doJSON(router, "DELETE", "/groups/members/99", getAuthHeader(creator), nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown member, got %d", resp.Code)
	}
}
