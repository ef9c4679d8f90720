package groups

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/eli-bans/studyhub/pkg/studyhub/models"
)

func TestRequestMembership(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestUser(t, db, "admin@example.edu", "+233200000001")
	applicant := createTestUser(t, db, "applicant@example.edu", "+233200000002")

	group := createTestGroup(t, db, admin, "Open Group", models.MajorCS)

	resp := doJSON(router, "POST", "/groups/1/requests", getAuthHeader(applicant), nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var request models.MembershipRequest
	if err := db.Where("group_id = ? AND user_id = ?", group.ID, applicant.ID).First(&request).Error; err != nil {
		t.Fatalf("Expected request row: %v", err)
	}

	// Admins hear about it
	var count int64
	db.Model(&models.Notification{}).Where("user_id = ?", admin.ID).Count(&count)
	if count == 0 {
		t.Error("Expected admin notification about the request")
	}

	// A second request for the same group conflicts
	resp = doJSON(router, "POST", "/groups/1/requests", getAuthHeader(applicant), nil)
	if resp.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for duplicate request, got %d", resp.Code)
	}

	// Members cannot request their own group
	resp = doJSON(router, "POST", "/groups/1/requests", getAuthHeader(admin), nil)
	if resp.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for existing member, got %d", resp.Code)
	}

	resp = doJSON(router, "POST", "/groups/99/requests", getAuthHeader(applicant), nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown group, got %d", resp.Code)
	}
}

func TestListAndCancelOwnRequests(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestUser(t, db, "admin@example.edu", "+233200000001")
	applicant := createTestUser(t, db, "applicant@example.edu", "+233200000002")
	other := createTestUser(t, db, "other@example.edu", "+233200000003")

	group := createTestGroup(t, db, admin, "Open Group", models.MajorCS)
	db.Create(&models.MembershipRequest{GroupID: group.ID, UserID: applicant.ID})

	resp := doJSON(router, "GET", "/groups/requests", getAuthHeader(applicant), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var requests []RequestResponse
	json.Unmarshal(resp.Body.Bytes(), &requests)
	if len(requests) != 1 || requests[0].GroupName != "Open Group" {
		t.Fatalf("Expected 1 request for Open Group, got %+v", requests)
	}

	// Only the requester may cancel
	resp = doJSON(router, "DELETE", "/groups/requests/1", getAuthHeader(other), nil)
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for foreign request, got %d", resp.Code)
	}

	resp = doJSON(router, "DELETE", "/groups/requests/1", getAuthHeader(applicant), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.MembershipRequest{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected request removed, found %d rows", count)
	}
}

func TestListGroupRequestsAdminOnly(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestUser(t, db, "admin@example.edu", "+233200000001")
	member := createTestUser(t, db, "member@example.edu", "+233200000002")
	applicant := createTestUser(t, db, "applicant@example.edu", "+233200000003")

	group := createTestGroup(t, db, admin, "Open Group", models.MajorCS)
	addTestMember(t, db, group, member, false)
	db.Create(&models.MembershipRequest{GroupID: group.ID, UserID: applicant.ID})

	resp := doJSON(router, "GET", "/groups/1/requests", getAuthHeader(member), nil)
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for non-admin, got %d", resp.Code)
	}

	resp = doJSON(router, "GET", "/groups/1/requests", getAuthHeader(admin), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var requests []RequestResponse
	json.Unmarshal(resp.Body.Bytes(), &requests)
	if len(requests) != 1 || requests[0].UserID != applicant.ID {
		t.Fatalf("Expected applicant's request, got %+v", requests)
	}
}

func TestAcceptRequestCreatesMembership(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestUser(t, db, "admin@example.edu", "+233200000001")
	member := createTestUser(t, db, "member@example.edu", "+233200000002")
	applicant := createTestUser(t, db, "applicant@example.edu", "+233200000003")

	group := createTestGroup(t, db, admin, "Open Group", models.MajorCS)
	addTestMember(t, db, group, member, false)
	db.Create(&models.MembershipRequest{GroupID: group.ID, UserID: applicant.ID})

	resp := doJSON(router, "POST", "/groups/requests/1/accept", getAuthHeader(member), nil)
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for non-admin, got %d", resp.Code)
	}

	resp = doJSON(router, "POST", "/groups/requests/1/accept", getAuthHeader(admin), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var membership models.GroupMember
	if err := db.Where("group_id = ? AND member_id = ?", group.ID, applicant.ID).First(&membership).Error; err != nil {
		t.Fatalf("Expected membership after accept: %v", err)
	}
	if membership.IsAdmin {
		t.Error("Expected accepted member to join as non-admin")
	}

	var count int64
	db.Model(&models.MembershipRequest{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected request consumed, found %d rows", count)
	}

	// The requester is told
	db.Model(&models.Notification{}).Where("user_id = ?", applicant.ID).Count(&count)
	if count == 0 {
		t.Error("Expected acceptance notification for the requester")
	}

	// Requests are terminal: a second accept finds nothing
	resp = doJSON(router, "POST", "/groups/requests/1/accept", getAuthHeader(admin), nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for consumed request, got %d", resp.Code)
	}
}

func TestRejectRequestIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestUser(t, db, "admin@example.edu", "+233200000001")
	applicant := createTestUser(t, db, "applicant@example.edu", "+233200000002")

	group := createTestGroup(t, db, admin, "Open Group", models.MajorCS)
	db.Create(&models.MembershipRequest{GroupID: group.ID, UserID: applicant.ID})

	resp := doJSON(router, "POST", "/groups/requests/1/reject", getAuthHeader(admin), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.MembershipRequest{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected request removed, found %d rows", count)
	}
	db.Model(&models.GroupMember{}).Where("member_id = ?", applicant.ID).Count(&count)
	if count != 0 {
		t.Error("Expected no membership after reject")
	}

	resp = doJSON(router, "POST", "/groups/requests/1/reject", getAuthHeader(admin), nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for consumed request, got %d", resp.Code)
	}

	// The user may request again after a rejection
	resp = doJSON(router, "POST", "/groups/1/requests", getAuthHeader(applicant), nil)
	if resp.Code != http.StatusCreated {
		t.Errorf("Expected status 201 for a fresh request, got %d: %s", resp.Code, resp.Body.String())
	}
}
