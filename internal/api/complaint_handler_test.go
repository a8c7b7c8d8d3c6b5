package api

import (
	"net/http"
	"strings"
	"testing"

	"desadarit/internal/database"
)

func TestComplaintCreate_PublicSubmission(t *testing.T) {
	db := newTestDB(t)
	h := NewComplaintHandler(db)

	c, w := newTestContext(t, http.MethodPost, "/api/complaints", map[string]any{
		"name":        "Siti",
		"phone":       "081234567890",
		"category":    "infrastruktur",
		"description": "Lampu jalan mati di RT 03",
	})
	h.Create(c)
	wantStatus(t, w, http.StatusCreated)

	var row database.Complaint
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("load complaint: %v", err)
	}
	if row.Status != "pending" {
		t.Errorf("status = %q, want pending", row.Status)
	}
}

func TestComplaintCreate_RequiresAllFields(t *testing.T) {
	h := NewComplaintHandler(newTestDB(t))

	c, w := newTestContext(t, http.MethodPost, "/api/complaints", map[string]any{
		"name":  "Siti",
		"phone": "081234567890",
	})
	h.Create(c)

	wantStatus(t, w, http.StatusBadRequest)
	if !strings.Contains(w.Body.String(), "required") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestComplaintUpdate_Triage(t *testing.T) {
	db := newTestDB(t)
	h := NewComplaintHandler(db)

	row := database.Complaint{
		Name: "Siti", Phone: "0812", Category: "infrastruktur",
		Description: "Lampu mati", Status: "pending",
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed complaint: %v", err)
	}

	response := "Sudah dijadwalkan perbaikan"
	c, w := newTestContext(t, http.MethodPut, "/api/complaints/1", map[string]any{
		"status":         "in_progress",
		"admin_response": response,
	})
	setParam(c, "id", row.ID)
	h.Update(c)
	wantStatus(t, w, http.StatusOK)

	var updated database.Complaint
	if err := db.First(&updated, row.ID).Error; err != nil {
		t.Fatalf("reload complaint: %v", err)
	}
	if updated.Status != "in_progress" {
		t.Errorf("status = %q", updated.Status)
	}
	if updated.AdminResponse == nil || *updated.AdminResponse != response {
		t.Errorf("admin_response = %v", updated.AdminResponse)
	}
	if updated.Name != "Siti" {
		t.Errorf("citizen fields must be immutable, name = %q", updated.Name)
	}
}

func TestComplaintUpdate_RejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	h := NewComplaintHandler(db)

	row := database.Complaint{Name: "Siti", Phone: "0812", Category: "x", Description: "y", Status: "pending"}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed complaint: %v", err)
	}

	c, w := newTestContext(t, http.MethodPut, "/api/complaints/1", map[string]any{"status": "archived"})
	setParam(c, "id", row.ID)
	h.Update(c)

	wantStatus(t, w, http.StatusBadRequest)
}

func TestComplaintList_Filters(t *testing.T) {
	db := newTestDB(t)
	h := NewComplaintHandler(db)

	seed := []database.Complaint{
		{Name: "A", Phone: "1", Category: "infrastruktur", Description: "jalan rusak", Status: "pending"},
		{Name: "B", Phone: "2", Category: "infrastruktur", Description: "jembatan rusak", Status: "resolved"},
		{Name: "C", Phone: "3", Category: "pelayanan", Description: "antre lama", Status: "pending"},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed complaint: %v", err)
		}
	}

	c, w := newTestContext(t, http.MethodGet, "/api/complaints?status=pending&category=infrastruktur", nil)
	h.List(c)
	wantStatus(t, w, http.StatusOK)

	var resp struct {
		Data       []database.Complaint `json:"data"`
		Pagination Pagination           `json:"pagination"`
	}
	decodeBody(t, w, &resp)

	if len(resp.Data) != 1 || resp.Data[0].Name != "A" {
		t.Fatalf("filtered data = %+v", resp.Data)
	}
	if resp.Pagination.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Pagination.Total)
	}
}
