package api

import (
	"net/http"
	"strings"
	"testing"

	"desadarit/internal/database"
)

func newProfileHandlerForTest(t *testing.T) *ProfileHandler {
	t.Helper()
	db := newTestDB(t)
	store := newTestStore(t)
	uploads := NewUploadHandler(store, nil, "/uploads", 5*1024*1024, "")
	return NewProfileHandler(db, store, uploads)
}

func TestProfileGet_DefaultsWhenEmpty(t *testing.T) {
	h := newProfileHandlerForTest(t)

	c, w := newTestContext(t, http.MethodGet, "/api/profile", nil)
	h.Get(c)
	wantStatus(t, w, http.StatusOK)

	var resp struct {
		Data database.VillageProfile `json:"data"`
	}
	decodeBody(t, w, &resp)

	if !strings.Contains(resp.Data.Description, "Desa Darit") {
		t.Errorf("description = %q", resp.Data.Description)
	}
	if resp.Data.Population != 1234 || resp.Data.Families != 456 {
		t.Errorf("population/families = %d/%d", resp.Data.Population, resp.Data.Families)
	}
}

func TestProfileUpdate_UpsertIsIdempotent(t *testing.T) {
	h := newProfileHandlerForTest(t)

	payload := map[string]any{
		"description": "Deskripsi pertama",
		"vision":      "Visi",
		"population":  1500,
	}
	c, w := newTestContext(t, http.MethodPut, "/api/profile", payload)
	h.Update(c)
	wantStatus(t, w, http.StatusOK)

	payload["description"] = "Deskripsi kedua"
	c, w = newTestContext(t, http.MethodPut, "/api/profile", payload)
	h.Update(c)
	wantStatus(t, w, http.StatusOK)

	var count int64
	if err := h.db.Model(&database.VillageProfile{}).Count(&count).Error; err != nil {
		t.Fatalf("count profiles: %v", err)
	}
	if count != 1 {
		t.Fatalf("profile rows = %d, want 1", count)
	}

	var row database.VillageProfile
	if err := h.db.First(&row).Error; err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if row.Description != "Deskripsi kedua" {
		t.Errorf("description = %q, want second write", row.Description)
	}
	if row.Population != 1500 {
		t.Errorf("population = %d, want 1500", row.Population)
	}
}

func TestProfileUpload_ReplacesSlotAndDeletesOldFile(t *testing.T) {
	h := newProfileHandlerForTest(t)

	upload := func() string {
		body, contentType := newMultipartImage(t, "peta.png", pngBytes, map[string]string{"type": "map_image"})
		c, w := newMultipartContext(t, "/api/profile/upload", body, contentType)
		h.Upload(c)
		wantStatus(t, w, http.StatusOK)

		var resp struct {
			Filename string `json:"filename"`
		}
		decodeBody(t, w, &resp)
		return resp.Filename
	}

	first := upload()
	if !h.store.Exists(first) {
		t.Fatal("first upload not stored")
	}

	second := upload()
	if h.store.Exists(first) {
		t.Error("old slot file not deleted")
	}
	if !h.store.Exists(second) {
		t.Error("second upload not stored")
	}

	var row database.VillageProfile
	if err := h.db.First(&row).Error; err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if row.MapImage == nil || *row.MapImage != second {
		t.Errorf("map_image = %v, want %q", row.MapImage, second)
	}
}

func TestProfileUpload_RejectsUnknownSlot(t *testing.T) {
	h := newProfileHandlerForTest(t)

	body, contentType := newMultipartImage(t, "foto.png", pngBytes, map[string]string{"type": "logo_image"})
	c, w := newMultipartContext(t, "/api/profile/upload", body, contentType)
	h.Upload(c)

	wantStatus(t, w, http.StatusBadRequest)
	if !strings.Contains(w.Body.String(), "Invalid image type") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestContactSettings_DefaultsAndUpsert(t *testing.T) {
	db := newTestDB(t)
	h := NewContactHandler(db)

	c, w := newTestContext(t, http.MethodGet, "/api/contact-settings", nil)
	h.Get(c)
	wantStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "Desa Darit, Kec. Menyuke") {
		t.Errorf("default body = %s", w.Body.String())
	}

	for _, email := range []string{"kantor@desadarit.id", "info@desadarit.id"} {
		c, w = newTestContext(t, http.MethodPut, "/api/contact-settings", map[string]any{
			"address": "Jalan Raya Darit No. 1",
			"email":   email,
		})
		h.Update(c)
		wantStatus(t, w, http.StatusOK)
	}

	var count int64
	if err := db.Model(&database.ContactSettings{}).Count(&count).Error; err != nil {
		t.Fatalf("count settings: %v", err)
	}
	if count != 1 {
		t.Fatalf("settings rows = %d, want 1", count)
	}

	var row database.ContactSettings
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if row.Email != "info@desadarit.id" {
		t.Errorf("email = %q, want last write", row.Email)
	}
}

func TestInfographics_DefaultsAndUpsert(t *testing.T) {
	db := newTestDB(t)
	h := NewInfographicsHandler(db)

	c, w := newTestContext(t, http.MethodGet, "/api/infographics", nil)
	h.Get(c)
	wantStatus(t, w, http.StatusOK)

	var defaults struct {
		Data database.Infographics `json:"data"`
	}
	decodeBody(t, w, &defaults)
	if defaults.Data.TotalPopulation != 1234 {
		t.Errorf("default total_population = %d", defaults.Data.TotalPopulation)
	}
	if !strings.Contains(string(defaults.Data.AgeGroups), "0-14") {
		t.Errorf("default age_groups = %s", defaults.Data.AgeGroups)
	}

	payload := map[string]any{
		"total_population": 2000,
		"total_families":   500,
		"age_groups":       map[string]int{"0-14": 400, "15-34": 700, "35-54": 600, "55+": 300},
	}
	for i := 0; i < 2; i++ {
		c, w = newTestContext(t, http.MethodPut, "/api/infographics", payload)
		h.Update(c)
		wantStatus(t, w, http.StatusOK)
	}

	var count int64
	if err := db.Model(&database.Infographics{}).Count(&count).Error; err != nil {
		t.Fatalf("count infographics: %v", err)
	}
	if count != 1 {
		t.Fatalf("infographics rows = %d, want 1", count)
	}

	var row database.Infographics
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("load infographics: %v", err)
	}
	if row.TotalPopulation != 2000 {
		t.Errorf("total_population = %d, want 2000", row.TotalPopulation)
	}
	if !strings.Contains(string(row.AgeGroups), "400") {
		t.Errorf("age_groups = %s", row.AgeGroups)
	}
}
