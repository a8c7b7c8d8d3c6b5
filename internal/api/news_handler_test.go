package api

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"desadarit/internal/database"
)

func TestNewsCreateGetDelete(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	h := NewNewsHandler(db, store)

	c, w := newTestContext(t, http.MethodPost, "/api/news", map[string]any{
		"title":   "Pembangunan Jalan Desa",
		"content": "<p>Jalan baru selesai dibangun.</p>",
		"excerpt": "Jalan baru",
	})
	asAdmin(c)
	h.Create(c)
	wantStatus(t, w, http.StatusCreated)

	var created struct {
		Message string `json:"message"`
		ID      uint   `json:"id"`
	}
	decodeBody(t, w, &created)
	if created.Message != "News created successfully" || created.ID == 0 {
		t.Fatalf("create response = %+v", created)
	}

	c, w = newTestContext(t, http.MethodGet, "/api/news/1", nil)
	setParam(c, "id", created.ID)
	h.Get(c)
	wantStatus(t, w, http.StatusOK)

	var got struct {
		Data database.News `json:"data"`
	}
	decodeBody(t, w, &got)
	if got.Data.Status != "published" {
		t.Errorf("status = %q, want published (default)", got.Data.Status)
	}
	if got.Data.AuthorID != 1 {
		t.Errorf("author_id = %d, want 1", got.Data.AuthorID)
	}

	c, w = newTestContext(t, http.MethodDelete, "/api/news/1", nil)
	setParam(c, "id", created.ID)
	h.Delete(c)
	wantStatus(t, w, http.StatusOK)

	c, w = newTestContext(t, http.MethodGet, "/api/news/1", nil)
	setParam(c, "id", created.ID)
	h.Get(c)
	wantStatus(t, w, http.StatusNotFound)
}

func TestNewsCreate_RequiresTitleAndContent(t *testing.T) {
	h := NewNewsHandler(newTestDB(t), newTestStore(t))

	c, w := newTestContext(t, http.MethodPost, "/api/news", map[string]any{"title": "Tanpa isi"})
	asAdmin(c)
	h.Create(c)

	wantStatus(t, w, http.StatusBadRequest)
	if !strings.Contains(w.Body.String(), "Title and content are required") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestNewsUpdate_KeepsStatusWhenOmitted(t *testing.T) {
	db := newTestDB(t)
	h := NewNewsHandler(db, newTestStore(t))

	row := database.News{Title: "Draf", Content: "isi", Status: "draft", AuthorID: 1}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed news: %v", err)
	}

	c, w := newTestContext(t, http.MethodPut, "/api/news/1", map[string]any{
		"title":   "Draf direvisi",
		"content": "isi baru",
	})
	setParam(c, "id", row.ID)
	h.Update(c)
	wantStatus(t, w, http.StatusOK)

	var updated database.News
	if err := db.First(&updated, row.ID).Error; err != nil {
		t.Fatalf("reload news: %v", err)
	}
	if updated.Title != "Draf direvisi" {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.Status != "draft" {
		t.Errorf("status = %q, want draft preserved", updated.Status)
	}
}

func TestNewsDelete_RemovesImageFile(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	h := NewNewsHandler(db, store)

	filename := store.GenerateFilename("foto.png")
	if err := store.Save(filename, bytes.NewReader(pngBytes)); err != nil {
		t.Fatalf("save image: %v", err)
	}

	row := database.News{Title: "Dengan foto", Content: "isi", Status: "published", AuthorID: 1, Image: &filename}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed news: %v", err)
	}

	c, w := newTestContext(t, http.MethodDelete, "/api/news/1", nil)
	setParam(c, "id", row.ID)
	h.Delete(c)
	wantStatus(t, w, http.StatusOK)

	if store.Exists(filename) {
		t.Error("image file still present after delete")
	}
}

func TestNewsList_SearchAndPagination(t *testing.T) {
	db := newTestDB(t)
	h := NewNewsHandler(db, newTestStore(t))

	for _, title := range []string{"Gotong royong", "Panen raya", "Gotong royong kedua"} {
		row := database.News{Title: title, Content: "isi", Status: "published", AuthorID: 1}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("seed news: %v", err)
		}
	}

	c, w := newTestContext(t, http.MethodGet, "/api/news?search=Gotong&limit=1&page=2", nil)
	h.List(c)
	wantStatus(t, w, http.StatusOK)

	var resp struct {
		Data       []database.News `json:"data"`
		Pagination Pagination      `json:"pagination"`
	}
	decodeBody(t, w, &resp)

	if len(resp.Data) != 1 {
		t.Fatalf("len(data) = %d, want 1", len(resp.Data))
	}
	if resp.Pagination.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Pagination.Total)
	}
	if resp.Pagination.TotalPages != 2 {
		t.Errorf("totalPages = %d, want 2", resp.Pagination.TotalPages)
	}
	if resp.Pagination.Page != 2 || resp.Pagination.Limit != 1 {
		t.Errorf("pagination = %+v", resp.Pagination)
	}
}

func TestNewsGet_InvalidID(t *testing.T) {
	h := NewNewsHandler(newTestDB(t), newTestStore(t))

	c, w := newTestContext(t, http.MethodGet, "/api/news/abc", nil)
	setParam(c, "id", "abc")
	h.Get(c)

	wantStatus(t, w, http.StatusBadRequest)
}
