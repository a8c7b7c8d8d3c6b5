package api

import (
	"net/http"
	"testing"
	"time"

	"desadarit/internal/auth"
	"desadarit/internal/database"
)

func newAuthHandlerForTest(t *testing.T) (*AuthHandler, *auth.Service) {
	t.Helper()
	db := newTestDB(t)
	svc, err := auth.NewService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}

	hash, err := auth.HashPassword("rahasia123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := database.User{Username: "budi", Password: hash, Name: "Budi", Role: "admin"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	return NewAuthHandler(db, svc), svc
}

func TestLogin_Success(t *testing.T) {
	h, svc := newAuthHandlerForTest(t)

	c, w := newTestContext(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": "budi",
		"password": "rahasia123",
	})
	h.Login(c)
	wantStatus(t, w, http.StatusOK)

	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			ID       uint   `json:"id"`
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	decodeBody(t, w, &resp)

	if resp.Message != "Login successful" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.User.Username != "budi" || resp.User.Role != "admin" {
		t.Errorf("user = %+v", resp.User)
	}

	claims, err := svc.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Errorf("claims user id = %d, want %d", claims.UserID, resp.User.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	h, _ := newAuthHandlerForTest(t)

	c, w := newTestContext(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": "budi",
		"password": "salah",
	})
	h.Login(c)
	wantStatus(t, w, http.StatusUnauthorized)
}

func TestLogin_UnknownUser(t *testing.T) {
	h, _ := newAuthHandlerForTest(t)

	c, w := newTestContext(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": "tidakada",
		"password": "apapun",
	})
	h.Login(c)
	wantStatus(t, w, http.StatusUnauthorized)
}

func TestLogin_MissingFields(t *testing.T) {
	h, _ := newAuthHandlerForTest(t)

	c, w := newTestContext(t, http.MethodPost, "/api/auth/login", map[string]any{"username": "budi"})
	h.Login(c)
	wantStatus(t, w, http.StatusBadRequest)
}
