package api

import (
	"net/http"
	"testing"
)

func TestPageParams(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 1, 10, 0},
		{"explicit", "?page=3&limit=20", 3, 20, 40},
		{"clamped", "?limit=5000", 1, 100, 0},
		{"negative page", "?page=-2", 1, 10, 0},
		{"zero limit", "?limit=0", 1, 10, 0},
		{"garbage", "?page=abc&limit=xyz", 1, 10, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(t, http.MethodGet, "/api/news"+tc.query, nil)
			page, limit, offset := pageParams(c, 10)
			if page != tc.wantPage || limit != tc.wantLimit || offset != tc.wantOffset {
				t.Errorf("pageParams = (%d, %d, %d), want (%d, %d, %d)",
					page, limit, offset, tc.wantPage, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	cases := []struct {
		total     int64
		limit     int
		wantPages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 12, 9},
	}

	for _, tc := range cases {
		p := newPagination(1, tc.limit, tc.total)
		if p.TotalPages != tc.wantPages {
			t.Errorf("total=%d limit=%d: totalPages = %d, want %d",
				tc.total, tc.limit, p.TotalPages, tc.wantPages)
		}
	}
}
