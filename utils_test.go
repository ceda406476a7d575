package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	cases := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"", 1, 20},
		{"?page=3&page_size=50", 3, 50},
		{"?page=0&page_size=0", 1, 20},
		{"?page=-1&page_size=101", 1, 20},
		{"?page=abc&page_size=xyz", 1, 20},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/api/teams"+c.query, nil)
		page, size := parsePage(r)
		assert.Equal(t, c.page, page, c.query)
		assert.Equal(t, c.pageSize, size, c.query)
	}
}

func TestWriteJSON_ContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusTeapot, map[string]any{"ok": false})

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
