package recommend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"":              ContentBased,
		"content":       ContentBased,
		"Content-Based": ContentBased,
		"collaborative": Collaborative,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMode("hybrid")
	assert.Error(t, err)
}

func TestRecommend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/recommendations/collaborative", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []int64{1, 2}, body.MovieIDs)

		w.Write([]byte(`{"recommendations": [5, 8, 13]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/api/", srv.Client())
	ids, err := client.Recommend(context.Background(), Collaborative, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 8, 13}, ids)
}

func TestRecommendErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusNotFound, `{"error": "none", "recommendations": []}`, ErrNoRecommendations},
		{"not found from proxy", http.StatusNotFound, `<html><body>404 Not Found</body></html>`, ErrNoRecommendations},
		{"empty list", http.StatusOK, `{"recommendations": []}`, ErrNoRecommendations},
		{"server error", http.StatusInternalServerError, `{"error": "boom", "recommendations": []}`, nil},
		{"bad request", http.StatusBadRequest, `{"error": "ids required", "recommendations": []}`, nil},
		{"garbage", http.StatusOK, `<html>`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, srv.Client()).Recommend(context.Background(), ContentBased, []int64{1})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NotErrorIs(t, err, ErrNoRecommendations)
			}
		})
	}
}
