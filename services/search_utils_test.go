package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandSearchQuery(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{query: "heat", want: []string{"heat"}},
		{query: "fast & furious", want: []string{"fast & furious", "fast and furious"}},
		{query: "Fast AND  Furious", want: []string{"Fast AND Furious", "Fast & Furious"}},
		{query: "  sandy  ", want: []string{"sandy"}},
		{query: "rock&roll", want: []string{"rock&roll", "rockandroll"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandSearchQuery(tt.query))
		})
	}
}
