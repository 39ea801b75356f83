package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchProductEmbeddingsOptions_Validate(t *testing.T) {
	category := "Electronics"
	empty := ""

	tests := []struct {
		name    string
		opts    *SearchProductEmbeddingsOptions
		wantErr bool
		errMsg  string
	}{
		{"valid defaults", &SearchProductEmbeddingsOptions{Vector: []float32{0.1}}, false, ""},
		{"empty Vector", &SearchProductEmbeddingsOptions{Vector: []float32{}}, true, "vector cannot be empty"},
		{"nil Vector", &SearchProductEmbeddingsOptions{Vector: nil}, true, "vector cannot be empty"},
		{"Limit negative", &SearchProductEmbeddingsOptions{Vector: []float32{0.1}, Limit: -1}, true, "limit cannot be negative"},
		{"Limit > 100", &SearchProductEmbeddingsOptions{Vector: []float32{0.1}, Limit: 101}, true, "limit too large"},
		{"Limit == 100", &SearchProductEmbeddingsOptions{Vector: []float32{0.1}, Limit: 100}, false, ""},
		{"category filter", &SearchProductEmbeddingsOptions{Vector: []float32{0.1}, Category: &category}, false, ""},
		{"empty category filter", &SearchProductEmbeddingsOptions{Vector: []float32{0.1}, Category: &empty}, true, "category filter cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), tt.errMsg),
					"expected error to contain %q, got %q", tt.errMsg, err.Error())
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSearchProductEmbeddingsOptions_Validate_SetsDefaultLimit(t *testing.T) {
	opts := &SearchProductEmbeddingsOptions{Vector: []float32{0.1}, Limit: 0}

	err := opts.Validate()

	require.NoError(t, err)
	assert.Equal(t, 4, opts.Limit, "Limit should be set to default value 4")
}
