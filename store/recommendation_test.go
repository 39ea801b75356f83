package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateRecommendationItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		get     *GetOrCreateRecommendationItem
		wantErr bool
	}{
		{"valid", &GetOrCreateRecommendationItem{Score: 0.25, Metric: MetricCosineDistance}, false},
		{"zero score is valid", &GetOrCreateRecommendationItem{Score: 0}, false},
		{"negative score", &GetOrCreateRecommendationItem{Score: -0.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.get.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetOrCreateRecommendationItem_Validate_DefaultsMetric(t *testing.T) {
	get := &GetOrCreateRecommendationItem{Score: 0.42}

	require.NoError(t, get.Validate())
	assert.Equal(t, MetricCosineDistance, get.Metric)
}

func TestPaymentMethod_IsValid(t *testing.T) {
	assert.True(t, PaymentCash.IsValid())
	assert.True(t, PaymentTransfer.IsValid())
	assert.False(t, PaymentMethod("check").IsValid())
	assert.False(t, PaymentMethod("").IsValid())
}
