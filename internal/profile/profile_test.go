package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEmbeddingEnvVars() {
	os.Unsetenv("SHOPREC_AI_EMBEDDING_API_KEY")
	os.Unsetenv("SHOPREC_AI_EMBEDDING_BASE_URL")
	os.Unsetenv("SHOPREC_AI_EMBEDDING_MODEL")
	os.Unsetenv("SHOPREC_AI_EMBEDDING_DIMENSIONS")
}

func TestFromEnvDefaults(t *testing.T) {
	clearEmbeddingEnvVars()

	p := &Profile{}
	p.FromEnv()

	assert.False(t, p.IsEmbeddingEnabled(), "embedding should be disabled without an API key")
	assert.Equal(t, "https://api.siliconflow.cn/v1", p.EmbeddingBaseURL)
	assert.Equal(t, "BAAI/bge-m3", p.EmbeddingModel)
	assert.Equal(t, 1024, p.EmbeddingDimensions)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEmbeddingEnvVars()
	t.Setenv("SHOPREC_AI_EMBEDDING_API_KEY", "test-key")
	t.Setenv("SHOPREC_AI_EMBEDDING_MODEL", "text-embedding-3-small")
	t.Setenv("SHOPREC_AI_EMBEDDING_DIMENSIONS", "1536")

	p := &Profile{}
	p.FromEnv()

	assert.True(t, p.IsEmbeddingEnabled())
	assert.Equal(t, "text-embedding-3-small", p.EmbeddingModel)
	assert.Equal(t, 1536, p.EmbeddingDimensions)
}

func TestValidate(t *testing.T) {
	dataDir := t.TempDir()

	tests := []struct {
		name    string
		profile *Profile
		wantErr bool
	}{
		{"sqlite with data dir", &Profile{Mode: "dev", Driver: "sqlite", Data: dataDir}, false},
		{"postgres with dsn", &Profile{Mode: "dev", Driver: "postgres", DSN: "postgres://localhost/shoprec", Data: dataDir}, false},
		{"postgres without dsn", &Profile{Mode: "dev", Driver: "postgres", Data: dataDir}, true},
		{"unsupported driver", &Profile{Mode: "dev", Driver: "mysql", Data: dataDir}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateDefaultsSQLiteDSN(t *testing.T) {
	dataDir := t.TempDir()
	p := &Profile{Mode: "dev", Driver: "sqlite", Data: dataDir}

	require.NoError(t, p.Validate())
	assert.Equal(t, filepath.Join(dataDir, "shoprec_dev.db"), p.DSN)
}

func TestValidateNormalizesUnknownMode(t *testing.T) {
	dataDir := t.TempDir()
	p := &Profile{Mode: "staging", Driver: "sqlite", Data: dataDir}

	require.NoError(t, p.Validate())
	assert.Equal(t, "demo", p.Mode)
	assert.True(t, p.IsDev())
}
