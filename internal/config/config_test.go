package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FIRESTORE_PROJECT_ID", "places-test")
	t.Setenv("GOOGLE_MAPS_API_KEY", "key")
	t.Setenv("PORT", "")
	t.Setenv("UPLOAD_DIR", "")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, "uploads/images", cfg.UploadDir)
	assert.Equal(t, "*", cfg.CORSAllowOrigin)
	assert.Equal(t, "places-test", cfg.FirestoreProjectID)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("FIRESTORE_PROJECT_ID", "")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")

	_, err := Load("testdata/does-not-exist.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIRESTORE_PROJECT_ID")
	assert.Contains(t, err.Error(), "GOOGLE_MAPS_API_KEY")
}
