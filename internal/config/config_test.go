package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"SEASON", "STAT", "PENALTIES", "CV_FOLDS", "FORCED_PENALTY", "CFBD_TIMEOUT_SEC"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "ppa", cfg.Stat)
	assert.Equal(t, 5, cfg.Folds)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.Len(t, cfg.Penalties, 11)
	assert.Zero(t, cfg.ForcedPenalty)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SEASON", "2019")
	t.Setenv("PENALTIES", "50, 100 ,150")
	t.Setenv("CV_FOLDS", "not-a-number")
	t.Setenv("FORCED_PENALTY", "175")

	cfg := Load()
	assert.Equal(t, 2019, cfg.Season)
	assert.Equal(t, []float64{50, 100, 150}, cfg.Penalties)
	assert.Equal(t, 5, cfg.Folds)
	assert.Equal(t, 175.0, cfg.ForcedPenalty)
}

func TestEnvFloatsFallsBackOnBadEntry(t *testing.T) {
	t.Setenv("X_PENALTIES", "100,abc")
	assert.Equal(t, []float64{1}, envFloats("X_PENALTIES", []float64{1}))

	t.Setenv("X_PENALTIES", " , ")
	assert.Equal(t, []float64{1}, envFloats("X_PENALTIES", []float64{1}))
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadCategories(t *testing.T) {
	path := writeFile(t, `
categories:
  - label: All
  - label: Rush
    play_types: [Rush, Rushing Touchdown]
`)
	cats, err := LoadCategories(path)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "All", cats[0].Label)
	assert.Empty(t, cats[0].PlayTypes)
	assert.Equal(t, []string{"Rush", "Rushing Touchdown"}, cats[1].PlayTypes)
}

func TestLoadCategoriesErrors(t *testing.T) {
	tests := map[string]string{
		"empty":     "categories: []\n",
		"no label":  "categories:\n  - play_types: [Rush]\n",
		"duplicate": "categories:\n  - label: All\n  - label: All\n",
		"malformed": "categories: {label: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCategories(writeFile(t, body))
			assert.Error(t, err)
		})
	}

	_, err := LoadCategories(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBundledCategories(t *testing.T) {
	cats, err := LoadCategories("categories.yaml")
	require.NoError(t, err)
	labels := make([]string, 0, len(cats))
	for _, c := range cats {
		labels = append(labels, c.Label)
	}
	assert.Equal(t, []string{"All", "Pass", "Rush"}, labels)
}
