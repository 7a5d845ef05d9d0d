package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eolgames/internal"
)

func testConfig() Config {
	return Config{MinTableRows: 10, HeaderMatchThreshold: 0.95}
}

func TestProfileDefaults(t *testing.T) {
	set, err := LoadProfiles(testConfig(), "")
	require.NoError(t, err)

	p := set.For("snes")
	assert.Equal(t, "snes", p.Console)
	assert.Equal(t, "special", p.SpecialName)
	assert.Equal(t, []string{"softwarelist"}, p.TableIDs[internal.CategoryLicensed])
	assert.Equal(t, []string{"softwarelistunreleased"}, p.TableIDs[internal.CategoryUnreleased])
	assert.Empty(t, p.TableIDs[internal.CategorySpecial])
	assert.Contains(t, p.Synonyms[internal.FieldDeveloper], "developer")
	assert.Contains(t, p.Synonyms[internal.FieldNARelease], "north america")
	assert.Equal(t, []internal.Field{internal.FieldTitle, internal.FieldYear}, p.Fallback[internal.CategoryUnreleased].Required)
	assert.Equal(t, 10, p.MinDataRows)
	assert.True(t, p.IsPlaceholder("Unreleased"))
	assert.False(t, p.IsPlaceholder("Nintendo"))
}

func TestProfileConsoleOverride(t *testing.T) {
	set, err := LoadProfiles(testConfig(), "")
	require.NoError(t, err)

	p := set.For("nes")
	assert.Equal(t, "konami_qta", p.SpecialName)
	assert.Equal(t, []string{"konamiqtalist"}, p.TableIDs[internal.CategorySpecial])
	assert.Equal(t, []string{"softwarelist"}, p.TableIDs[internal.CategoryLicensed])
}

func TestProfileCopiesAreIndependent(t *testing.T) {
	set, err := LoadProfiles(testConfig(), "")
	require.NoError(t, err)

	a := set.For("nes")
	a.TableIDs[internal.CategoryLicensed][0] = "mutated"
	a.Synonyms[internal.FieldTitle] = nil

	b := set.For("nes")
	assert.Equal(t, "softwarelist", b.TableIDs[internal.CategoryLicensed][0])
	assert.NotEmpty(t, b.Synonyms[internal.FieldTitle])
}

func TestLoadProfilesOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	blob := `
defaults:
  synonyms:
    developer: ["Programmed by"]
consoles:
  saturn:
    special_name: educational
    tables:
      licensed: [saturnlist]
      special: [edulist]
`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o644))

	set, err := LoadProfiles(testConfig(), path)
	require.NoError(t, err)

	p := set.For("saturn")
	assert.Equal(t, "educational", p.SpecialName)
	assert.Equal(t, []string{"saturnlist"}, p.TableIDs[internal.CategoryLicensed])
	assert.Equal(t, []string{"edulist"}, p.TableIDs[internal.CategorySpecial])
	assert.Contains(t, p.Synonyms[internal.FieldDeveloper], "programmed by")
	assert.Contains(t, p.Synonyms[internal.FieldDeveloper], "developer")
}

func TestLoadProfilesRejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaults:\n  synonyms:\n    rating: [esrb]\n"), 0o644))

	_, err := LoadProfiles(testConfig(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating")
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("WORKERS", "0")
	t.Setenv("MIN_TABLE_ROWS", "5")
	t.Setenv("DB_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 5, cfg.MinTableRows)
	assert.Equal(t, "", cfg.DBPath)
	assert.InDelta(t, 0.95, cfg.HeaderMatchThreshold, 1e-9)
}

func TestLoadEnvRejectsBadThreshold(t *testing.T) {
	t.Setenv("HEADER_MATCH_THRESHOLD", "1.5")
	_, err := Load()
	require.Error(t, err)
}
