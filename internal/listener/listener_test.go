package listener

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eolgames/internal/config"
	"eolgames/internal/pipeline"
)

const nesPage = `<html><body>
<table id="softwarelist"><tr><th>Title</th><th>Publisher</th></tr>
<tr><td>Contra</td><td>Konami</td></tr></table>
</body></html>`

func TestRunCycleSkipsUnchangedCorpus(t *testing.T) {
	tmp := t.TempDir()
	cfg := config.Config{
		HTMLDir:              filepath.Join(tmp, "html"),
		DatabaseDir:          filepath.Join(tmp, "database"),
		SiteDir:              filepath.Join(tmp, "site"),
		Workers:              1,
		MinTableRows:         10,
		HeaderMatchThreshold: 0.95,
		WatchIntervalSec:     1,
		WatchBuildSite:       true,
	}
	require.NoError(t, os.MkdirAll(cfg.HTMLDir, 0o755))
	page := filepath.Join(cfg.HTMLDir, "List_of_Nintendo_Entertainment_System_games.html")
	require.NoError(t, os.WriteFile(page, []byte(nesPage), 0o644))

	profiles, err := config.LoadProfiles(cfg, "")
	require.NoError(t, err)
	svc := NewService(cfg, pipeline.NewProcessingService(nil, cfg, profiles, nil), nil)

	ran, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	_, err = os.Stat(filepath.Join(cfg.SiteDir, "index.html"))
	require.NoError(t, err)

	ran, err = svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)

	require.NoError(t, os.WriteFile(page, []byte(nesPage+"\n<!-- edited -->"), 0o644))
	ran, err = svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestRunCycleWithoutConsoleData(t *testing.T) {
	tmp := t.TempDir()
	cfg := config.Config{
		HTMLDir:              filepath.Join(tmp, "html"),
		DatabaseDir:          filepath.Join(tmp, "database"),
		SiteDir:              filepath.Join(tmp, "site"),
		Workers:              1,
		MinTableRows:         10,
		HeaderMatchThreshold: 0.95,
		WatchIntervalSec:     1,
		WatchBuildSite:       true,
	}
	require.NoError(t, os.MkdirAll(cfg.HTMLDir, 0o755))
	page := filepath.Join(cfg.HTMLDir, "List_of_Atari_Lynx_games.html")
	require.NoError(t, os.WriteFile(page, []byte(nesPage), 0o644))

	profiles, err := config.LoadProfiles(cfg, "")
	require.NoError(t, err)
	svc := NewService(cfg, pipeline.NewProcessingService(nil, cfg, profiles, nil), nil)

	ran, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.NoFileExists(t, filepath.Join(cfg.SiteDir, "index.html"))

	ran, err = svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestFingerprintMissingDir(t *testing.T) {
	_, err := Fingerprint(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
