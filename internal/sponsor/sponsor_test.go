// internal/sponsor/sponsor_test.go
package sponsor

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sponsors.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileIsEmptyService(t *testing.T) {
	svc, err := Load(testLogger(), filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	_, ok := svc.ActiveSponsor("lobby")
	assert.False(t, ok)
	impressions, clicks := svc.Stats("lobby")
	assert.Zero(t, impressions)
	assert.Zero(t, clicks)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, `{"slots": nope`)
	_, err := Load(testLogger(), path)
	assert.Error(t, err)
}

func TestActiveSponsor(t *testing.T) {
	path := writeConfig(t, `{
	  "slots": {
	    "lobby": {
	      "sponsor": {"enabled": true, "name": "Raiyvila", "logo": "/static/raiyvila.png", "url": "https://example.mv", "callout": "Play on!"},
	      "impressions": 7,
	      "clicks": 2
	    },
	    "paused": {
	      "sponsor": {"enabled": false, "name": "Old"}
	    }
	  }
	}`)
	svc, err := Load(testLogger(), path)
	require.NoError(t, err)

	sp, ok := svc.ActiveSponsor("lobby")
	require.True(t, ok)
	assert.Equal(t, "Raiyvila", sp.Name)
	assert.Equal(t, "https://example.mv", sp.URL)

	_, ok = svc.ActiveSponsor("paused")
	assert.False(t, ok, "disabled sponsors stay hidden")
	_, ok = svc.ActiveSponsor("unknown")
	assert.False(t, ok)

	impressions, clicks := svc.Stats("lobby")
	assert.EqualValues(t, 7, impressions)
	assert.EqualValues(t, 2, clicks)
}

func TestCountersBumpAndPersist(t *testing.T) {
	path := writeConfig(t, `{
	  "slots": {
	    "lobby": {
	      "sponsor": {"enabled": true, "name": "Raiyvila"}
	    }
	  }
	}`)
	svc, err := Load(testLogger(), path)
	require.NoError(t, err)

	svc.RecordImpression("lobby")
	svc.RecordImpression("lobby")
	svc.RecordClick("lobby")

	impressions, clicks := svc.Stats("lobby")
	assert.EqualValues(t, 2, impressions)
	assert.EqualValues(t, 1, clicks)

	// Counters survive a reload, and so does the sponsor config.
	reloaded, err := Load(testLogger(), path)
	require.NoError(t, err)
	impressions, clicks = reloaded.Stats("lobby")
	assert.EqualValues(t, 2, impressions)
	assert.EqualValues(t, 1, clicks)
	_, ok := reloaded.ActiveSponsor("lobby")
	assert.True(t, ok)
}

func TestBumpUnknownSlotCreatesState(t *testing.T) {
	svc, err := Load(testLogger(), filepath.Join(t.TempDir(), "sponsors.json"))
	require.NoError(t, err)

	svc.RecordClick("side")
	impressions, clicks := svc.Stats("side")
	assert.Zero(t, impressions)
	assert.EqualValues(t, 1, clicks)

	// The slot exists for counting but still has no active sponsor.
	_, ok := svc.ActiveSponsor("side")
	assert.False(t, ok)
}
