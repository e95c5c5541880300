package services

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapformai/zapform-analytics/pkg/config"
)

func TestBuildScriptSubstitutesPlaceholders(t *testing.T) {
	f := newServiceFixture(t)
	f.seedProject(t, "trk_1")

	script, err := f.script.BuildScript("trk_1")
	require.NoError(t, err)
	assert.Contains(t, script, "trk_1")
	assert.Contains(t, script, "http://localhost:8080/api/track")
	assert.NotContains(t, script, "__TRACKING_ID__")
	assert.NotContains(t, script, "__API_ENDPOINT__")
}

func TestBuildScriptCarriesConfiguredIdleWindow(t *testing.T) {
	f := newServiceFixture(t)
	f.seedProject(t, "trk_1")

	script, err := f.script.BuildScript("trk_1")
	require.NoError(t, err)
	idleMs := strconv.FormatInt(config.SessionIdleExpiry.Milliseconds(), 10)
	assert.Contains(t, script, "sessionTimeout: "+idleMs)
	assert.NotContains(t, script, "__SESSION_IDLE_MS__")
}

func TestBuildScriptUnknownTrackingID(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.script.BuildScript("trk_missing")
	assert.ErrorIs(t, err, ErrUnknownTrackingID)
}

func TestBuildScriptNormalizesBaseURL(t *testing.T) {
	f := newServiceFixture(t)
	f.seedProject(t, "trk_1")

	svc := NewScriptService(f.ingestion, "https://collect.example.com///", quietLogger())
	script, err := svc.BuildScript("trk_1")
	require.NoError(t, err)
	assert.Contains(t, script, "https://collect.example.com/api/track")
	assert.False(t, strings.Contains(script, "example.com//api"), "trailing slashes collapse")
}
