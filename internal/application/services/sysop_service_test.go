package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/performance"
)

func newSysOpFixture(t *testing.T, password string) *SysOpService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return NewSysOpService(string(hash), "test-secret", time.Hour, quietLogger(), performance.NewTracker(nil))
}

func TestSysOpLoginIssuesValidToken(t *testing.T) {
	svc := newSysOpFixture(t, "hunter2")

	token, err := svc.Login("hunter2")
	require.NoError(t, err)
	assert.True(t, svc.ValidateToken(token))
}

func TestSysOpLoginRejectsWrongPassword(t *testing.T) {
	svc := newSysOpFixture(t, "hunter2")

	_, err := svc.Login("wrong")
	assert.Error(t, err)
}

func TestSysOpLoginDisabledWithoutHash(t *testing.T) {
	svc := NewSysOpService("", "secret", time.Hour, quietLogger(), performance.NewTracker(nil))
	assert.False(t, svc.Enabled())

	_, err := svc.Login("anything")
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newSysOpFixture(t, "hunter2")
	assert.False(t, svc.ValidateToken(""))
	assert.False(t, svc.ValidateToken("not-a-jwt"))
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	svc := newSysOpFixture(t, "hunter2")
	other := NewSysOpService(svc.passwordHash, "different-secret", time.Hour, quietLogger(), performance.NewTracker(nil))

	token, err := svc.Login("hunter2")
	require.NoError(t, err)
	assert.False(t, other.ValidateToken(token), "tokens do not cross secrets")
}

func TestSetLogLevelRoundTrips(t *testing.T) {
	svc := newSysOpFixture(t, "hunter2")

	require.NoError(t, svc.SetLogLevel("analytics", "DEBUG"))
	levels := svc.GetLogLevels()
	assert.Equal(t, "DEBUG", levels["analytics"])
}

func TestSetLogLevelUnknownChannel(t *testing.T) {
	svc := newSysOpFixture(t, "hunter2")
	assert.Error(t, svc.SetLogLevel("nonsense", "DEBUG"))
}
