package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapformai/zapform-analytics/internal/domain/entities/events"
)

// seedSession creates a session through the ingestion pipeline so interaction
// tests exercise the same resolution path production traffic takes.
func seedSession(t *testing.T, f *serviceFixture, trackingID, token string) {
	t.Helper()
	require.NoError(t, f.ingestion.ProcessEnvelope(pageViewEnvelope(trackingID, token), RequestContext{}))
}

func interactionRequest(f *serviceFixture, actionID string) *InteractionRequest {
	return &InteractionRequest{
		ActionID:     actionID,
		TrackingID:   "trk_1",
		SessionToken: "tok_1",
		Type:         events.InteractionImpression,
		URL:          "https://example.com/pricing",
	}
}

func TestRecordInteractionAppendsRecord(t *testing.T) {
	f := newServiceFixture(t)
	p := f.seedProject(t, "trk_1")
	a := seedAction(t, f, p.ID, "popup", 1, true)
	seedSession(t, f, "trk_1", "tok_1")

	require.NoError(t, f.interactions.RecordInteraction(interactionRequest(f, a.ID)))
	assert.Equal(t, 1, f.countRows(t, "action_interactions"))
}

func TestRecordInteractionRejectsInvalidType(t *testing.T) {
	f := newServiceFixture(t)
	p := f.seedProject(t, "trk_1")
	a := seedAction(t, f, p.ID, "popup", 1, true)
	seedSession(t, f, "trk_1", "tok_1")

	req := interactionRequest(f, a.ID)
	req.Type = "hover"
	assert.ErrorIs(t, f.interactions.RecordInteraction(req), ErrInvalidInteractionType)
	assert.Zero(t, f.countRows(t, "action_interactions"))
}

func TestRecordInteractionRejectsUnknownTrackingID(t *testing.T) {
	f := newServiceFixture(t)

	req := interactionRequest(f, "act_1")
	req.TrackingID = "trk_missing"
	assert.ErrorIs(t, f.interactions.RecordInteraction(req), ErrUnknownTrackingID)
	assert.Zero(t, f.countRows(t, "action_interactions"))
}

func TestRecordInteractionRejectsUnknownAction(t *testing.T) {
	f := newServiceFixture(t)
	f.seedProject(t, "trk_1")
	seedSession(t, f, "trk_1", "tok_1")

	assert.ErrorIs(t, f.interactions.RecordInteraction(interactionRequest(f, "act_missing")), ErrUnknownAction)
	assert.Zero(t, f.countRows(t, "action_interactions"))
}

func TestRecordInteractionRejectsActionFromOtherProject(t *testing.T) {
	f := newServiceFixture(t)
	f.seedProject(t, "trk_1")
	p2 := f.seedProject(t, "trk_2")
	a := seedAction(t, f, p2.ID, "popup", 1, true)
	seedSession(t, f, "trk_1", "tok_1")

	assert.ErrorIs(t, f.interactions.RecordInteraction(interactionRequest(f, a.ID)), ErrUnknownAction)
	assert.Zero(t, f.countRows(t, "action_interactions"))
}

func TestRecordInteractionRejectsUnknownSession(t *testing.T) {
	f := newServiceFixture(t)
	p := f.seedProject(t, "trk_1")
	a := seedAction(t, f, p.ID, "popup", 1, true)

	assert.ErrorIs(t, f.interactions.RecordInteraction(interactionRequest(f, a.ID)), ErrUnknownSession)
	assert.Zero(t, f.countRows(t, "action_interactions"), "precondition failure must not write")
}

func TestRecordInteractionRejectsSessionFromOtherProject(t *testing.T) {
	f := newServiceFixture(t)
	p1 := f.seedProject(t, "trk_1")
	f.seedProject(t, "trk_2")
	a := seedAction(t, f, p1.ID, "popup", 1, true)

	// The token belongs to project two but the request claims project one.
	seedSession(t, f, "trk_2", "tok_1")

	assert.ErrorIs(t, f.interactions.RecordInteraction(interactionRequest(f, a.ID)), ErrUnknownSession)
	assert.Zero(t, f.countRows(t, "action_interactions"))
}

func TestRecordInteractionStoresDuplicatesAsObserved(t *testing.T) {
	f := newServiceFixture(t)
	p := f.seedProject(t, "trk_1")
	a := seedAction(t, f, p.ID, "popup", 1, true)
	seedSession(t, f, "trk_1", "tok_1")

	require.NoError(t, f.interactions.RecordInteraction(interactionRequest(f, a.ID)))
	require.NoError(t, f.interactions.RecordInteraction(interactionRequest(f, a.ID)))
	assert.Equal(t, 2, f.countRows(t, "action_interactions"), "display-once is a client guarantee")
}
