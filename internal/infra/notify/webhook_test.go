package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/notify"
	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/obligation"
)

func sampleNotification() notify.Notification {
	return notify.Notification{
		TenantID:       "acme",
		Category:       obligation.CategoryDataBreach,
		RecordID:       uuid.New(),
		Title:          "stolen backup",
		Tier:           obligation.TierCritical,
		DueAt:          time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		HoursRemaining: 2,
	}
}

func TestWebhookSender_PostsJSON(t *testing.T) {
	var got webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	n := sampleNotification()
	sender := NewWebhookSender(server.URL, 0)
	require.NoError(t, sender.Send(context.Background(), n))

	assert.Equal(t, "acme", got.TenantID)
	assert.Equal(t, string(obligation.CategoryDataBreach), got.Category)
	assert.Equal(t, n.RecordID.String(), got.RecordID)
	assert.Equal(t, string(obligation.TierCritical), got.Tier)
	assert.Equal(t, "2026-08-31T12:00:00Z", got.DueAt)
	assert.InDelta(t, 2.0, got.HoursRemaining, 0.001)
}

func TestWebhookSender_NonSuccessStatusIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sender := NewWebhookSender(server.URL, 0)
	err := sender.Send(context.Background(), sampleNotification())
	assert.ErrorContains(t, err, "502")
}

func TestWebhookSender_RespectsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	sender := NewWebhookSender(server.URL, 0)
	assert.Error(t, sender.Send(ctx, sampleNotification()))
}
