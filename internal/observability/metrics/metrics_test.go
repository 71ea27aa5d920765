package metrics

import (
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordStrategyAttempt(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		success  bool
		result   string
	}{
		{name: "success", strategy: "credit", success: true, result: "success"},
		{name: "failure", strategy: "rules", success: false, result: "failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := StrategyAttemptsTotal.WithLabelValues(tt.strategy, tt.result)
			before := testutil.ToFloat64(counter)

			RecordStrategyAttempt(tt.strategy, tt.success, 15*time.Millisecond)

			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestRecordFallbackExhausted(t *testing.T) {
	before := testutil.ToFloat64(FallbackExhaustedTotal)
	RecordFallbackExhausted()
	assert.Equal(t, before+1, testutil.ToFloat64(FallbackExhaustedTotal))
}

func TestRecordFailureHandled(t *testing.T) {
	counter := FailuresHandledTotal.WithLabelValues("claude", "cannot_interpret_input")
	before := testutil.ToFloat64(counter)

	RecordFailureHandled("claude", "cannot_interpret_input")
	RecordFailureHandled("claude", "cannot_interpret_input")

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestRecordOfferPersistedAndAnnounced(t *testing.T) {
	persisted := OffersPersistedTotal.WithLabelValues("success")
	failedPersist := OffersPersistedTotal.WithLabelValues("failure")
	announced := OffersAnnouncedTotal.WithLabelValues("success")

	beforePersisted := testutil.ToFloat64(persisted)
	beforeFailed := testutil.ToFloat64(failedPersist)
	beforeAnnounced := testutil.ToFloat64(announced)

	RecordOfferPersisted(true)
	RecordOfferPersisted(false)
	RecordOfferAnnounced(true)

	assert.Equal(t, beforePersisted+1, testutil.ToFloat64(persisted))
	assert.Equal(t, beforeFailed+1, testutil.ToFloat64(failedPersist))
	assert.Equal(t, beforeAnnounced+1, testutil.ToFloat64(announced))
}

func TestRecordCampaignProductError(t *testing.T) {
	counter := CampaignProductErrors.WithLabelValues("not_found")
	before := testutil.ToFloat64(counter)

	RecordCampaignProductError("not_found")

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRecordDurations_NoPanic(t *testing.T) {
	durations := []time.Duration{0, time.Millisecond, time.Minute}

	for _, d := range durations {
		assert.NotPanics(t, func() {
			RecordCampaignRun(d)
			RecordDBQuery("select_product", d)
		})
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	counter := HTTPRequestsTotal.WithLabelValues("POST", "POST /products/{id}/offers", "201")
	before := testutil.ToFloat64(counter)

	RecordHTTPRequest("POST", "POST /products/{id}/offers", "201", 20*time.Millisecond, 0, 512)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRecordDBStats(t *testing.T) {
	RecordDBStats(sql.DBStats{InUse: 3, Idle: 7})

	assert.Equal(t, float64(3), testutil.ToFloat64(DBConnectionsActive))
	assert.Equal(t, float64(7), testutil.ToFloat64(DBConnectionsIdle))
}
