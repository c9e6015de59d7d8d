package observability

import (
	"testing"
	"time"

	"github.com/rs/zerolog/log"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("GET", "/health", 200, 12*time.Millisecond)
	RecordCommandDecoded("sync")
	RecordInvalidCommand()
	RecordResetTransition(true)
	RecordResetTransition(false)
	RecordHandshakeRoundTrip("bus->command")
	RecordDomainTick("command")

	log.Info().Msg("observability/metrics: registration idempotent and recording paths executed")
}
