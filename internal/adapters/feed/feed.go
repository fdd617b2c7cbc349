// Package feed contains the stream transports that hand raw records to the
// aggregation service: a TCP listener speaking newline-delimited JSON (the
// format the upstream match feed emits) and an optional Kafka reader.
package feed

import (
	"context"

	"github.com/pitchpulse/pitchpulse/internal/domain/model"
)

// Ingestor accepts one raw record for processing. Implementations must treat
// bad records as local failures and keep the stream alive.
type Ingestor interface {
	Ingest(ctx context.Context, rec model.Record) IngestStatus
}

// IngestStatus reports how the service received a record.
type IngestStatus int

// Ingest outcomes.
const (
	IngestAccepted IngestStatus = iota
	IngestDuplicate
	IngestBoundary
	IngestBackpressure
)
