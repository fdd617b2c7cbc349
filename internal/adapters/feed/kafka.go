package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/pitchpulse/pitchpulse/internal/domain/model"
	"github.com/pitchpulse/pitchpulse/pkg/logger"
	"github.com/pitchpulse/pitchpulse/pkg/metrics"
)

const backpressureRetryDelay = 100 * time.Millisecond

// KafkaReader consumes match events from a Kafka topic and feeds them to
// the service. Offsets are committed after a record is accepted or
// deliberately dropped, so a crash replays at-least-once; the idempotency
// cache absorbs the replays.
type KafkaReader struct {
	reader     *kafka.Reader
	ingest     Ingestor
	retryDelay time.Duration
	logger     logger.Logger
}

// NewKafkaReader creates a reader for the given brokers, topic and consumer
// group.
func NewKafkaReader(brokers []string, topic, group string, ingest Ingestor, opts ...KafkaOption) *KafkaReader {
	r := &KafkaReader{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  group,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		ingest:     ingest,
		retryDelay: backpressureRetryDelay,
		logger:     logger.Get().Named("feed-kafka"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run consumes until ctx is done. Malformed messages are committed and
// skipped. Backpressure retries the same record before the next fetch:
// FetchMessage has already moved the in-session cursor past the message, so
// skipping it would delay redelivery until a group rebalance or restart.
func (r *KafkaReader) Run(ctx context.Context) error {
	for {
		msg, err := r.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch kafka message: %w", err)
		}

		var rec model.Record
		if err := json.Unmarshal(msg.Value, &rec); err != nil {
			metrics.RecordRecordMalformed()
			r.logger.Warn(ctx, "skipping malformed kafka message",
				logger.Int64("offset", msg.Offset), logger.Error(err),
			)
			if err := r.reader.CommitMessages(ctx, msg); err != nil {
				return fmt.Errorf("commit kafka offset: %w", err)
			}
			continue
		}

		metrics.RecordRecordIngested("kafka")
		if err := r.deliver(ctx, rec, msg.Offset); err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := r.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit kafka offset: %w", err)
		}
	}
}

// deliver hands the record to the service, retrying with backoff while the
// pipeline pushes back. Returns only once the record landed or ctx is done.
func (r *KafkaReader) deliver(ctx context.Context, rec model.Record, offset int64) error {
	for r.ingest.Ingest(ctx, rec) == IngestBackpressure {
		r.logger.Warn(ctx, "pipeline backpressure; retrying kafka record",
			logger.Int64("offset", offset),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("backpressure retry interrupted: %w", ctx.Err())
		case <-time.After(r.retryDelay):
		}
	}
	return nil
}

// Close releases the underlying reader.
func (r *KafkaReader) Close() error {
	return r.reader.Close()
}
