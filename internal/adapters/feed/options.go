package feed

import "github.com/pitchpulse/pitchpulse/pkg/logger"

// SocketOption applies a configuration option to the SocketListener.
type SocketOption func(*SocketListener)

// WithSocketLogger sets a custom logger.
func WithSocketLogger(l logger.Logger) SocketOption {
	return func(s *SocketListener) {
		if l != nil {
			s.logger = l
		}
	}
}

// KafkaOption applies a configuration option to the KafkaReader.
type KafkaOption func(*KafkaReader)

// WithKafkaLogger sets a custom logger.
func WithKafkaLogger(l logger.Logger) KafkaOption {
	return func(r *KafkaReader) {
		if l != nil {
			r.logger = l
		}
	}
}
