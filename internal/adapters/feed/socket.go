package feed

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/pitchpulse/pitchpulse/internal/domain/model"
	"github.com/pitchpulse/pitchpulse/pkg/logger"
	"github.com/pitchpulse/pitchpulse/pkg/metrics"
)

// Line length bound for a single JSON record.
const maxLineBytes = 1 << 20

// SocketListener accepts TCP connections and ingests one JSON record per
// line. Malformed lines are counted and skipped; a malformed line never
// closes the connection.
type SocketListener struct {
	addr    string
	ingest  Ingestor
	logger  logger.Logger
	ln      net.Listener
	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

// NewSocketListener creates a listener on addr feeding ingest.
func NewSocketListener(addr string, ingest Ingestor, opts ...SocketOption) *SocketListener {
	l := &SocketListener{
		addr:   addr,
		ingest: ingest,
		logger: logger.Get().Named("feed-socket"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start binds the listener and serves connections until ctx is done.
// Binding failures are fatal to the transport, not to the caller.
func (l *SocketListener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return nil
	}

	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("bind feed socket %s: %w", l.addr, err)
	}
	l.ln = ln
	l.started = true
	l.logger.Info(ctx, "feed socket listening", logger.String("addr", l.addr))

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		<-ctx.Done()
		_ = ln.Close()
	}()

	l.wg.Add(1)
	go l.acceptLoop(ctx)
	return nil
}

func (l *SocketListener) acceptLoop(ctx context.Context) {
	defer l.wg.Done()
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return
			}
			l.logger.Warn(ctx, "feed accept failed", logger.Error(err))
			continue
		}
		l.wg.Add(1)
		go l.serveConn(ctx, conn)
	}
}

func (l *SocketListener) serveConn(ctx context.Context, conn net.Conn) {
	defer l.wg.Done()
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	l.logger.Info(ctx, "feed connection opened", logger.String("remote", remote))

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec model.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			metrics.RecordRecordMalformed()
			l.logger.Warn(ctx, "skipping malformed feed line", logger.Error(err))
			continue
		}

		metrics.RecordRecordIngested("socket")
		if status := l.ingest.Ingest(ctx, rec); status == IngestBackpressure {
			l.logger.Warn(ctx, "feed record dropped by backpressure",
				logger.String("recordID", rec.RecordID),
			)
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		l.logger.Warn(ctx, "feed connection read failed",
			logger.String("remote", remote), logger.Error(err),
		)
	}
	l.logger.Info(ctx, "feed connection closed", logger.String("remote", remote))
}

// Addr returns the bound listen address, useful when the configured address
// had port zero.
func (l *SocketListener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

// Stop waits for the accept loop and open connections to finish. The root
// context cancellation triggers the actual close.
func (l *SocketListener) Stop() {
	l.wg.Wait()
}
