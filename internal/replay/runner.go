package replay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/pitchpulse/pitchpulse/internal/domain/model"
	"github.com/pitchpulse/pitchpulse/pkg/logger"
)

// WriteJSONL writes records to w, one JSON object per line. The output is
// the same line format the socket feed consumes.
func WriteJSONL(w io.Writer, records []model.Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

// ReadJSONL parses a JSONL stream back into records.
func ReadJSONL(r io.Reader) ([]model.Record, error) {
	var out []model.Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec model.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parse record: %w", err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return out, nil
}

// StreamSocket replays records over a raw TCP connection in the upstream
// feed format. delay throttles between records; zero sends at full speed.
func StreamSocket(ctx context.Context, addr string, records []model.Record, delay time.Duration) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial feed %s: %w", addr, err)
	}
	defer conn.Close()

	log := logger.Named("replay")
	bw := bufio.NewWriter(conn)
	enc := json.NewEncoder(bw)
	for i, rec := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("send record %d: %w", i, err)
		}
		if delay > 0 {
			if err := bw.Flush(); err != nil {
				return fmt.Errorf("flush record %d: %w", i, err)
			}
			time.Sleep(delay)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush stream: %w", err)
	}
	log.Info(ctx, "socket replay complete", logger.Int("records", len(records)))
	return nil
}

// StreamHTTP replays records one by one against the POST /events endpoint.
func StreamHTTP(ctx context.Context, baseURL string, records []model.Record, delay time.Duration) error {
	client := &http.Client{Timeout: 10 * time.Second}
	log := logger.Named("replay")

	var accepted, duplicates, rejected int
	for i, rec := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		body, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/events", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build request %d: %w", i, err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("post record %d: %w", i, err)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusAccepted:
			accepted++
		case http.StatusOK:
			duplicates++
		default:
			rejected++
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	log.Info(ctx, "http replay complete",
		logger.Int("accepted", accepted),
		logger.Int("duplicatesOrBoundaries", duplicates),
		logger.Int("rejected", rejected),
	)
	return nil
}
