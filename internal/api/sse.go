package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"mime"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	sse "github.com/tmaxmax/go-sse"
)

// ErrStreamClosed is returned when the server closes the push channel.
var ErrStreamClosed = errors.New("stream closed by server")

// Task snapshots are small, anything bigger is a broken server.
const maxSSEEventSize = 1 << 20

func (c *Client) openSSEStream(ctx context.Context, taskID string) (Stream, error) {
	u := c.baseURL + "/tasks/" + url.PathEscape(taskID) + "/stream"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opening stream: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("opening stream: HTTP %d", resp.StatusCode)
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "text/event-stream" {
		resp.Body.Close()
		return nil, fmt.Errorf("opening stream: unexpected content type %q", resp.Header.Get("Content-Type"))
	}

	c.logger.Debugf("SSE stream opened for task %s", taskID)
	return newSSEStream(resp.Body), nil
}

// sseStream decodes a server-sent events body, only unnamed (message) events are delivered.
type sseStream struct {
	body io.ReadCloser

	mu   sync.Mutex
	next func() (sse.Event, error, bool)
	stop func()
}

func newSSEStream(body io.ReadCloser) *sseStream {
	next, stop := iter.Pull2(iter.Seq2[sse.Event, error](sse.Read(body, &sse.ReadConfig{MaxEventSize: maxSSEEventSize})))
	return &sseStream{
		body: body,
		next: next,
		stop: stop,
	}
}

func (s *sseStream) Recv() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		ev, err, ok := s.next()
		if !ok {
			return nil, ErrStreamClosed
		}
		if err != nil {
			return nil, fmt.Errorf("reading stream: %w", err)
		}

		if ev.Data == "" || (ev.Type != "" && ev.Type != "message") {
			continue
		}
		return []byte(ev.Data), nil
	}
}

// Close unblocks any pending Recv by closing the body before stopping the reader.
func (s *sseStream) Close() error {
	err := s.body.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop()

	return err
}
