package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const wsCloseTimeout = time.Second

func (c *Client) openWebSocketStream(ctx context.Context, taskID string) (Stream, error) {
	u, err := url.Parse(c.baseURL + "/tasks/" + url.PathEscape(taskID) + "/ws")
	if err != nil {
		return nil, fmt.Errorf("invalid websocket url: %w", err)
	}
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}

	header := http.Header{}
	header.Set(requestIDHeader, uuid.NewString())

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dialing websocket: HTTP %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dialing websocket: %w", err)
	}

	s := &wsStream{conn: conn}
	// Unblock a pending read when the stream context ends.
	s.stopAfter = context.AfterFunc(ctx, func() { _ = s.shutdown() })

	c.logger.Debugf("Websocket stream opened for task %s", taskID)
	return s, nil
}

type wsStream struct {
	conn      *websocket.Conn
	stopAfter func() bool
	closeOnce sync.Once
	closeErr  error
}

func (s *wsStream) Recv() ([]byte, error) {
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, ErrStreamClosed
		}
		return nil, fmt.Errorf("reading websocket: %w", err)
	}
	return data, nil
}

func (s *wsStream) Close() error {
	s.stopAfter()
	return s.shutdown()
}

func (s *wsStream) shutdown() error {
	s.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsCloseTimeout))
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}
