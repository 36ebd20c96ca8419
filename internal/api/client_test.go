package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/wsc/internal/api"
	"github.com/slok/wsc/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler, transport string) *api.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := api.NewClient(api.ClientConfig{
		BaseURL:       server.URL + "/api",
		PushTransport: transport,
	})
	require.NoError(t, err)

	return c
}

func TestNewClient(t *testing.T) {
	tests := map[string]struct {
		config api.ClientConfig
		expErr bool
	}{
		"Default config should be valid.": {
			config: api.ClientConfig{},
		},
		"Websocket transport should be valid.": {
			config: api.ClientConfig{PushTransport: api.PushTransportWebSocket},
		},
		"Unknown transport should fail.": {
			config: api.ClientConfig{PushTransport: "carrier-pigeon"},
			expErr: true,
		},
		"Non HTTP base URL should fail.": {
			config: api.ClientConfig{BaseURL: "ftp://example.com"},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c, err := api.NewClient(test.config)

			if test.expErr {
				assert.Error(t, err)
				assert.Nil(t, c)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, c)
			}
		})
	}
}

func TestClientCheckTask(t *testing.T) {
	tests := map[string]struct {
		taskID    string
		handler   http.HandlerFunc
		expTask   *model.Task
		expErr    bool
		expErrIs  error
		expNoCall bool
	}{
		"A progress status should be returned normalized.": {
			taskID: "42",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = fmt.Fprint(w, `{"task_id": "42", "status": "PROGRESS", "current": 50, "message": "working"}`)
			},
			expTask: &model.Task{ID: "42", Status: model.TaskStatusInProgress, Progress: 50, Message: "working"},
		},
		"A payload without task ID should use the requested ID.": {
			taskID: "42",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = fmt.Fprint(w, `{"status": "PENDING"}`)
			},
			expTask: &model.Task{ID: "42", Status: model.TaskStatusPending},
		},
		"A not found task should fail with not found.": {
			taskID: "42",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = fmt.Fprint(w, `{"detail": "task not found"}`)
			},
			expErr:   true,
			expErrIs: model.ErrNotFound,
		},
		"A server error should fail.": {
			taskID: "42",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expErr: true,
		},
		"A malformed payload should fail.": {
			taskID: "42",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = fmt.Fprint(w, `{"status": "EXPLODED"}`)
			},
			expErr: true,
		},
		"An empty task ID should fail without calling the server.": {
			taskID:    "",
			expErr:    true,
			expErrIs:  model.ErrNotValid,
			expNoCall: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			called := false
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				assert.Equal(http.MethodGet, r.Method)
				assert.Equal("/api/tasks/"+test.taskID, r.URL.Path)
				assert.NotEmpty(r.Header.Get("X-Request-ID"))
				test.handler(w, r)
			}), "")

			gotTask, err := c.CheckTask(context.Background(), test.taskID)

			if test.expErr {
				require.Error(err)
				if test.expErrIs != nil {
					assert.ErrorIs(err, test.expErrIs)
				}
			} else if assert.NoError(err) {
				assert.Equal(test.expTask, gotTask)
			}
			assert.Equal(!test.expNoCall, called)
		})
	}
}

func TestClientSubmit(t *testing.T) {
	tests := map[string]struct {
		submit        func(c *api.Client) (*model.Submission, error)
		statusCode    int
		response      string
		expPath       string
		expBody       func(t *testing.T, body []byte)
		expSubmission *model.Submission
		expErr        bool
	}{
		"Generating should post the request and return the task.": {
			submit: func(c *api.Client) (*model.Submission, error) {
				return c.Generate(context.Background(), model.GenerateRequest{
					SchoolLevel:  model.SchoolLevelMiddle,
					Grade:        1,
					ProblemCount: model.ProblemCountTen,
				})
			},
			statusCode: http.StatusOK,
			response:   `{"task_id": "t1", "message": "generation started"}`,
			expPath:    "/api/generate",
			expBody: func(t *testing.T, body []byte) {
				var got map[string]any
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, "중학교", got["school_level"])
				assert.Equal(t, "10문제", got["problem_count"])
			},
			expSubmission: &model.Submission{TaskID: "t1", Message: "generation started"},
		},
		"Grading should post the answers.": {
			submit: func(c *api.Client) (*model.Submission, error) {
				return c.Grade(context.Background(), "7", map[string]string{"1": "3"})
			},
			statusCode: http.StatusOK,
			response:   `{"task_id": "t2", "message": "grading started"}`,
			expPath:    "/api/worksheets/7/grade",
			expBody: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"1": "3"}`, string(body))
			},
			expSubmission: &model.Submission{TaskID: "t2", Message: "grading started"},
		},
		"Canvas grading should post the canvas answers.": {
			submit: func(c *api.Client) (*model.Submission, error) {
				return c.GradeCanvas(context.Background(), "7", model.CanvasGradeRequest{
					MultipleChoiceAnswers: map[string]string{"1": "2"},
					CanvasAnswers:         map[string]string{"4": "data:image/png;base64,AAAA"},
				})
			},
			statusCode: http.StatusOK,
			response:   `{"task_id": "t3", "message": "grading started"}`,
			expPath:    "/api/worksheets/7/grade-canvas",
			expBody: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"multiple_choice_answers": {"1": "2"}, "canvas_answers": {"4": "data:image/png;base64,AAAA"}}`, string(body))
			},
			expSubmission: &model.Submission{TaskID: "t3", Message: "grading started"},
		},
		"An error detail should be returned as error.": {
			submit: func(c *api.Client) (*model.Submission, error) {
				return c.Generate(context.Background(), model.GenerateRequest{})
			},
			statusCode: http.StatusBadRequest,
			response:   `{"detail": "ratios must add up to 100"}`,
			expPath:    "/api/generate",
			expErr:     true,
		},
		"A response without task ID should fail.": {
			submit: func(c *api.Client) (*model.Submission, error) {
				return c.Generate(context.Background(), model.GenerateRequest{})
			},
			statusCode: http.StatusOK,
			response:   `{"message": "ok"}`,
			expPath:    "/api/generate",
			expErr:     true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(http.MethodPost, r.Method)
				assert.Equal(test.expPath, r.URL.Path)
				assert.Equal("application/json", r.Header.Get("Content-Type"))
				body, err := io.ReadAll(r.Body)
				assert.NoError(err)
				if test.expBody != nil {
					test.expBody(t, body)
				}
				w.WriteHeader(test.statusCode)
				_, _ = fmt.Fprint(w, test.response)
			}), "")

			gotSubmission, err := test.submit(c)

			if test.expErr {
				assert.Error(err)
			} else if assert.NoError(err) {
				assert.Equal(test.expSubmission, gotSubmission)
			}
		})
	}
}

func recvAll(t *testing.T, s api.Stream) (msgs []string, err error) {
	t.Helper()

	for {
		data, err := s.Recv()
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, string(data))
	}
}

func TestClientSSEStream(t *testing.T) {
	tests := map[string]struct {
		body    string
		expMsgs      []string
		expStreamErr bool
	}{
		"Messages should be delivered in order.": {
			body:    "data: {\"status\": \"PENDING\"}\n\ndata: {\"status\": \"SUCCESS\"}\n\n",
			expMsgs: []string{`{"status": "PENDING"}`, `{"status": "SUCCESS"}`},
		},
		"Comments should be ignored.": {
			body:    ": keepalive\n\ndata: a\n\n",
			expMsgs: []string{"a"},
		},
		"Multi line data should be joined with new lines.": {
			body:    "data: a\ndata: b\n\n",
			expMsgs: []string{"a\nb"},
		},
		"Named events should be ignored.": {
			body:    "event: ping\ndata: x\n\nevent: message\ndata: y\n\n",
			expMsgs: []string{"y"},
		},
		"CRLF line endings should be supported.": {
			body:    "id: 1\r\ndata: a\r\n\r\n",
			expMsgs: []string{"a"},
		},
		"Events without data should be skipped.": {
			body:    "id: 1\n\nretry: 100\n\ndata: a\n\n",
			expMsgs: []string{"a"},
		},
		"An unterminated event should not be delivered.": {
			body:         "data: a\n\ndata: b",
			expMsgs:      []string{"a"},
			expStreamErr: true,
		},
		"An event over the size limit should fail the stream.": {
			body:         "data: a\n\ndata: " + strings.Repeat("x", 2<<20) + "\n\n",
			expMsgs:      []string{"a"},
			expStreamErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal("/api/tasks/42/stream", r.URL.Path)
				assert.Equal("text/event-stream", r.Header.Get("Accept"))
				w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
				_, _ = fmt.Fprint(w, test.body)
			}), api.PushTransportSSE)

			s, err := c.OpenStream(context.Background(), "42")
			require.NoError(err)
			defer s.Close()

			gotMsgs, err := recvAll(t, s)
			if test.expStreamErr {
				assert.Error(err)
				assert.NotErrorIs(err, api.ErrStreamClosed)
			} else {
				assert.ErrorIs(err, api.ErrStreamClosed)
			}
			assert.Equal(test.expMsgs, gotMsgs)
		})
	}
}

func TestClientSSEStreamOpenFailures(t *testing.T) {
	tests := map[string]struct {
		handler http.HandlerFunc
	}{
		"A non OK status should fail.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
		"A non event stream content type should fail.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = fmt.Fprint(w, `{}`)
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, test.handler, api.PushTransportSSE)

			_, err := c.OpenStream(context.Background(), "42")
			assert.Error(t, err)
		})
	}
}

func TestClientSSEStreamCancel(t *testing.T) {
	require := require.New(t)

	release := make(chan struct{})
	defer close(release)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}), api.PushTransportSSE)

	ctx, cancel := context.WithCancel(context.Background())
	s, err := c.OpenStream(ctx, "42")
	require.NoError(err)
	defer s.Close()

	cancel()
	_, err = s.Recv()
	require.Error(err)
}

func TestClientWebSocketStream(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	upgrader := websocket.Upgrader{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("/api/tasks/42/ws", r.URL.Path)
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(err) {
			return
		}
		defer conn.Close()

		for _, msg := range []string{`{"status": "PENDING"}`, `{"status": "SUCCESS"}`} {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(msg))
		}
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}), api.PushTransportWebSocket)

	s, err := c.OpenStream(context.Background(), "42")
	require.NoError(err)
	defer s.Close()

	gotMsgs, err := recvAll(t, s)
	assert.ErrorIs(err, api.ErrStreamClosed)
	assert.Equal([]string{`{"status": "PENDING"}`, `{"status": "SUCCESS"}`}, gotMsgs)
}
