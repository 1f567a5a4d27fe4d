package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	service "github.com/okian/xgmap/internal/app"
	"github.com/okian/xgmap/internal/domain/geometry"
	"github.com/okian/xgmap/pkg/metrics"
)

const (
	liveReadLimit    = 1 << 10
	liveSendBuffer   = 64
	liveWriteWait    = 5 * time.Second
	livePongWait     = 60 * time.Second
	livePingInterval = 50 * time.Second
)

// liveRequest is one position to score, typically the pitch cell under the
// pointer. ID is echoed back so clients can drop stale answers.
type liveRequest struct {
	ID     string   `json:"id,omitempty"`
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Preset string   `json:"preset,omitempty"`
}

type liveResponse struct {
	ID         string              `json:"id,omitempty"`
	Evaluation *service.Evaluation `json:"evaluation,omitempty"`
	Error      *errorResponse      `json:"error,omitempty"`
}

// LiveHandler scores positions sent over a websocket.
type LiveHandler struct {
	deps     ScoreDependencies
	upgrader websocket.Upgrader
}

// NewLiveHandler creates a new live scoring handler.
func NewLiveHandler(deps ScoreDependencies) *LiveHandler {
	return &LiveHandler{
		deps: deps,
		upgrader: websocket.Upgrader{
			// Read-only scoring; any page may connect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleLive handles GET /v1/live. Each text message
// {"id","x","y","preset"} gets one {"id","evaluation"} or {"id","error"}
// reply, in order.
func (h *LiveHandler) HandleLive(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request.
		metrics.RecordErrorByComponent("live", "upgrade")
		return
	}
	metrics.RecordLiveConnect()
	defer metrics.RecordLiveDisconnect()

	send := make(chan liveResponse, liveSendBuffer)
	done := make(chan struct{})
	go writePump(conn, send, done)

	h.readPump(r.Context(), conn, send, done)
	close(send)
	<-done
}

func (h *LiveHandler) readPump(ctx context.Context, conn *websocket.Conn, send chan<- liveResponse, done <-chan struct{}) {
	conn.SetReadLimit(liveReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				metrics.RecordErrorByComponent("live", "read")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(livePongWait))

		select {
		case send <- h.evaluate(ctx, data):
		case <-done:
			return
		}
	}
}

func (h *LiveHandler) evaluate(ctx context.Context, data []byte) liveResponse {
	var req liveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return liveError("", fmt.Errorf("%w: %w", ErrBadRequest, err))
	}
	if req.X == nil || req.Y == nil {
		return liveError(req.ID, fmt.Errorf("%w: x and y are required", ErrBadRequest))
	}
	ev, err := h.deps.Score(ctx, req.Preset, geometry.FieldPosition{X: *req.X, Y: *req.Y})
	if err != nil {
		return liveError(req.ID, err)
	}
	return liveResponse{ID: req.ID, Evaluation: &ev}
}

func liveError(id string, err error) liveResponse {
	_, code := classify(err)
	return liveResponse{ID: id, Error: &errorResponse{Code: code, Message: err.Error()}}
}

// writePump owns all writes to conn. It closes done and the connection when
// send is closed or a write fails.
func writePump(conn *websocket.Conn, send <-chan liveResponse, done chan<- struct{}) {
	ticker := time.NewTicker(livePingInterval)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
