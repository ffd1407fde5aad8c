package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/chomins/autocommit/internal/compress"
	"github.com/chomins/autocommit/internal/diff"
	"github.com/chomins/autocommit/internal/model"
	"github.com/chomins/autocommit/internal/review"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // local tooling; restrict behind a proxy in production
	},
}

// WebSocket message types from the client.
const (
	wsMsgReview = "review"
)

// WebSocket message types to the client, in pipeline order.
const (
	wsMsgClassified = "classified"
	wsMsgCompressed = "compressed"
	wsMsgRequest    = "request"
	wsMsgResult     = "result"
	wsMsgError      = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsReviewReq is the payload for "review" messages.
type wsReviewReq struct {
	Diff  string   `json:"diff"`
	Level string   `json:"level,omitempty"`
	Files []string `json:"files,omitempty"`
}

// wsClassifiedFile is one entry of the "classified" phase.
type wsClassifiedFile struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	Priority string `json:"priority"`
	Churn    int    `json:"churn"`
}

// handleWebSocket runs one review per "review" message, streaming each
// pipeline phase as it completes so a UI can show progress while the
// model call is in flight.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read", "error", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.sendWSError(conn, "invalid message format")
			continue
		}

		switch msg.Type {
		case wsMsgReview:
			s.streamReview(r.Context(), conn, msg.Data)
		default:
			s.sendWSError(conn, "unknown message type: "+msg.Type)
		}
	}
}

func (s *Server) streamReview(ctx context.Context, conn *websocket.Conn, data json.RawMessage) {
	var req wsReviewReq
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWSError(conn, "invalid review data")
		return
	}
	if req.Diff == "" {
		s.sendWSError(conn, "diff is required")
		return
	}

	level, err := model.ParseLevel(req.Level)
	if err != nil {
		s.sendWSError(conn, err.Error())
		return
	}

	changes, err := diff.Parse(req.Diff)
	if err != nil {
		s.sendWSError(conn, "parsing diff: "+err.Error())
		return
	}

	// Phase 1: classification.
	classified := compress.ClassifyChanges(changes,
		s.cfg.Review.ExcludePatterns, s.cfg.Review.HighPriorityKeywords)
	var files []wsClassifiedFile
	for _, c := range classified {
		files = append(files, wsClassifiedFile{
			Path:     c.Change.Path,
			Kind:     c.Change.Kind.String(),
			Priority: c.Priority.String(),
			Churn:    c.Change.TotalLines(),
		})
	}
	s.sendWSMessage(conn, wsMsgClassified, files)

	// Phases 2+3: compression and packing.
	assembled := s.engine.Assemble(changes, review.Options{Level: level, Files: req.Files})
	preview := requestJSON(assembled)
	s.sendWSMessage(conn, wsMsgCompressed, preview.Files)
	s.sendWSMessage(conn, wsMsgRequest, preview)

	// Phase 4: the model call.
	res, err := s.engine.Execute(ctx, assembled)
	if err != nil {
		s.sendWSError(conn, err.Error())
		return
	}
	s.sendWSMessage(conn, wsMsgResult, resultJSON(res))
}

func (s *Server) sendWSMessage(conn *websocket.Conn, msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		s.log.Error("ws marshal", "error", err)
		return
	}
	if err := conn.WriteJSON(wsMessage{Type: msgType, Data: raw}); err != nil {
		s.log.Warn("ws write", "error", err)
	}
}

func (s *Server) sendWSError(conn *websocket.Conn, errMsg string) {
	s.sendWSMessage(conn, wsMsgError, map[string]string{"message": errMsg})
}
