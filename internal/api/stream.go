package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mohamedkhairy/stock-analyst/internal/advisor"
	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/mohamedkhairy/stock-analyst/pkg/logger"
)

const streamWriteTimeout = 10 * time.Second

// Stream message types
const (
	StreamMessageAnalysis = "analysis"
	StreamMessageSummary  = "summary"
	StreamMessageError    = "error"
	StreamMessageDone     = "done"
)

// StreamMessage is one frame sent on /ws/analyze
type StreamMessage struct {
	Type    string      `json:"type"`
	Data    interface{} `json:"data,omitempty"`
	Code    int         `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// StreamHandler streams per-ticker analyses over a websocket as each
// ticker completes
type StreamHandler struct {
	advisor  *advisor.Advisor
	upgrader websocket.Upgrader
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(adv *advisor.Advisor) *StreamHandler {
	return &StreamHandler{
		advisor: adv,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Analyze handles GET /ws/analyze?session_id=...&indicators=SMA-20,VWAP
func (h *StreamHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sessionID := query.Get("session_id")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	var names []string
	for _, name := range strings.Split(query.Get("indicators"), ",") {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	ids, err := models.ParseIndicatorRequest(names)
	if err != nil {
		respondWithDomainError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", logger.ErrorField(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go readUntilClosed(conn, cancel)

	userID := logger.GetUserID(r.Context())
	var analyses []advisor.TickerAnalysis
	err = h.advisor.AnalyzeStream(ctx, advisor.AnalyzeRequest{
		SessionID:  sessionID,
		UserID:     userID,
		Indicators: ids,
	}, func(ta advisor.TickerAnalysis) error {
		analyses = append(analyses, ta)
		return writeFrame(conn, StreamMessage{Type: StreamMessageAnalysis, Data: ta})
	})
	if err != nil {
		if ctx.Err() == nil {
			writeFrame(conn, StreamMessage{Type: StreamMessageError, Code: statusFor(err), Message: err.Error()})
		}
		logger.Debug("Analysis stream ended early",
			logger.String("session_id", sessionID),
			logger.ErrorField(err),
		)
		closeStream(conn)
		return
	}

	writeFrame(conn, StreamMessage{Type: StreamMessageSummary, Data: advisor.Summary(analyses)})
	writeFrame(conn, StreamMessage{Type: StreamMessageDone})
	closeStream(conn)

	logger.Info("Streamed analysis",
		logger.String("session_id", sessionID),
		logger.String("user_id", userID),
		logger.Int("tickers", len(analyses)),
	)
}

func writeFrame(conn *websocket.Conn, msg StreamMessage) error {
	conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return conn.WriteJSON(msg)
}

func closeStream(conn *websocket.Conn) {
	conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readUntilClosed drains client frames and cancels the run once the peer goes away
func readUntilClosed(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Debug("WebSocket read error", logger.ErrorField(err))
			}
			return
		}
	}
}
