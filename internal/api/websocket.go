package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/athlete-guard/internal/metrics"
	"github.com/yourusername/athlete-guard/internal/models"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// handleChatSocket handles GET /ws/chat. Each ChatRequest frame gets exactly
// one ChatResponse or error frame back.
func (s *Server) handleChatSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	metrics.WebSocketOpened()
	defer metrics.WebSocketClosed()

	conn.SetReadLimit(maxBodyBytes)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(conn, done)

	for {
		var req models.ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !isDecodeError(err) {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.logger.WithError(err).Debug("WebSocket read failed")
				}
				return
			}
			if err := s.writeFrame(conn, models.ErrorResponse{Error: fmt.Sprintf("invalid message: %v", err)}); err != nil {
				return
			}
			continue
		}
		metrics.RecordWebSocketMessage()

		var frame interface{}
		resp, err := s.chat.Respond(r.Context(), &req)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"status": chatErrorStatus(err),
				"error":  err.Error(),
			}).Warn("WebSocket chat failed")
			frame = models.ErrorResponse{Error: err.Error()}
		} else {
			frame = resp
		}

		if err := s.writeFrame(conn, frame); err != nil {
			return
		}
	}
}

func (s *Server) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeFrame(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(v)
}

// isDecodeError reports whether a read failed on a malformed frame rather
// than on the connection.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}
