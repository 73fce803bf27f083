package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// maxToneRequest bounds one incoming websocket message.
const maxToneRequest = 512

type toneRequest struct {
	Symbol  string `json:"symbol"`
	Periods *int   `json:"periods,omitempty"`
}

// handleWebSocket answers each {"symbol": "5"} message with that key's tone
// frame, or {"error": ...}, until the client disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxToneRequest)

	log := s.log.With(zap.String("request_id", requestID(r.Context())))
	log.Debug("websocket connected", zap.String("remote", r.RemoteAddr))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("websocket read ended", zap.Error(err))
			}
			return
		}

		var reply any
		var req toneRequest
		if err := json.Unmarshal(data, &req); err != nil {
			reply = errorResponse{Error: "invalid message: " + err.Error()}
		} else {
			periods := s.cfg.Display.Periods
			if req.Periods != nil && *req.Periods >= 0 {
				periods = *req.Periods
			}
			if resp, err := s.tone(req.Symbol, periods); err != nil {
				reply = errorResponse{Error: err.Error()}
			} else {
				reply = resp
			}
		}

		if err := conn.WriteJSON(reply); err != nil {
			log.Debug("websocket write failed", zap.Error(err))
			return
		}
	}
}
