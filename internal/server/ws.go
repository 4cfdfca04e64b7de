package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait = 10 * time.Second

	// Time allowed to read the next pong from the peer.
	wsPongWait = 60 * time.Second

	// Must be less than wsPongWait.
	wsPingPeriod = (wsPongWait * 9) / 10
)

type wsReply struct {
	Response string `json:"response"`
	Kind     string `json:"kind"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	allowAll := false
	allowed := make(map[string]bool, len(s.cfg.CORSOrigins))
	for _, o := range s.cfg.CORSOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return allowAll || origin == "" || allowed[origin]
		},
	}
}

// handleChatWS answers each text frame as one chat message.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	log := s.log.With(zap.String("conn_id", id))
	log.Debug("websocket connected")

	conn.SetReadLimit(1 << 16)
	_ = conn.SetReadDeadline(time.Now().Add(s.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(conn, done)

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		a := s.ready.Answer(string(msg))
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(wsReply{Response: a.Text, Kind: string(a.Kind)}); err != nil {
			log.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
}

// pingLoop pings the peer until done is closed. WriteControl may run
// concurrently with the reply writes in handleChatWS.
func (s *Server) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(s.pingPeriod)
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
