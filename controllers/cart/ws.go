package cartControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Black25dvp/silverlux/cart"
	"github.com/Black25dvp/silverlux/controllers"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// CartWebSocketHandler streams the caller's cart snapshot: once on connect,
// then after every change. The stream ends when the session is torn down
// (the last message is an empty cart) or the client goes away.
func CartWebSocketHandler(carts *cart.Registry, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := controllers.CurrentUser(c)
		s, ok := session(c, carts)
		if !ok {
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.WithError(err).Warn("❌ cart websocket upgrade failed")
			return
		}
		defer conn.Close()

		updates, stop := carts.Watch(userID)
		defer stop()

		// reader: handles pongs and notices the client closing
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			conn.SetReadLimit(512)
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(pongWait))
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		send := func(snap cart.Snapshot) bool {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			return conn.WriteJSON(snap) == nil
		}
		if !send(s.Snapshot()) {
			return
		}

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "signed out"),
						time.Now().Add(writeWait))
					return
				}
				if !send(snap) {
					return
				}
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			case <-closed:
				return
			case <-c.Request.Context().Done():
				return
			}
		}
	}
}
