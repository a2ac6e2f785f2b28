package websocket

import (
	"net/http"

	"BlockJack/internal/middleware"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// sendBuffer 每个连接待写出的消息数，一局最多几条 round 推送
const sendBuffer = 32

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws  (需带 JWT，middleware 注入 address)
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr := c.GetString(middleware.ContextKey)
		if addr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing player identity"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn("websocket upgrade failed", "address", addr, "err", err)
			return
		}

		client := &Client{
			Address: addr,
			Conn:    conn,
			Send:    make(chan OutgoingMessage, sendBuffer),
			Hub:     hub,
		}

		hub.join(client)
		log.Debug("websocket connected", "address", addr, "remote", c.ClientIP())

		go client.writePump()
		go client.readPump()
	}
}
