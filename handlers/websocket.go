package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/Albumate/Albumate-Back/logger"
	"github.com/Albumate/Albumate-Back/models"
	"github.com/Albumate/Albumate-Back/push"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocket keeps a socket open for live notifications. The client may send "ping"
// and gets "pong" back, anything else is ignored.
func WebSocket(c *gin.Context, user *models.User) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Debug("websocket upgrade", logger.ErrorField(err))
		return
	}
	defer conn.Close()

	// Setup client
	var writeMutex sync.Mutex
	isConnected := true
	write := func(messageType int, data []byte) bool {
		writeMutex.Lock()
		defer writeMutex.Unlock()
		if !isConnected {
			return false
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(messageType, data); err != nil {
			logger.Debug("websocket write", logger.Uint64("user", user.ID), logger.ErrorField(err))
			isConnected = false
			return false
		}
		return true
	}
	client := push.NewClient(func(data []byte) bool {
		return write(websocket.TextMessage, data)
	})
	push.Register(user.ID, client)
	defer push.Unregister(user.ID, client)

	// Main read cycle
	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			writeMutex.Lock()
			isConnected = false
			writeMutex.Unlock()
			break
		}
		if string(message) == "ping" {
			write(mt, []byte("pong"))
		}
	}
}
