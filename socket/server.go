package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes and returns a new Socket.IO server.
// Clients join one room per conversation; message dispatch broadcasts
// "newMessage" into the conversation room.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, data map[string]string) {
		conversationID := data["conversationId"]
		if conversationID == "" {
			log.Println("❌ Invalid conversationId in join request")
			return
		}
		log.Printf("👥 Socket %s joined conversation %s\n", c.ID(), conversationID)
		c.Join(conversationID)
	})

	server.OnEvent("/", "leave", func(c socketio.Conn, data map[string]string) {
		conversationID := data["conversationId"]
		if conversationID == "" {
			return
		}
		log.Printf("👋 Socket %s left conversation %s\n", c.ID(), conversationID)
		c.Leave(conversationID)
	})

	// Client-side relay for messages that bypass the REST endpoint
	server.OnEvent("/", "sendMessage", func(c socketio.Conn, message map[string]interface{}) {
		conversationID, _ := message["conversationId"].(string)
		if conversationID == "" {
			log.Println("❌ Invalid conversationId in sendMessage")
			return
		}
		log.Printf("📩 New message for conversation %s\n", conversationID)
		server.BroadcastToRoom("/", conversationID, "newMessage", message)
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("⚠️ Socket error:", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return server
}
