package handlers

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"cleanbot-backend/models"

	"github.com/gofiber/websocket/v2"
)

// 클라이언트 종류
const (
	ClientTypeWeb = "web"
)

type Client struct {
	Conn       *websocket.Conn
	ClientType string
}

// 클라이언트 관리자
type ClientManager struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan models.WebSocketMessage
	register   chan *Client
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
}

// NewClientManager - 클라이언트 관리자 생성
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan models.WebSocketMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn, 16),
	}
}

// 전역 클라이언트 관리자
var Manager = NewClientManager()

// 클라이언트 관리 시작
func (manager *ClientManager) Start() {
	log.Println("✅ ClientManager 시작")
	for {
		select {
		case client := <-manager.register:
			manager.mutex.Lock()
			manager.clients[client.Conn] = client
			manager.mutex.Unlock()
			log.Printf("클라이언트 등록: %s (%s)", client.ClientType, client.Conn.RemoteAddr())

		case conn := <-manager.unregister:
			manager.remove(conn)

		case message := <-manager.broadcast:
			for _, conn := range manager.handleBroadcast(message) {
				manager.remove(conn)
			}
		}
	}
}

func (manager *ClientManager) remove(conn *websocket.Conn) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	if client, ok := manager.clients[conn]; ok {
		delete(manager.clients, conn)
		_ = conn.Close()
		log.Printf("클라이언트 해제: %s (%s)", client.ClientType, conn.RemoteAddr())
	}
}

// handleBroadcast - 웹 클라이언트에 전송, 실패한 연결 목록 반환
func (manager *ClientManager) handleBroadcast(message models.WebSocketMessage) []*websocket.Conn {
	if !isOutbound(message.Type) {
		return nil
	}

	// 한 번만 직렬화
	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ JSON 마샬링 오류: %v", err)
		return nil
	}

	manager.mutex.RLock()
	defer manager.mutex.RUnlock()

	var failed []*websocket.Conn
	for conn, client := range manager.clients {
		if client.ClientType != ClientTypeWeb {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("전송 실패 (%s): %v", client.ClientType, err)
			failed = append(failed, conn)
		}
	}
	return failed
}

// isOutbound - 서버 → 웹 메시지 타입인지
func isOutbound(msgType string) bool {
	switch msgType {
	case models.MessageTypeTick,
		models.MessageTypeStatus,
		models.MessageTypePathUpdate,
		models.MessageTypeMapUpdate,
		models.MessageTypeRunComplete,
		models.MessageTypeCommentary,
		models.MessageTypeSystemInfo:
		return true
	}
	return false
}

// BroadcastMessage - 비차단 브로드캐스트. 채널이 차면 버린다.
func (manager *ClientManager) BroadcastMessage(msg models.WebSocketMessage) {
	select {
	case manager.broadcast <- msg:
	default:
		log.Printf("⚠️ broadcast 채널 가득 참, 메시지 버림: %s", msg.Type)
	}
}

func (manager *ClientManager) GetClientCount() map[string]int {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()

	count := map[string]int{
		ClientTypeWeb: 0,
	}
	for _, client := range manager.clients {
		count[client.ClientType]++
	}
	return count
}

// Web 클라이언트 WebSocket Handler (틱 수신 + 명령 전송)
func HandleWebClientWebSocket(c *websocket.Conn) {
	client := &Client{
		Conn:       c,
		ClientType: ClientTypeWeb,
	}

	// 등록 전에 보내야 브로드캐스트와 쓰기가 겹치지 않는다
	running := Sim != nil && Sim.IsRunning()
	welcomeMsg := models.NewMessage(models.MessageTypeSystemInfo, models.SystemInfo{
		ConnectedClients: Manager.GetClientCount()[ClientTypeWeb] + 1,
		Running:          running,
		ServerTime:       time.Now(),
	})
	_ = c.WriteJSON(welcomeMsg)

	// 현재 상태 스냅샷
	if Sim != nil {
		_ = c.WriteJSON(models.NewMessage(models.MessageTypeStatus, Sim.GetStatus()))
	}

	Manager.register <- client

	defer func() {
		Manager.unregister <- c
	}()

	for {
		var msg models.WebSocketMessage
		if err := c.ReadJSON(&msg); err != nil {
			log.Printf("웹 메시지 읽기 오류: %v", err)
			break
		}

		switch msg.Type {
		case models.MessageTypeCommand:
			cmd, err := decodeCommand(msg.Data)
			if err != nil {
				log.Printf("⚠️ 잘못된 명령 형식: %v", err)
				continue
			}
			if err := ExecuteCommand(cmd); err != nil {
				log.Printf("⚠️ 명령 실패 (%s): %v", cmd.Action, err)
			}

		default:
			log.Printf("알 수 없는 메시지 타입: %s", msg.Type)
		}
	}
}

// decodeCommand - map 으로 디코딩된 Data 를 CommandData 로 변환
func decodeCommand(data interface{}) (models.CommandData, error) {
	var cmd models.CommandData
	raw, err := json.Marshal(data)
	if err != nil {
		return cmd, err
	}
	err = json.Unmarshal(raw, &cmd)
	return cmd, err
}
