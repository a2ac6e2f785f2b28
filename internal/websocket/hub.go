package websocket

import (
	"sync"

	"github.com/charmbracelet/log"
)

type HubInterface interface {
	SendToPlayer(addr string, msg OutgoingMessage)
	BroadcastAll(msg OutgoingMessage)
	ClientByAddress(addr string) (*Client, bool)
	Close()
}

// Hub 每个玩家地址最多一个连接，新连接顶掉旧连接
type Hub struct {
	clients    map[string]*Client // address -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan OutgoingMessage
	sendOne    chan sendReq
	incoming   chan IncomingMessage
	OnIncoming func(IncomingMessage)
	quit       chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex
}

type sendReq struct {
	Address string
	Message OutgoingMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan OutgoingMessage),
		sendOne:    make(chan sendReq),
		incoming:   make(chan IncomingMessage),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	log.Info("hub started")

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[c.Address]; ok && old != c {
				close(old.Send)
			}
			h.clients[c.Address] = c
			log.Info("hub register", "address", c.Address, "clients", len(h.clients))
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			// 只注销当前登记的那个连接，被顶掉的旧连接已经关过 Send
			if cur, ok := h.clients[c.Address]; ok && cur == c {
				delete(h.clients, c.Address)
				close(c.Send)
				log.Info("hub unregister", "address", c.Address, "clients", len(h.clients))
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, c := range h.clients {
				c.trySend(msg)
			}
			h.mu.RUnlock()

		case req := <-h.sendOne:
			h.mu.RLock()
			if c, ok := h.clients[req.Address]; ok {
				c.trySend(req.Message)
			}
			h.mu.RUnlock()

		case req := <-h.incoming:
			// 交给游戏层；单独 goroutine，处理函数里可以直接 SendToPlayer
			if h.OnIncoming != nil {
				go h.OnIncoming(req)
			}

		case <-h.quit:
			h.mu.Lock()
			for addr, c := range h.clients {
				close(c.Send)
				delete(h.clients, addr)
			}
			h.mu.Unlock()
			log.Info("hub stopped")
			return
		}
	}
}

// BroadcastAll 推给所有在线玩家
func (h *Hub) BroadcastAll(msg OutgoingMessage) {
	select {
	case h.broadcast <- msg:
	case <-h.quit:
	}
}

// SendToPlayer 玩家不在线时直接丢弃
func (h *Hub) SendToPlayer(addr string, msg OutgoingMessage) {
	select {
	case h.sendOne <- sendReq{Address: addr, Message: msg}:
	case <-h.quit:
	}
}

func (h *Hub) ClientByAddress(addr string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[addr]
	return c, ok
}

func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
}

func (h *Hub) join(c *Client) {
	select {
	case h.register <- c:
	case <-h.quit:
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

func (h *Hub) deliver(msg IncomingMessage) {
	select {
	case h.incoming <- msg:
	case <-h.quit:
	}
}
