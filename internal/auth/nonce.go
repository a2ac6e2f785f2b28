package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// NonceTTL 登录签名必须在这段时间内完成
const NonceTTL = 5 * time.Minute

// NonceStore 一次性 nonce，防重放
type NonceStore interface {
	Put(ctx context.Context, nonce string, ttl time.Duration) error
	// Consume 存在则删除并返回 true
	Consume(ctx context.Context, nonce string) (bool, error)
}

func generateNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GET|POST /auth/nonce
func (h *Handler) IssueNonce(c *gin.Context) {
	nonce, err := generateNonce()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate nonce"})
		return
	}
	if err := h.nonces.Put(c.Request.Context(), nonce, NonceTTL); err != nil {
		log.Error("store nonce failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store nonce"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"nonce": nonce, "message": SignMessage(nonce)})
}

// ---------- Redis ----------

type redisNonces struct {
	rdb *redis.Client
}

func NewRedisNonceStore(rdb *redis.Client) NonceStore {
	return &redisNonces{rdb: rdb}
}

func nonceKey(nonce string) string {
	return fmt.Sprintf("auth:nonce:%s", nonce)
}

func (r *redisNonces) Put(ctx context.Context, nonce string, ttl time.Duration) error {
	return r.rdb.Set(ctx, nonceKey(nonce), 1, ttl).Err()
}

func (r *redisNonces) Consume(ctx context.Context, nonce string) (bool, error) {
	err := r.rdb.GetDel(ctx, nonceKey(nonce)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ---------- 内存 ----------

type memNonces struct {
	mu     sync.Mutex
	nonces map[string]time.Time // nonce -> 过期时间
}

func NewMemoryNonceStore() NonceStore {
	return &memNonces{nonces: make(map[string]time.Time)}
}

func (m *memNonces) Put(ctx context.Context, nonce string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nonces[nonce] = time.Now().Add(ttl)
	return nil
}

func (m *memNonces) Consume(ctx context.Context, nonce string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.nonces[nonce]
	delete(m.nonces, nonce)
	return ok && time.Now().Before(exp), nil
}
