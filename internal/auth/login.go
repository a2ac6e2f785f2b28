package auth

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type LoginRequest struct {
	Address   string `json:"address" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	Nonce     string `json:"nonce" binding:"required"`
}

type Handler struct {
	nonces   NonceStore
	secret   []byte
	tokenTTL time.Duration
}

// 工厂方法：创建 handler
func NewHandler(nonces NonceStore, secret []byte, tokenTTL time.Duration) *Handler {
	return &Handler{nonces: nonces, secret: secret, tokenTTL: tokenTTL}
}

var ErrBadSignature = errors.New("bad signature")

// SignMessage 钱包需要 personal_sign 的原文
func SignMessage(nonce string) string {
	return "Sign this message to play BlockJack. Nonce: " + nonce
}

// RecoverAddress 按 personal_sign（EIP-191）规则恢复签名者地址
func RecoverAddress(msg, signature string) (string, error) {
	prefix := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(msg), msg)
	hash := crypto.Keccak256Hash([]byte(prefix))

	sig := strings.TrimPrefix(signature, "0x")
	sigBytes, err := hex.DecodeString(sig)
	if err != nil || len(sigBytes) != crypto.SignatureLength {
		return "", ErrBadSignature
	}
	// 修正 V 值（MetaMask 给 27/28）
	if sigBytes[64] >= 27 {
		sigBytes[64] -= 27
	}

	pubKey, err := crypto.SigToPub(hash.Bytes(), sigBytes)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	return crypto.PubkeyToAddress(*pubKey).Hex(), nil
}

// IssueToken sub 统一小写，作为玩家身份
func IssueToken(secret []byte, address string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strings.ToLower(address),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	// 只允许用一次
	ok, err := h.nonces.Consume(c.Request.Context(), req.Nonce)
	if err != nil {
		log.Error("consume nonce failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "nonce store unavailable"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid nonce"})
		return
	}

	recovered, err := RecoverAddress(SignMessage(req.Nonce), req.Signature)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "signature verify failed"})
		return
	}
	if !strings.EqualFold(recovered, req.Address) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "signature mismatch"})
		return
	}

	jwtStr, err := IssueToken(h.secret, recovered, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt generation failed"})
		return
	}

	log.Info("player logged in", "address", strings.ToLower(recovered))
	c.JSON(http.StatusOK, gin.H{"jwt": jwtStr})
}
