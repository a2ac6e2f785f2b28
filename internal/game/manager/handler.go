package manager

import (
	"errors"
	"net/http"
	"strconv"

	"BlockJack/internal/game/engine"
	"BlockJack/internal/middleware"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

const (
	defaultScoreboardLimit = 20
	maxScoreboardLimit     = 100
)

type Handler struct {
	mgr *GameManager
}

func NewHandler(mgr *GameManager) *Handler {
	return &Handler{mgr: mgr}
}

// ActionRequest action 为 hit / stand，其它值不推进牌局
type ActionRequest struct {
	Action string `json:"action" form:"action"`
}

func player(c *gin.Context) string {
	return c.GetString(middleware.ContextKey)
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, engine.ErrIncompleteSnapshot) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "hint": "POST /blackjack/reset to start a new round"})
		return
	}
	log.Error("blackjack request failed", "player", player(c), "path", c.FullPath(), "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// GET /blackjack
func (h *Handler) Show(c *gin.Context) {
	view, err := h.mgr.Play(c.Request.Context(), player(c), engine.ActionNone)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /blackjack body: {action}
func (h *Handler) Act(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.mgr.Play(c.Request.Context(), player(c), engine.Action(req.Action))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /blackjack/reset
func (h *Handler) Reset(c *gin.Context) {
	if err := h.mgr.Reset(c.Request.Context(), player(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /profile
func (h *Handler) Profile(c *gin.Context) {
	stats, err := h.mgr.Stats(c.Request.Context(), player(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "games": stats.Games()})
}

// GET /scoreboard?limit=N
func (h *Handler) Scoreboard(c *gin.Context) {
	limit := defaultScoreboardLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = min(n, maxScoreboardLimit)
	}
	list, err := h.mgr.Scoreboard(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": list})
}
