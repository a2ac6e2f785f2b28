package main

import (
	"context"
	"net/http"

	"BlockJack/config"
	"BlockJack/internal/auth"
	"BlockJack/internal/game/dealer"
	"BlockJack/internal/game/engine"
	"BlockJack/internal/game/manager"
	"BlockJack/internal/middleware"
	"BlockJack/internal/roundstore"
	"BlockJack/internal/scoreboard"
	"BlockJack/internal/storage"
	"BlockJack/internal/utils"
	"BlockJack/internal/websocket"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal("load config failed", "err", err)
	}
	utils.Init(config.C.Log.Level)

	//-------------------------------------------------------
	// 1. 初始化 Redis（快照 + nonce）
	//-------------------------------------------------------
	if err := storage.InitRedis(
		config.C.Redis.Addr,
		config.C.Redis.Password,
		config.C.Redis.DB,
	); err != nil {
		log.Fatal("redis init failed", "err", err)
	}
	defer storage.Close()

	//-------------------------------------------------------
	// 2. 战绩：配置了 DSN 就用 Postgres，否则内存
	//-------------------------------------------------------
	var stats scoreboard.Repo
	if dsn := config.C.Database.DSN; dsn != "" {
		if err := storage.InitPostgres(dsn); err != nil {
			log.Fatal("postgres init failed", "err", err)
		}
		if err := storage.Migrate(context.Background(), storage.DB); err != nil {
			log.Fatal("postgres migrate failed", "err", err)
		}
		stats = scoreboard.NewPostgresRepo(storage.DB)
	} else {
		log.Warn("database.dsn is empty, stats are kept in memory")
		stats = scoreboard.NewMemoryRepo()
	}

	//-------------------------------------------------------
	// 3. Hub + GameManager
	//-------------------------------------------------------
	hub := websocket.NewHub()

	eng := engine.NewEngine(dealer.NewDealer(config.C.Round.Seed))
	rounds := roundstore.NewRedisStore(storage.Rdb, config.C.Round.TTL)
	gameMgr := manager.NewGameManager(eng, rounds, stats, hub)

	// 玩家通过 WebSocket 发 hit / stand / deal / reset
	hub.OnIncoming = gameMgr.HandlePlayerMessage
	go hub.Run()
	defer hub.Close()

	//-------------------------------------------------------
	// 4. Gin + CORS
	//-------------------------------------------------------
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	secret := []byte(config.C.JWT.Secret)

	authGroup := r.Group("/auth")
	{
		ah := auth.NewHandler(auth.NewRedisNonceStore(storage.Rdb), secret, config.C.JWT.TTL)
		authGroup.GET("/nonce", ah.IssueNonce)
		authGroup.POST("/nonce", ah.IssueNonce)
		authGroup.POST("/login", ah.Login)
	}

	//-------------------------------------------------------
	// 5. 需要登录的路由
	//-------------------------------------------------------
	api := r.Group("/", middleware.JwtAuthMiddleware(secret))
	{
		api.GET("/ws", websocket.ServeWS(hub))

		gh := manager.NewHandler(gameMgr)
		api.GET("/blackjack", gh.Show)
		api.POST("/blackjack", gh.Act)
		api.POST("/blackjack/reset", gh.Reset)
		api.GET("/profile", gh.Profile)
		api.GET("/scoreboard", gh.Scoreboard)
	}

	//-------------------------------------------------------
	// 6. 启动服务器
	//-------------------------------------------------------
	log.Info("server running", "port", config.C.Server.Port)
	if err := r.Run(config.C.Server.Port); err != nil {
		log.Error("server stopped", "err", err)
	}
}
