package websocket

// 推送给前端的事件
const (
	EventRound        = "round"         // 当前牌局视图
	EventRoundSettled = "round_settled" // 本局结算 + 最新战绩
	EventReset        = "reset"
	EventScoreboard   = "scoreboard" // 某个玩家战绩变化
	EventError        = "error"
)

type OutgoingMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// IncomingMessage Event 为 hit / stand / deal / reset
type IncomingMessage struct {
	From  string      `json:"from"`
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
