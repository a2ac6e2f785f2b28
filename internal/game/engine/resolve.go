package engine

// Resolve 按固定优先级判定结果。
// 分数相等先判 tie，所以最后一个 blackjack 分支在正常输入下走不到。
func Resolve(playerScore, dealerScore, playerHandSize int) Result {
	switch {
	case playerScore == dealerScore:
		return ResultTie
	case playerScore > 21:
		return ResultLoss
	case dealerScore > 21 || playerScore > dealerScore:
		return ResultWin
	case playerScore < dealerScore:
		return ResultLoss
	case playerScore == 21 && playerHandSize == 2:
		return ResultBlackjack
	}
	return ResultNone
}

// instantResult 只用于新发的牌：玩家 natural 且庄家不是 21 直接 blackjack，
// 否则庄家 natural 直接 loss。双方都是 21 时继续游戏。
func instantResult(playerScore, playerCards, dealerScore, dealerCards int) Result {
	if playerScore == 21 && playerCards == 2 && dealerScore != 21 {
		return ResultBlackjack
	}
	if dealerScore == 21 && dealerCards == 2 {
		return ResultLoss
	}
	return ResultNone
}
