package domain

import (
	"github.com/gagliardetto/solana-go"
)

// Quote is a route together with the snapshot it was priced on.
type Quote struct {
	InputMint      solana.PublicKey `json:"inputMint"`
	OutputMint     solana.PublicKey `json:"outputMint"`
	Route          RouteData        `json:"route"`
	OutputDecimals uint8            `json:"outputDecimals"`
	FundsEvaluated int              `json:"fundsEvaluated"`
	SnapshotSlot   uint64           `json:"snapshotSlot"`
}

func (q *Quote) Found() bool {
	return q != nil && q.Route.Found()
}
