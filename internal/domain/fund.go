package domain

import (
	"github.com/gagliardetto/solana-go"
)

// ThresholdScale is the scale of RebalanceThreshold and LpOffsetThreshold.
const ThresholdScale uint64 = 10_000

// ToleranceScale is the scale of the product of both thresholds.
const ToleranceScale = ThresholdScale * ThresholdScale

// FundState is a decoded snapshot of one managed portfolio. The slot arrays
// (CurrentCompToken, CurrentCompAmount, TargetWeight) are parallel.
type FundState struct {
	Address            solana.PublicKey `json:"address"`
	Manager            solana.PublicKey `json:"manager"`
	HostWallet         solana.PublicKey `json:"hostWallet"`
	NumOfTokens        int              `json:"numOfTokens"`
	CurrentCompToken   []TokenID        `json:"currentCompToken"`
	CurrentCompAmount  []uint64         `json:"currentCompAmount"`
	TargetWeight       []uint64         `json:"targetWeight"`
	WeightSum          uint64           `json:"weightSum"`
	RebalanceThreshold uint64           `json:"rebalanceThreshold"`
	LpOffsetThreshold  uint64           `json:"lpOffsetThreshold"`
}

// Slots is the number of usable holding slots.
func (f *FundState) Slots() int {
	n := f.NumOfTokens
	n = min(n, len(f.CurrentCompToken), len(f.CurrentCompAmount), len(f.TargetWeight))
	return max(n, 0)
}

// SlotOf returns the holding slot of a token, or -1 when the fund does not hold it.
func (f *FundState) SlotOf(id TokenID) int {
	for i := 0; i < f.Slots(); i++ {
		if f.CurrentCompToken[i] == id {
			return i
		}
	}
	return -1
}

func (f *FundState) Holds(id TokenID) bool {
	return f.SlotOf(id) >= 0
}

// ToleranceNumerator is RebalanceThreshold × LpOffsetThreshold. Divided by
// ToleranceScale it gives the half-width of the band around a target weight.
func (f *FundState) ToleranceNumerator() uint64 {
	if f.RebalanceThreshold != 0 && f.LpOffsetThreshold > ^uint64(0)/f.RebalanceThreshold {
		return ^uint64(0)
	}
	return f.RebalanceThreshold * f.LpOffsetThreshold
}
