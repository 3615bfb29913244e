package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/fundswap/internal/common"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// ProgramAccounts is the fixed addressing of the fund program deployment.
type ProgramAccounts struct {
	Program       solana.PublicKey `json:"program"`
	Authority     solana.PublicKey `json:"authority"`
	TokenInfo     solana.PublicKey `json:"tokenInfo"`
	CurveData     solana.PublicKey `json:"curveData"`
	SwapFeeWallet solana.PublicKey `json:"swapFeeWallet"`
}

func DefaultProgramAccounts() ProgramAccounts {
	return ProgramAccounts{
		Program:       common.FundsProgramID,
		Authority:     common.FundsProgramPDA,
		TokenInfo:     common.TokenInfoAddress,
		CurveData:     common.CurveDataAddress,
		SwapFeeWallet: common.SwapFeeAccount,
	}
}

// WithDefaults fills zero addresses from the default deployment.
func (a ProgramAccounts) WithDefaults() ProgramAccounts {
	def := DefaultProgramAccounts()
	if a.Program.IsZero() {
		a.Program = def.Program
	}
	if a.Authority.IsZero() {
		a.Authority = def.Authority
	}
	if a.TokenInfo.IsZero() {
		a.TokenInfo = def.TokenInfo
	}
	if a.CurveData.IsZero() {
		a.CurveData = def.CurveData
	}
	if a.SwapFeeWallet.IsZero() {
		a.SwapFeeWallet = def.SwapFeeWallet
	}
	return a
}

// Snapshot is one internally consistent refresh of tokens, curves, funds and
// prices. The quoting engine treats it as immutable.
type Snapshot struct {
	Slot      uint64          `json:"slot"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Accounts  ProgramAccounts `json:"accounts"`
	Tokens    TokenTable      `json:"tokens"`
	Curves    CurveTable      `json:"curves"`
	Funds     []FundState     `json:"funds"`
	Prices    PriceTable      `json:"prices"`
}

// Validate checks the structural invariants the quoting engine relies on. It
// does not reject funds that hold unknown tokens; those funds are simply
// ineligible for routing.
func (s *Snapshot) Validate() error {
	for i := range s.Tokens {
		if s.Tokens[i].ID != TokenID(i) {
			return fmt.Errorf("%w: token at index %d has id %d", ErrInvalidSnapshot, i, s.Tokens[i].ID)
		}
		if s.Tokens[i].Decimals > MaxDecimals {
			return fmt.Errorf("%w: token %d has %d decimals", ErrInvalidSnapshot, i, s.Tokens[i].Decimals)
		}
	}
	seen := make(map[solana.PublicKey]struct{}, len(s.Funds))
	for i := range s.Funds {
		f := &s.Funds[i]
		if f.NumOfTokens < 0 || f.NumOfTokens > len(f.CurrentCompToken) ||
			f.NumOfTokens > len(f.CurrentCompAmount) || f.NumOfTokens > len(f.TargetWeight) {
			return fmt.Errorf("%w: fund %s declares %d tokens", ErrInvalidSnapshot, f.Address, f.NumOfTokens)
		}
		if _, dup := seen[f.Address]; dup {
			return fmt.Errorf("%w: duplicate fund %s", ErrInvalidSnapshot, f.Address)
		}
		seen[f.Address] = struct{}{}
	}
	return nil
}

// MaxDecimals keeps 10^decimals inside uint64.
const MaxDecimals = 19

func (s *Snapshot) FindFund(address solana.PublicKey) (*FundState, bool) {
	for i := range s.Funds {
		if s.Funds[i].Address.Equals(address) {
			return &s.Funds[i], true
		}
	}
	return nil, false
}

// AccountsForUpdate lists the accounts an external fetcher has to refresh:
// the curve data account, every oracle feed in token order, then every fund.
func (s *Snapshot) AccountsForUpdate() []solana.PublicKey {
	out := make([]solana.PublicKey, 0, 1+len(s.Tokens)+len(s.Funds))
	out = append(out, s.Accounts.WithDefaults().CurveData)
	for i := range s.Tokens {
		out = append(out, s.Tokens[i].OraclePriceFeed)
	}
	for i := range s.Funds {
		out = append(out, s.Funds[i].Address)
	}
	return out
}
