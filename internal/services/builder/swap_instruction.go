package builder

import (
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/fundswap/internal/common"
	"github.com/hxuan190/fundswap/internal/domain"
	"github.com/hxuan190/fundswap/internal/services/router"
)

var (
	ErrNoRoute         = errors.New("route has no liquidity")
	ErrInvalidSlippage = errors.New("slippage must be at most 10000 bps")
	ErrInvalidUser     = errors.New("invalid user wallet")
)

var swapFundTokensDiscriminator = bin.SighashInstruction("swapFundTokens")

// SwapFundTokensArgs is the borsh payload following the instruction
// discriminator.
type SwapFundTokensArgs struct {
	FromTokenID      uint64 `json:"fromTokenId"`
	ToTokenID        uint64 `json:"toTokenId"`
	AmountIn         uint64 `json:"amountIn"`
	MinimumAmountOut uint64 `json:"minimumAmountOut"`
}

// UserAccounts identifies the trader. Zero token accounts are derived as the
// user's associated token accounts.
type UserAccounts struct {
	Wallet           solana.PublicKey
	FromTokenAccount solana.PublicKey
	ToTokenAccount   solana.PublicKey
}

// SwapAccounts is the fixed account list of the swap instruction.
type SwapAccounts struct {
	Buyer                 solana.PublicKey `json:"buyer"`
	FundState             solana.PublicKey `json:"fundState"`
	PDAAccount            solana.PublicKey `json:"pdaAccount"`
	PDAFromTokenAccount   solana.PublicKey `json:"pdaFromTokenAccount"`
	BuyerFromTokenAccount solana.PublicKey `json:"buyerFromTokenAccount"`
	PDAToTokenAccount     solana.PublicKey `json:"pdaToTokenAccount"`
	BuyerToTokenAccount   solana.PublicKey `json:"buyerToTokenAccount"`
	SwapFeeAccount        solana.PublicKey `json:"swapFeeAccount"`
	HostFeeAccount        solana.PublicKey `json:"hostFeeAccount"`
	ManagerFeeAccount     solana.PublicKey `json:"managerFeeAccount"`
	TokenInfo             solana.PublicKey `json:"tokenInfo"`
	CurveData             solana.PublicKey `json:"curveData"`
	TokenProgram          solana.PublicKey `json:"tokenProgram"`
}

type SwapParams struct {
	Program           solana.PublicKey      `json:"program"`
	Args              SwapFundTokensArgs    `json:"args"`
	SlippageBps       uint16                `json:"slippageBps"`
	MinimumReceived   decimal.Decimal       `json:"minimumReceived"`
	Accounts          SwapAccounts          `json:"accounts"`
	RemainingAccounts []*solana.AccountMeta `json:"remainingAccounts"`
}

// MinimumReceived applies slippage to a quoted raw output, flooring.
func MinimumReceived(quoted uint64, slippageBps uint16) (uint64, error) {
	if uint64(slippageBps) > common.BpsDenominator {
		return 0, ErrInvalidSlippage
	}
	return router.MulDiv(quoted, common.BpsDenominator-uint64(slippageBps), common.BpsDenominator), nil
}

// BuildSwapParams turns a priced route into the arguments and accounts of a
// swap instruction for user.
func BuildSwapParams(route *domain.RouteData, tokens domain.TokenTable, user UserAccounts, slippageBps uint16) (*SwapParams, error) {
	if !route.Found() {
		return nil, ErrNoRoute
	}
	if user.Wallet.IsZero() {
		return nil, ErrInvalidUser
	}
	from, ok := tokens.Get(route.FromTokenID)
	if !ok {
		return nil, router.ErrUnknownToken
	}
	to, ok := tokens.Get(route.ToTokenID)
	if !ok {
		return nil, router.ErrUnknownToken
	}

	minOut, err := MinimumReceived(route.ToAmountRaw, slippageBps)
	if err != nil {
		return nil, err
	}

	userFrom, err := orATA(user.FromTokenAccount, user.Wallet, from.Mint)
	if err != nil {
		return nil, fmt.Errorf("derive user source account: %w", err)
	}
	userTo, err := orATA(user.ToTokenAccount, user.Wallet, to.Mint)
	if err != nil {
		return nil, fmt.Errorf("derive user destination account: %w", err)
	}

	sa := route.SwapAccounts
	feeMint := sa.Fees.FeeTokenMint
	swapFee, err := GetATAAddress(sa.Fees.SwapFeeWallet, feeMint)
	if err != nil {
		return nil, fmt.Errorf("derive swap fee account: %w", err)
	}
	hostFee, err := GetATAAddress(sa.Fees.HostWallet, feeMint)
	if err != nil {
		return nil, fmt.Errorf("derive host fee account: %w", err)
	}
	managerFee, err := GetATAAddress(sa.Fees.ManagerWallet, feeMint)
	if err != nil {
		return nil, fmt.Errorf("derive manager fee account: %w", err)
	}

	return &SwapParams{
		Program: sa.Program,
		Args: SwapFundTokensArgs{
			FromTokenID:      uint64(route.FromTokenID),
			ToTokenID:        uint64(route.ToTokenID),
			AmountIn:         route.FromAmountRaw,
			MinimumAmountOut: minOut,
		},
		SlippageBps:     slippageBps,
		MinimumReceived: router.FromRawAmount(minOut, to.Decimals),
		Accounts: SwapAccounts{
			Buyer:                 user.Wallet,
			FundState:             sa.FundState,
			PDAAccount:            sa.Authority,
			PDAFromTokenAccount:   sa.Source,
			BuyerFromTokenAccount: userFrom,
			PDAToTokenAccount:     sa.Destination,
			BuyerToTokenAccount:   userTo,
			SwapFeeAccount:        swapFee,
			HostFeeAccount:        hostFee,
			ManagerFeeAccount:     managerFee,
			TokenInfo:             sa.TokenInfo,
			CurveData:             sa.CurveData,
			TokenProgram:          common.TokenProgramID,
		},
		RemainingAccounts: sa.RemainingAccounts,
	}, nil
}

func orATA(account, wallet, mint solana.PublicKey) (solana.PublicKey, error) {
	if !account.IsZero() {
		return account, nil
	}
	return GetATAAddress(wallet, mint)
}

// AccountMetas lists the instruction accounts in program order followed by
// the oracle accounts.
func (p *SwapParams) AccountMetas() solana.AccountMetaSlice {
	a := p.Accounts
	metas := solana.AccountMetaSlice{
		solana.Meta(a.Buyer).SIGNER(),
		solana.Meta(a.FundState).WRITE(),
		solana.Meta(a.PDAAccount),
		solana.Meta(a.PDAFromTokenAccount).WRITE(),
		solana.Meta(a.BuyerFromTokenAccount).WRITE(),
		solana.Meta(a.PDAToTokenAccount).WRITE(),
		solana.Meta(a.BuyerToTokenAccount).WRITE(),
		solana.Meta(a.SwapFeeAccount).WRITE(),
		solana.Meta(a.HostFeeAccount).WRITE(),
		solana.Meta(a.ManagerFeeAccount).WRITE(),
		solana.Meta(a.TokenInfo),
		solana.Meta(a.CurveData),
		solana.Meta(a.TokenProgram),
	}
	for _, acc := range p.RemainingAccounts {
		metas.Append(solana.NewAccountMeta(acc.PublicKey, acc.IsWritable, acc.IsSigner))
	}
	return metas
}

// Data is the discriminator followed by the borsh encoded arguments.
func (p *SwapParams) Data() ([]byte, error) {
	args, err := bin.MarshalBorsh(p.Args)
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, swapFundTokensDiscriminator...), args...), nil
}

func (p *SwapParams) Instruction() (solana.Instruction, error) {
	data, err := p.Data()
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(p.Program, p.AccountMetas(), data), nil
}
