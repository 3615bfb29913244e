package builder

import (
	"bytes"
	"errors"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/fundswap/internal/domain"
)

func key(tag byte) solana.PublicKey {
	var pk solana.PublicKey
	pk[0] = tag
	pk[31] = 0x5A
	return pk
}

func testTokens() domain.TokenTable {
	return domain.TokenTable{
		{ID: 0, Mint: solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"), PDAAccount: key(1), OraclePriceFeed: key(2), Decimals: 6, IsBaseAsset: true},
		{ID: 1, Mint: solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"), PDAAccount: key(3), OraclePriceFeed: key(4), Decimals: 9},
	}
}

func testRoute() *domain.RouteData {
	tokens := testTokens()
	accounts := domain.DefaultProgramAccounts()
	return &domain.RouteData{
		FromTokenID:   0,
		ToTokenID:     1,
		FromAmountRaw: 100_000_000,
		ToAmountRaw:   1_000_000_000,
		SwapAccounts: domain.SwapAccounts{
			Program:     accounts.Program,
			FundState:   key(9),
			Authority:   accounts.Authority,
			Source:      tokens[0].PDAAccount,
			Destination: tokens[1].PDAAccount,
			Fees: domain.FeeAccounts{
				SwapFeeWallet: accounts.SwapFeeWallet,
				HostWallet:    key(10),
				ManagerWallet: key(11),
				FeeTokenMint:  tokens[1].Mint,
			},
			TokenInfo: accounts.TokenInfo,
			CurveData: accounts.CurveData,
			RemainingAccounts: []*solana.AccountMeta{
				solana.Meta(tokens[0].OraclePriceFeed),
				solana.Meta(tokens[1].OraclePriceFeed),
			},
		},
	}
}

func TestMinimumReceived(t *testing.T) {
	tests := []struct {
		name     string
		quoted   uint64
		bps      uint16
		expected uint64
		err      error
	}{
		{name: "default half percent", quoted: 10_000, bps: 50, expected: 9_950},
		{name: "floors", quoted: 999, bps: 50, expected: 994},
		{name: "zero slippage", quoted: 12_345, bps: 0, expected: 12_345},
		{name: "full slippage", quoted: 12_345, bps: 10_000, expected: 0},
		{name: "too much slippage", quoted: 1, bps: 10_001, err: ErrInvalidSlippage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MinimumReceived(tt.quoted, tt.bps)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected error %v, got %v", tt.err, err)
			}
			if got != tt.expected {
				t.Errorf("MinimumReceived(%d, %d) = %d, want %d", tt.quoted, tt.bps, got, tt.expected)
			}
		})
	}
}

func TestGetATAAddressMatchesAssociatedTokenProgram(t *testing.T) {
	wallet := key(20)
	mint := testTokens()[1].Mint

	want, _, err := solana.FindAssociatedTokenAddress(wallet, mint)
	if err != nil {
		t.Fatalf("FindAssociatedTokenAddress: %v", err)
	}
	got, err := GetATAAddress(wallet, mint)
	if err != nil {
		t.Fatalf("GetATAAddress: %v", err)
	}
	if !got.Equals(want) {
		t.Errorf("GetATAAddress = %s, want %s", got, want)
	}

	cached, err := GetATAAddress(wallet, mint)
	if err != nil || !cached.Equals(want) {
		t.Errorf("cached lookup = %s, %v", cached, err)
	}
}

func TestBuildSwapParams(t *testing.T) {
	route := testRoute()
	user := UserAccounts{Wallet: key(20), FromTokenAccount: key(21)}

	params, err := BuildSwapParams(route, testTokens(), user, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if params.Args.AmountIn != 100_000_000 || params.Args.MinimumAmountOut != 995_000_000 {
		t.Errorf("args = %+v", params.Args)
	}
	if !params.MinimumReceived.Equal(decimal.RequireFromString("0.995")) {
		t.Errorf("MinimumReceived = %s, want 0.995", params.MinimumReceived)
	}
	if !params.Accounts.BuyerFromTokenAccount.Equals(key(21)) {
		t.Error("explicit user source account must be kept")
	}

	userTo, _, _ := solana.FindAssociatedTokenAddress(key(20), testTokens()[1].Mint)
	if !params.Accounts.BuyerToTokenAccount.Equals(userTo) {
		t.Error("missing user destination account should be derived")
	}
	hostFee, _, _ := solana.FindAssociatedTokenAddress(key(10), testTokens()[1].Mint)
	if !params.Accounts.HostFeeAccount.Equals(hostFee) {
		t.Error("host fee account is the host ATA of the destination mint")
	}
}

func TestBuildSwapParamsRejects(t *testing.T) {
	user := UserAccounts{Wallet: key(20)}

	if _, err := BuildSwapParams(&domain.RouteData{}, testTokens(), user, 50); !errors.Is(err, ErrNoRoute) {
		t.Errorf("expected ErrNoRoute, got %v", err)
	}
	if _, err := BuildSwapParams(testRoute(), testTokens(), UserAccounts{}, 50); !errors.Is(err, ErrInvalidUser) {
		t.Errorf("expected ErrInvalidUser, got %v", err)
	}
	if _, err := BuildSwapParams(testRoute(), testTokens(), user, 20_000); !errors.Is(err, ErrInvalidSlippage) {
		t.Errorf("expected ErrInvalidSlippage, got %v", err)
	}
}

func TestSwapInstructionEncoding(t *testing.T) {
	params, err := BuildSwapParams(testRoute(), testTokens(), UserAccounts{Wallet: key(20)}, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ix, err := params.Instruction()
	if err != nil {
		t.Fatalf("Instruction: %v", err)
	}
	if !ix.ProgramID().Equals(domain.DefaultProgramAccounts().Program) {
		t.Errorf("program = %s", ix.ProgramID())
	}

	data, err := ix.Data()
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if len(data) != 8+4*8 {
		t.Fatalf("data length = %d, want 40", len(data))
	}
	if !bytes.Equal(data[:8], bin.SighashInstruction("swapFundTokens")) {
		t.Error("data must start with the instruction discriminator")
	}

	var args SwapFundTokensArgs
	if err := bin.UnmarshalBorsh(&args, data[8:]); err != nil {
		t.Fatalf("UnmarshalBorsh: %v", err)
	}
	if args != params.Args {
		t.Errorf("decoded args = %+v, want %+v", args, params.Args)
	}

	metas := ix.Accounts()
	if len(metas) != 13+2 {
		t.Fatalf("expected 15 accounts, got %d", len(metas))
	}
	if !metas[0].IsSigner || !metas[0].PublicKey.Equals(key(20)) {
		t.Error("buyer must be the first account and sign")
	}
	for _, m := range metas[13:] {
		if m.IsWritable || m.IsSigner {
			t.Error("oracle accounts are read-only")
		}
	}
}
