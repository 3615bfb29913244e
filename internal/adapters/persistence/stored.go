package persistence

import (
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/fundswap/internal/domain"
)

var ErrInvalidRecord = errors.New("invalid stored record")

type StoredAccounts struct {
	Program       string `json:"program,omitempty" yaml:"program,omitempty"`
	Authority     string `json:"authority,omitempty" yaml:"authority,omitempty"`
	TokenInfo     string `json:"tokenInfo,omitempty" yaml:"tokenInfo,omitempty"`
	CurveData     string `json:"curveData,omitempty" yaml:"curveData,omitempty"`
	SwapFeeWallet string `json:"swapFeeWallet,omitempty" yaml:"swapFeeWallet,omitempty"`
}

type StoredToken struct {
	ID                 uint32 `json:"id" yaml:"id"`
	Symbol             string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Name               string `json:"name,omitempty" yaml:"name,omitempty"`
	Mint               string `json:"mint" yaml:"mint"`
	PDAAccount         string `json:"pdaAccount" yaml:"pdaAccount"`
	OraclePriceFeed    string `json:"oraclePriceFeed" yaml:"oraclePriceFeed"`
	Decimals           uint8  `json:"decimals" yaml:"decimals"`
	ExternalPriceRefID string `json:"externalPriceRefId,omitempty" yaml:"externalPriceRefId,omitempty"`
	IsBaseAsset        bool   `json:"isBaseAsset,omitempty" yaml:"isBaseAsset,omitempty"`
}

type StoredHolding struct {
	TokenID      uint32 `json:"tokenId" yaml:"tokenId"`
	Amount       uint64 `json:"amount" yaml:"amount"`
	TargetWeight uint64 `json:"targetWeight" yaml:"targetWeight"`
}

type StoredFund struct {
	Address            string          `json:"address" yaml:"address"`
	Manager            string          `json:"manager" yaml:"manager"`
	HostWallet         string          `json:"hostWallet" yaml:"hostWallet"`
	Holdings           []StoredHolding `json:"holdings" yaml:"holdings"`
	WeightSum          uint64          `json:"weightSum" yaml:"weightSum"`
	RebalanceThreshold uint64          `json:"rebalanceThreshold" yaml:"rebalanceThreshold"`
	LpOffsetThreshold  uint64          `json:"lpOffsetThreshold" yaml:"lpOffsetThreshold"`
}

// StoredPrice carries a human decimal price, e.g. "2.0".
type StoredPrice struct {
	TokenID     uint32 `json:"tokenId" yaml:"tokenId"`
	Price       string `json:"price" yaml:"price"`
	PublishSlot uint64 `json:"publishSlot,omitempty" yaml:"publishSlot,omitempty"`
}

type StoredCurvePoint struct {
	AmountDelta uint64 `json:"amountDelta" yaml:"amountDelta"`
	Price       string `json:"price" yaml:"price"`
}

// StoredCurve lists up to ten points per direction; missing points are zero.
type StoredCurve struct {
	TokenID uint32             `json:"tokenId" yaml:"tokenId"`
	Buy     []StoredCurvePoint `json:"buy,omitempty" yaml:"buy,omitempty"`
	Sell    []StoredCurvePoint `json:"sell,omitempty" yaml:"sell,omitempty"`
}

type StoredMeta struct {
	Slot      uint64         `json:"slot"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Accounts  StoredAccounts `json:"accounts"`
	Tokens    int            `json:"tokens"`
	Funds     int            `json:"funds"`
}

func parseKey(field, value string) (solana.PublicKey, error) {
	if value == "" {
		return solana.PublicKey{}, nil
	}
	pk, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %s %q: %v", ErrInvalidRecord, field, value, err)
	}
	return pk, nil
}

func keyString(pk solana.PublicKey) string {
	if pk.IsZero() {
		return ""
	}
	return pk.String()
}

func accountsToStored(a domain.ProgramAccounts) StoredAccounts {
	return StoredAccounts{
		Program:       keyString(a.Program),
		Authority:     keyString(a.Authority),
		TokenInfo:     keyString(a.TokenInfo),
		CurveData:     keyString(a.CurveData),
		SwapFeeWallet: keyString(a.SwapFeeWallet),
	}
}

func storedToAccounts(s StoredAccounts) (domain.ProgramAccounts, error) {
	var (
		a   domain.ProgramAccounts
		err error
	)
	if a.Program, err = parseKey("program", s.Program); err != nil {
		return a, err
	}
	if a.Authority, err = parseKey("authority", s.Authority); err != nil {
		return a, err
	}
	if a.TokenInfo, err = parseKey("tokenInfo", s.TokenInfo); err != nil {
		return a, err
	}
	if a.CurveData, err = parseKey("curveData", s.CurveData); err != nil {
		return a, err
	}
	if a.SwapFeeWallet, err = parseKey("swapFeeWallet", s.SwapFeeWallet); err != nil {
		return a, err
	}
	return a, nil
}

func tokenToStored(t *domain.TokenInfo) *StoredToken {
	return &StoredToken{
		ID:                 uint32(t.ID),
		Symbol:             t.Symbol,
		Name:               t.Name,
		Mint:               t.Mint.String(),
		PDAAccount:         t.PDAAccount.String(),
		OraclePriceFeed:    t.OraclePriceFeed.String(),
		Decimals:           t.Decimals,
		ExternalPriceRefID: t.ExternalPriceRefID,
		IsBaseAsset:        t.IsBaseAsset,
	}
}

func storedToToken(s *StoredToken) (domain.TokenInfo, error) {
	mint, err := parseKey("mint", s.Mint)
	if err != nil {
		return domain.TokenInfo{}, err
	}
	pda, err := parseKey("pdaAccount", s.PDAAccount)
	if err != nil {
		return domain.TokenInfo{}, err
	}
	oracle, err := parseKey("oraclePriceFeed", s.OraclePriceFeed)
	if err != nil {
		return domain.TokenInfo{}, err
	}
	return domain.TokenInfo{
		ID:                 domain.TokenID(s.ID),
		Symbol:             s.Symbol,
		Name:               s.Name,
		Mint:               mint,
		PDAAccount:         pda,
		OraclePriceFeed:    oracle,
		Decimals:           s.Decimals,
		ExternalPriceRefID: s.ExternalPriceRefID,
		IsBaseAsset:        s.IsBaseAsset,
	}, nil
}

func fundToStored(f *domain.FundState) *StoredFund {
	holdings := make([]StoredHolding, 0, f.Slots())
	for i := 0; i < f.Slots(); i++ {
		holdings = append(holdings, StoredHolding{
			TokenID:      uint32(f.CurrentCompToken[i]),
			Amount:       f.CurrentCompAmount[i],
			TargetWeight: f.TargetWeight[i],
		})
	}
	return &StoredFund{
		Address:            f.Address.String(),
		Manager:            f.Manager.String(),
		HostWallet:         f.HostWallet.String(),
		Holdings:           holdings,
		WeightSum:          f.WeightSum,
		RebalanceThreshold: f.RebalanceThreshold,
		LpOffsetThreshold:  f.LpOffsetThreshold,
	}
}

func storedToFund(s *StoredFund) (domain.FundState, error) {
	address, err := parseKey("address", s.Address)
	if err != nil {
		return domain.FundState{}, err
	}
	if address.IsZero() {
		return domain.FundState{}, fmt.Errorf("%w: fund without address", ErrInvalidRecord)
	}
	manager, err := parseKey("manager", s.Manager)
	if err != nil {
		return domain.FundState{}, err
	}
	host, err := parseKey("hostWallet", s.HostWallet)
	if err != nil {
		return domain.FundState{}, err
	}

	n := len(s.Holdings)
	fund := domain.FundState{
		Address:            address,
		Manager:            manager,
		HostWallet:         host,
		NumOfTokens:        n,
		CurrentCompToken:   make([]domain.TokenID, n),
		CurrentCompAmount:  make([]uint64, n),
		TargetWeight:       make([]uint64, n),
		WeightSum:          s.WeightSum,
		RebalanceThreshold: s.RebalanceThreshold,
		LpOffsetThreshold:  s.LpOffsetThreshold,
	}
	for i, h := range s.Holdings {
		fund.CurrentCompToken[i] = domain.TokenID(h.TokenID)
		fund.CurrentCompAmount[i] = h.Amount
		fund.TargetWeight[i] = h.TargetWeight
	}
	return fund, nil
}

func priceToStored(id domain.TokenID, p domain.OraclePrice) *StoredPrice {
	return &StoredPrice{
		TokenID:     uint32(id),
		Price:       p.Decimal().String(),
		PublishSlot: p.PublishSlot,
	}
}

func parsePrice(field, value string) (uint64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidRecord, field, value, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %s %q is negative", ErrInvalidRecord, field, value)
	}
	return domain.OraclePriceFromDecimal(d).Price, nil
}

func storedToCurve(field string, points []StoredCurvePoint) (domain.PiecewiseCurve, error) {
	var curve domain.PiecewiseCurve
	if len(points) > domain.CurvePoints {
		return curve, fmt.Errorf("%w: %s has %d points, at most %d", ErrInvalidRecord, field, len(points), domain.CurvePoints)
	}
	for i, p := range points {
		price, err := parsePrice(field, p.Price)
		if err != nil {
			return curve, err
		}
		curve[i] = domain.CurvePoint{AmountDelta: p.AmountDelta, Price: price}
	}
	return curve, nil
}

func curveToStored(curve domain.PiecewiseCurve) []StoredCurvePoint {
	if curve == (domain.PiecewiseCurve{}) {
		return nil
	}
	points := make([]StoredCurvePoint, 0, domain.CurvePoints)
	for _, p := range curve {
		points = append(points, StoredCurvePoint{
			AmountDelta: p.AmountDelta,
			Price:       domain.OraclePrice{Price: p.Price}.Decimal().String(),
		})
	}
	return points
}
