package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/hxuan190/fundswap/internal/domain"
)

// SeedFile is the on-disk form of a snapshot, written by the external account
// fetcher or by hand. Prices are human decimals; amounts are raw units.
type SeedFile struct {
	Slot     uint64         `json:"slot" yaml:"slot"`
	Accounts StoredAccounts `json:"accounts" yaml:"accounts"`
	Tokens   []StoredToken  `json:"tokens" yaml:"tokens"`
	Prices   []StoredPrice  `json:"prices" yaml:"prices"`
	Curves   []StoredCurve  `json:"curves" yaml:"curves"`
	Funds    []StoredFund   `json:"funds" yaml:"funds"`
}

type SeedFormat string

const (
	SeedFormatYAML SeedFormat = "yaml"
	SeedFormatJSON SeedFormat = "json"
)

func SeedFormatFromPath(path string) SeedFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SeedFormatJSON
	default:
		return SeedFormatYAML
	}
}

func LoadSeedFile(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data, SeedFormatFromPath(path))
}

func ParseSeed(data []byte, format SeedFormat) (*domain.Snapshot, error) {
	var seed SeedFile
	var err error
	switch format {
	case SeedFormatJSON:
		err = sonic.Unmarshal(data, &seed)
	default:
		err = yaml.Unmarshal(data, &seed)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s seed: %w", format, err)
	}
	return seed.Snapshot()
}

// Snapshot converts the seed into a validated snapshot. Tokens are placed at
// their id; when no token is flagged as the base asset, token 0 is.
func (f *SeedFile) Snapshot() (*domain.Snapshot, error) {
	accounts, err := storedToAccounts(f.Accounts)
	if err != nil {
		return nil, err
	}

	tokens := make(domain.TokenTable, len(f.Tokens))
	seen := make([]bool, len(f.Tokens))
	hasBase := false
	for i := range f.Tokens {
		t, err := storedToToken(&f.Tokens[i])
		if err != nil {
			return nil, err
		}
		if int(t.ID) >= len(tokens) || seen[t.ID] {
			return nil, fmt.Errorf("%w: token ids must be unique and dense, got %d", ErrInvalidRecord, t.ID)
		}
		seen[t.ID] = true
		tokens[t.ID] = t
		hasBase = hasBase || t.IsBaseAsset
	}
	if !hasBase && len(tokens) > 0 {
		tokens[0].IsBaseAsset = true
	}

	prices := make(domain.PriceTable, len(tokens))
	for _, p := range f.Prices {
		if int(p.TokenID) >= len(prices) {
			return nil, fmt.Errorf("%w: price for unknown token %d", ErrInvalidRecord, p.TokenID)
		}
		price, err := parsePrice("price", p.Price)
		if err != nil {
			return nil, err
		}
		prices[p.TokenID] = domain.OraclePrice{Price: price, PublishSlot: p.PublishSlot}
	}

	curves := domain.CurveTable{
		Buy:  make([]domain.PiecewiseCurve, len(tokens)),
		Sell: make([]domain.PiecewiseCurve, len(tokens)),
	}
	for _, c := range f.Curves {
		if int(c.TokenID) >= len(tokens) {
			return nil, fmt.Errorf("%w: curve for unknown token %d", ErrInvalidRecord, c.TokenID)
		}
		if curves.Buy[c.TokenID], err = storedToCurve(fmt.Sprintf("buy curve %d", c.TokenID), c.Buy); err != nil {
			return nil, err
		}
		if curves.Sell[c.TokenID], err = storedToCurve(fmt.Sprintf("sell curve %d", c.TokenID), c.Sell); err != nil {
			return nil, err
		}
	}

	funds := make([]domain.FundState, 0, len(f.Funds))
	for i := range f.Funds {
		fund, err := storedToFund(&f.Funds[i])
		if err != nil {
			return nil, err
		}
		funds = append(funds, fund)
	}

	snap := &domain.Snapshot{
		Slot:      f.Slot,
		UpdatedAt: time.Now().UTC(),
		Accounts:  accounts,
		Tokens:    tokens,
		Curves:    curves,
		Funds:     funds,
		Prices:    prices,
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// NewSeedFile is the inverse of SeedFile.Snapshot.
func NewSeedFile(s *domain.Snapshot) *SeedFile {
	seed := &SeedFile{
		Slot:     s.Slot,
		Accounts: accountsToStored(s.Accounts),
		Tokens:   make([]StoredToken, 0, len(s.Tokens)),
		Prices:   make([]StoredPrice, 0, len(s.Prices)),
		Funds:    make([]StoredFund, 0, len(s.Funds)),
	}
	for i := range s.Tokens {
		seed.Tokens = append(seed.Tokens, *tokenToStored(&s.Tokens[i]))
		buy := curveToStored(s.Curves.BuyCurve(domain.TokenID(i)))
		sell := curveToStored(s.Curves.SellCurve(domain.TokenID(i)))
		if buy != nil || sell != nil {
			seed.Curves = append(seed.Curves, StoredCurve{TokenID: uint32(i), Buy: buy, Sell: sell})
		}
	}
	for i, p := range s.Prices {
		if p.Price == 0 {
			continue
		}
		seed.Prices = append(seed.Prices, *priceToStored(domain.TokenID(i), p))
	}
	for i := range s.Funds {
		seed.Funds = append(seed.Funds, *fundToStored(&s.Funds[i]))
	}
	return seed
}

func (f *SeedFile) Encode(format SeedFormat) ([]byte, error) {
	if format == SeedFormatJSON {
		return sonic.MarshalIndent(f, "", "  ")
	}
	return yaml.Marshal(f)
}
