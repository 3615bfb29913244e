package domain

import (
	"github.com/gagliardetto/solana-go"
)

// TokenID is the dense index of a token in the token universe.
type TokenID uint32

type TokenInfo struct {
	ID                 TokenID          `json:"id"`
	Symbol             string           `json:"symbol,omitempty"`
	Name               string           `json:"name,omitempty"`
	Mint               solana.PublicKey `json:"mint"`
	PDAAccount         solana.PublicKey `json:"pdaAccount"`
	OraclePriceFeed    solana.PublicKey `json:"oraclePriceFeed"`
	Decimals           uint8            `json:"decimals"`
	ExternalPriceRefID string           `json:"externalPriceRefId"`

	// IsBaseAsset marks the fund reserve asset. It is priced at the raw oracle
	// price and is exempt from curve markup and the outbound rebalance check.
	IsBaseAsset bool `json:"isBaseAsset"`
}

// TokenTable is the token universe indexed by TokenID.
type TokenTable []TokenInfo

func (t TokenTable) Get(id TokenID) (*TokenInfo, bool) {
	if int(id) >= len(t) {
		return nil, false
	}
	return &t[id], true
}

func (t TokenTable) Has(id TokenID) bool {
	return int(id) < len(t)
}

func (t TokenTable) FindByMint(mint solana.PublicKey) (TokenID, bool) {
	for i := range t {
		if t[i].Mint.Equals(mint) {
			return t[i].ID, true
		}
	}
	return 0, false
}

// TokenListing is the public view of one token.
type TokenListing struct {
	TokenID            TokenID `json:"tokenId"`
	ExternalPriceRefID string  `json:"externalPriceRefId"`
	TokenMint          string  `json:"tokenMint"`
}

func (t TokenTable) Listings() []TokenListing {
	out := make([]TokenListing, 0, len(t))
	for i := range t {
		out = append(out, TokenListing{
			TokenID:            t[i].ID,
			ExternalPriceRefID: t[i].ExternalPriceRefID,
			TokenMint:          t[i].Mint.String(),
		})
	}
	return out
}
