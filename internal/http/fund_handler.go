package http

import (
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	aggregator "github.com/hxuan190/fundswap/internal/aggregator"
	"github.com/hxuan190/fundswap/internal/domain"
	"github.com/hxuan190/fundswap/internal/http/httputil"
)

type FundHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewFundHandler(aggregatorSvc *aggregator.Service) *FundHandler {
	return &FundHandler{aggregatorSvc: aggregatorSvc}
}

func (h *FundHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/list", h.listFunds)
	pub.GET("/:address/liquidity", h.getLiquidity)
}

func (h *FundHandler) Root() string {
	return "/funds"
}

// FundHolding is one token slot of a fund
type FundHolding struct {
	TokenID      domain.TokenID `json:"tokenId" example:"0"`
	Mint         string         `json:"mint" example:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`
	AmountRaw    string         `json:"amountRaw" example:"1000000000"`
	TargetWeight uint64         `json:"targetWeight" example:"1"`
}

// FundInfo contains the state of a fund as of the current snapshot
type FundInfo struct {
	Address    string `json:"address" example:"9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"`
	Manager    string `json:"manager" example:"JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"`
	HostWallet string `json:"hostWallet" example:"SysvarRent111111111111111111111111111111111"`

	Holdings  []FundHolding `json:"holdings"`
	WeightSum uint64        `json:"weightSum" example:"2"`

	// Tolerances in basis points
	RebalanceThreshold uint64 `json:"rebalanceThreshold" example:"500"`
	LpOffsetThreshold  uint64 `json:"lpOffsetThreshold" example:"10000"`
}

// FundListResponse contains a page of funds
type FundListResponse struct {
	Funds []FundInfo `json:"funds"`
	Total int        `json:"total" example:"12"`
	Page  int        `json:"page" example:"1"`
	Limit int        `json:"limit" example:"100"`
	Pages int        `json:"pages" example:"1"`
}

func toFundInfo(fund *domain.FundState, tokens domain.TokenTable) FundInfo {
	holdings := make([]FundHolding, 0, fund.Slots())
	for i := 0; i < fund.Slots(); i++ {
		id := fund.CurrentCompToken[i]
		h := FundHolding{
			TokenID:      id,
			AmountRaw:    strconv.FormatUint(fund.CurrentCompAmount[i], 10),
			TargetWeight: fund.TargetWeight[i],
		}
		if info, ok := tokens.Get(id); ok {
			h.Mint = info.Mint.String()
		}
		holdings = append(holdings, h)
	}
	return FundInfo{
		Address:            fund.Address.String(),
		Manager:            fund.Manager.String(),
		HostWallet:         fund.HostWallet.String(),
		Holdings:           holdings,
		WeightSum:          fund.WeightSum,
		RebalanceThreshold: fund.RebalanceThreshold,
		LpOffsetThreshold:  fund.LpOffsetThreshold,
	}
}

// @Summary List funds
// @Description Paginated list of the funds in the current snapshot, in snapshot order.
// @Tags funds
// @Produce json
// @Param page query int false "Page number (1-indexed)" default(1)
// @Param limit query int false "Funds per page (max 500)" default(100)
// @Success 200 {object} httputil.Response{data=FundListResponse}
// @Failure 503 {object} httputil.Response "No snapshot loaded yet"
// @Router /api/v1/funds/list [get]
func (h *FundHandler) listFunds(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	snap, err := h.aggregatorSvc.Snapshot()
	if err != nil {
		httputil.Fail(c, toHttpError(err))
		return
	}
	allFunds := snap.Funds
	total := len(allFunds)

	pages := (total + limit - 1) / limit
	offset := (page - 1) * limit
	end := offset + limit
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}

	funds := make([]FundInfo, 0, end-offset)
	for i := offset; i < end; i++ {
		funds = append(funds, toFundInfo(&allFunds[i], snap.Tokens))
	}

	httputil.Success(c, FundListResponse{
		Funds: funds,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	})
}

// @Summary Fund liquidity
// @Description For each token a fund holds, how much a user could sell to or buy from the fund before the
// @Description fund leaves its rebalance band. Estimates ignore the curves and are advisory only.
// @Tags funds
// @Produce json
// @Param address path string true "Fund state address"
// @Success 200 {object} httputil.Response{data=[]domain.TokenCapacity}
// @Failure 400 {object} httputil.Response "Invalid address"
// @Failure 404 {object} httputil.Response "Fund not found"
// @Router /api/v1/funds/{address}/liquidity [get]
func (h *FundHandler) getLiquidity(c *gin.Context) {
	address, err := solana.PublicKeyFromBase58(c.Param("address"))
	if err != nil {
		httputil.BadRequest(c, "invalid fund address")
		return
	}

	caps, err := h.aggregatorSvc.GetLiquidityInfo(address)
	if err != nil {
		httputil.Fail(c, toHttpError(err))
		return
	}
	httputil.Success(c, caps)
}
