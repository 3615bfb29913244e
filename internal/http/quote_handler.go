package http

import (
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	aggregator "github.com/hxuan190/fundswap/internal/aggregator"
	"github.com/hxuan190/fundswap/internal/domain"
	"github.com/hxuan190/fundswap/internal/http/httputil"
	"github.com/hxuan190/fundswap/internal/services/builder"
	"github.com/hxuan190/fundswap/internal/services/router"
)

type QuoteHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewQuoteHandler(aggregatorSvc *aggregator.Service) *QuoteHandler {
	return &QuoteHandler{aggregatorSvc: aggregatorSvc}
}

func (h *QuoteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getQuote)
}

func (h *QuoteHandler) Root() string {
	return "/quote"
}

// QuoteRequest represents the parameters for requesting a swap quote
type QuoteRequest struct {
	// Input token mint address (Solana base58 public key)
	InputMint string `form:"inputMint" binding:"required" example:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`

	// Output token mint address (Solana base58 public key)
	OutputMint string `form:"outputMint" binding:"required" example:"So11111111111111111111111111111111111111112"`

	// Amount in decimal units of the input token, e.g. "10.5" USDC.
	// Digits beyond the token's decimals are truncated.
	Amount string `form:"amount" binding:"required" example:"10.5"`

	// Slippage tolerance in basis points used for minAmountOut.
	// Default: the service default (50 bps unless configured)
	SlippageBps *uint16 `form:"slippageBps" example:"50"`
}

// QuoteResponse is the best single-fund route for the request
type QuoteResponse struct {
	InputMint  string `json:"inputMint" example:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`
	OutputMint string `json:"outputMint" example:"So11111111111111111111111111111111111111112"`

	// Fund that fills the swap
	FundAddress string `json:"fundAddress" example:"9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"`

	// Amounts in decimal token units
	AmountIn     decimal.Decimal `json:"amountIn" swaggertype:"string" example:"10"`
	AmountOut    decimal.Decimal `json:"amountOut" swaggertype:"string" example:"4.999975"`
	MinAmountOut decimal.Decimal `json:"minAmountOut" swaggertype:"string" example:"4.974975"`

	// Amounts in smallest token units
	AmountInRaw     string `json:"amountInRaw" example:"10000000"`
	AmountOutRaw    string `json:"amountOutRaw" example:"4999975"`
	MinAmountOutRaw string `json:"minAmountOutRaw" example:"4974975"`

	// Flat fee charged on the output, in smallest units of the output token
	FeeAmountRaw string `json:"feeAmountRaw" example:"25"`

	SlippageBps    uint16 `json:"slippageBps" example:"50"`
	FundsEvaluated int    `json:"fundsEvaluated" example:"3"`
	SnapshotSlot   uint64 `json:"snapshotSlot" example:"245831456"`
}

type parsedQuoteRequest struct {
	inputMint   solana.PublicKey
	outputMint  solana.PublicKey
	amount      decimal.Decimal
	slippageBps uint16
}

func (h *QuoteHandler) parseQuoteRequest(c *gin.Context) (*parsedQuoteRequest, bool) {
	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, "invalid query parameters: "+err.Error())
		return nil, false
	}

	inputMint, err := solana.PublicKeyFromBase58(req.InputMint)
	if err != nil {
		httputil.BadRequest(c, "invalid inputMint address")
		return nil, false
	}

	outputMint, err := solana.PublicKeyFromBase58(req.OutputMint)
	if err != nil {
		httputil.BadRequest(c, "invalid outputMint address")
		return nil, false
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		httputil.BadRequest(c, "invalid amount: must be a positive decimal")
		return nil, false
	}

	slippageBps := h.aggregatorSvc.DefaultSlippageBps()
	if req.SlippageBps != nil {
		slippageBps = *req.SlippageBps
	}

	return &parsedQuoteRequest{
		inputMint:   inputMint,
		outputMint:  outputMint,
		amount:      amount,
		slippageBps: slippageBps,
	}, true
}

func buildQuoteResponse(quote *domain.Quote, slippageBps uint16) (*QuoteResponse, error) {
	minOut, err := builder.MinimumReceived(quote.Route.ToAmountRaw, slippageBps)
	if err != nil {
		return nil, err
	}
	route := quote.Route
	return &QuoteResponse{
		InputMint:       quote.InputMint.String(),
		OutputMint:      quote.OutputMint.String(),
		FundAddress:     route.SwapAccounts.FundState.String(),
		AmountIn:        route.FromAmount,
		AmountOut:       route.ToAmount,
		MinAmountOut:    router.FromRawAmount(minOut, quote.OutputDecimals),
		AmountInRaw:     strconv.FormatUint(route.FromAmountRaw, 10),
		AmountOutRaw:    strconv.FormatUint(route.ToAmountRaw, 10),
		MinAmountOutRaw: strconv.FormatUint(minOut, 10),
		FeeAmountRaw:    strconv.FormatUint(route.FeeRaw, 10),
		SlippageBps:     slippageBps,
		FundsEvaluated:  quote.FundsEvaluated,
		SnapshotSlot:    quote.SnapshotSlot,
	}, nil
}

// @Summary Get swap quote
// @Description Quote a swap against every fund in the current snapshot and return the fund paying the most output.
// @Description
// @Description Each fund prices the trade from the oracle prices and its buy/sell curves, then checks that the
// @Description swap keeps both token weights inside the fund's rebalance band. Funds that fail are skipped.
// @Description
// @Description **Amount Format:** decimal units of the input token (e.g. "10.5"), not smallest units.
// @Tags quote
// @Produce json
// @Param inputMint query string true "Input token mint address" example("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
// @Param outputMint query string true "Output token mint address" example("So11111111111111111111111111111111111111112")
// @Param amount query string true "Amount in decimal units of the input token" example("10.5")
// @Param slippageBps query int false "Slippage tolerance in basis points for minAmountOut" example(50)
// @Success 200 {object} httputil.Response{data=QuoteResponse} "Best route"
// @Failure 400 {object} httputil.Response "Invalid request parameters or unknown mint"
// @Failure 404 {object} httputil.Response "No fund can fill the swap"
// @Failure 503 {object} httputil.Response "No snapshot loaded yet"
// @Router /api/v1/quote [get]
func (h *QuoteHandler) getQuote(c *gin.Context) {
	parsed, ok := h.parseQuoteRequest(c)
	if !ok {
		return
	}

	quote, err := h.aggregatorSvc.GetQuote(parsed.inputMint, parsed.outputMint, parsed.amount)
	if err != nil {
		httputil.Fail(c, toHttpError(err))
		return
	}
	if !quote.Found() {
		httputil.NotFound(c, "no route found")
		return
	}

	resp, err := buildQuoteResponse(quote, parsed.slippageBps)
	if err != nil {
		httputil.Fail(c, toHttpError(err))
		return
	}
	httputil.Success(c, resp)
}
