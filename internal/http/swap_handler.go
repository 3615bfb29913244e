package http

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	aggregator "github.com/hxuan190/fundswap/internal/aggregator"
	"github.com/hxuan190/fundswap/internal/domain"
	"github.com/hxuan190/fundswap/internal/http/httputil"
)

type SwapHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewSwapHandler(aggregatorSvc *aggregator.Service) *SwapHandler {
	return &SwapHandler{aggregatorSvc: aggregatorSvc}
}

func (h *SwapHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("", h.buildSwap)
}

func (h *SwapHandler) Root() string {
	return "/swap"
}

// SwapHandlerRequest represents the parameters for building a swap instruction
type SwapHandlerRequest struct {
	// Wallet that signs the transaction and owns the token accounts
	UserWallet string `json:"userWallet" binding:"required" example:"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"`

	// Token account paying the input token. Defaults to the wallet's ATA.
	UserSourceTokenAccount string `json:"userSourceTokenAccount,omitempty"`

	// Token account receiving the output token. Defaults to the wallet's ATA.
	UserDestinationTokenAccount string `json:"userDestinationTokenAccount,omitempty"`

	InputMint  string `json:"inputMint" binding:"required" example:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`
	OutputMint string `json:"outputMint" binding:"required" example:"So11111111111111111111111111111111111111112"`

	// Amount in decimal units of the input token
	Amount string `json:"amount" binding:"required" example:"10.5"`

	// Slippage tolerance in basis points (1 bps = 0.01%), at most 10000.
	// Default: the service default
	SlippageBps *uint16 `json:"slippageBps" example:"50"`
}

func optionalPublicKey(s string) (solana.PublicKey, error) {
	if s == "" {
		return solana.PublicKey{}, nil
	}
	return solana.PublicKeyFromBase58(s)
}

func (h *SwapHandler) parseSwapRequest(c *gin.Context) (*domain.SwapRequest, bool) {
	var req SwapHandlerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return nil, false
	}

	wallet, err := solana.PublicKeyFromBase58(req.UserWallet)
	if err != nil {
		httputil.BadRequest(c, "invalid userWallet address")
		return nil, false
	}
	source, err := optionalPublicKey(req.UserSourceTokenAccount)
	if err != nil {
		httputil.BadRequest(c, "invalid userSourceTokenAccount address")
		return nil, false
	}
	destination, err := optionalPublicKey(req.UserDestinationTokenAccount)
	if err != nil {
		httputil.BadRequest(c, "invalid userDestinationTokenAccount address")
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

	return &domain.SwapRequest{
		UserWallet:                  wallet,
		UserSourceTokenAccount:      source,
		UserDestinationTokenAccount: destination,
		InputMint:                   inputMint,
		OutputMint:                  outputMint,
		Amount:                      amount,
		SlippageBps:                 slippageBps,
	}, true
}

// @Summary Build swap instruction
// @Description Quote the swap and return the unsigned swapFundTokens instruction for the best fund.
// @Description The client adds it to a transaction, sets the blockhash and signs with userWallet.
// @Description
// @Description **Instruction data:** base64 of the anchor discriminator followed by borsh
// @Description (fromTokenId u64, toTokenId u64, amountIn u64, minimumAmountOut u64).
// @Tags swap
// @Accept json
// @Produce json
// @Param request body SwapHandlerRequest true "Swap parameters"
// @Success 200 {object} httputil.Response{data=domain.SwapResponse} "Unsigned swap instruction"
// @Failure 400 {object} httputil.Response "Invalid request"
// @Failure 404 {object} httputil.Response "No fund can fill the swap"
// @Failure 503 {object} httputil.Response "No snapshot loaded yet"
// @Router /api/v1/swap [post]
func (h *SwapHandler) buildSwap(c *gin.Context) {
	req, ok := h.parseSwapRequest(c)
	if !ok {
		return
	}

	resp, err := h.aggregatorSvc.BuildSwap(req)
	if err != nil {
		httputil.Fail(c, toHttpError(err))
		return
	}
	httputil.Success(c, resp)
}
