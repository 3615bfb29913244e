package http

import (
	"github.com/gin-gonic/gin"

	aggregator "github.com/hxuan190/fundswap/internal/aggregator"
	"github.com/hxuan190/fundswap/internal/http/httputil"
)

type TokenHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewTokenHandler(aggregatorSvc *aggregator.Service) *TokenHandler {
	return &TokenHandler{aggregatorSvc: aggregatorSvc}
}

func (h *TokenHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.listTokens)
}

func (h *TokenHandler) Root() string {
	return "/tokens"
}

// @Summary List tokens
// @Description Every token known to the funds program, in token id order.
// @Tags tokens
// @Produce json
// @Success 200 {object} httputil.Response{data=[]domain.TokenListing}
// @Failure 503 {object} httputil.Response "No snapshot loaded yet"
// @Router /api/v1/tokens [get]
func (h *TokenHandler) listTokens(c *gin.Context) {
	tokens, err := h.aggregatorSvc.GetTokenList()
	if err != nil {
		httputil.Fail(c, toHttpError(err))
		return
	}
	httputil.Success(c, tokens)
}
