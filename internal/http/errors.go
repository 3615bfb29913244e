package http

import (
	"errors"

	"github.com/hxuan190/fundswap/internal/adapters/persistence"
	aggregator "github.com/hxuan190/fundswap/internal/aggregator"
	"github.com/hxuan190/fundswap/internal/common"
	"github.com/hxuan190/fundswap/internal/domain"
)

// toHttpError maps service errors onto HTTP responses. Unknown errors are 500s.
func toHttpError(err error) *common.HttpError {
	switch {
	case errors.Is(err, aggregator.ErrNoSnapshot),
		errors.Is(err, aggregator.ErrNoSeedFile):
		return common.HTTPErrorServiceUnavailable(err.Error())
	case errors.Is(err, aggregator.ErrFundNotFound),
		errors.Is(err, aggregator.ErrNoRoute):
		return common.HTTPErrorNotFound(err.Error())
	case errors.Is(err, aggregator.ErrUnknownToken),
		errors.Is(err, aggregator.ErrInvalidAmount),
		errors.Is(err, aggregator.ErrSameToken),
		errors.Is(err, aggregator.ErrInvalidSlippage),
		errors.Is(err, aggregator.ErrInvalidUserWallet),
		errors.Is(err, domain.ErrInvalidSnapshot),
		errors.Is(err, persistence.ErrInvalidRecord):
		return common.HTTPErrorBadRequest(err.Error())
	default:
		return common.HTTPErrorInternalError("")
	}
}
