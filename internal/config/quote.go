package config

import (
	"fmt"

	"github.com/hxuan190/fundswap/internal/common"
)

type QuoteConfig struct {
	// Parallel evaluates funds concurrently within one quote.
	Parallel bool

	// DefaultSlippageBps applies to swap requests that do not set one.
	DefaultSlippageBps uint16

	// CacheSize bounds the quote cache. Zero disables it.
	CacheSize int
}

func (c *QuoteConfig) Key() string {
	return QUOTE_CONFIG_KEY
}

func (c *QuoteConfig) Load() error {
	var err error
	if c.Parallel, err = getEnvBool("QUOTE_PARALLEL", false); err != nil {
		return err
	}
	bps, err := getEnvUint("QUOTE_DEFAULT_SLIPPAGE_BPS", uint64(common.DefaultSlippageBps), 16)
	if err != nil {
		return err
	}
	c.DefaultSlippageBps = uint16(bps)
	size, err := getEnvUint("QUOTE_CACHE_SIZE", 4096, 31)
	if err != nil {
		return err
	}
	c.CacheSize = int(size)
	return c.Validate()
}

func (c *QuoteConfig) Validate() error {
	if uint64(c.DefaultSlippageBps) > common.BpsDenominator {
		return fmt.Errorf("QUOTE_DEFAULT_SLIPPAGE_BPS %d above %d", c.DefaultSlippageBps, common.BpsDenominator)
	}
	return nil
}
