// Package common contains common constants and variables used across services
package common

import "github.com/gagliardetto/solana-go"

var (
	TokenProgramID = solana.TokenProgramID
	ATAProgramID   = solana.SPLAssociatedTokenAccountProgramID

	// Fund program deployment. Snapshots may override each of these.
	FundsProgramID   = solana.MustPublicKeyFromBase58("2KehYt3KsEQR53jYcxjbQp2d2kCp4AkuQW68atufRwSr")
	FundsProgramPDA  = solana.MustPublicKeyFromBase58("BLBYiq48WcLQ5SxiftyKmPtmsZPUBEnDEjqEnKGAR4zx")
	TokenInfoAddress = solana.MustPublicKeyFromBase58("4Rn7pKKyiSNKZXKCoLqEpRznX1rhveV4dW1DCg6hRoVH")
	CurveDataAddress = solana.MustPublicKeyFromBase58("4QMjSHuM3iS7Fdfi8kZJfHRKoEJSDHEtEwqbChsTcUVK")
	SwapFeeAccount   = solana.MustPublicKeyFromBase58("AWfpfzA6FYbqx4JLz75PDgsjH7jtBnnmJ6MXW5zNY2Ei")
)

const (
	// DefaultSlippageBps is 0.5%.
	DefaultSlippageBps uint16 = 50
	BpsDenominator     uint64 = 10_000
)
