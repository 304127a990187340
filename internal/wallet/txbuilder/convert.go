package txbuilder

import (
	"math/big"

	"github.com/shopspring/decimal"
	"github/chapool/intent-wallet/internal/wallet/failure"
)

// SOLDecimals is the number of decimal places of one SOL in lamports.
const SOLDecimals = 9

// SOLToLamports converts an amount in SOL to lamports, dropping sub-lamport dust.
func SOLToLamports(amount decimal.Decimal) (uint64, error) {
	lamports := amount.Shift(SOLDecimals).Truncate(0)

	if !lamports.IsPositive() {
		return 0, failure.Newf(failure.KindInvalidIntent, "amount %s SOL is not a positive number of lamports", amount.String())
	}

	n := lamports.BigInt()
	if !n.IsUint64() {
		return 0, failure.Newf(failure.KindInvalidIntent, "amount %s SOL overflows", amount.String())
	}

	return n.Uint64(), nil
}

// LamportsToSOL is the inverse of SOLToLamports.
func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -SOLDecimals)
}
