package blockchain

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetAddressFromPrivateKeyECDSA derives the Ethereum address from the given
// ECDSA private key. It returns nil if the key is nil or its public part cannot
// be asserted to *ecdsa.PublicKey.
func GetAddressFromPrivateKeyECDSA(privateKeyECDSA *ecdsa.PrivateKey) *common.Address {
	if privateKeyECDSA == nil {
		return nil
	}
	publicKey := privateKeyECDSA.Public()
	publicKeyECDSA, ok := publicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil
	}
	addr := crypto.PubkeyToAddress(*publicKeyECDSA)
	return &addr
}

// ParsePrivateKeyECDSA parses a hex-encoded ECDSA private key (with or without
// 0x prefix) and returns the corresponding Ethereum address together with the
// private key object.
func ParsePrivateKeyECDSA(privateKey string) (common.Address, *ecdsa.PrivateKey, error) {
	if len(privateKey) >= 2 && privateKey[0] == '0' && (privateKey[1] == 'x' || privateKey[1] == 'X') {
		privateKey = privateKey[2:]
	}
	privateKeyECDSA, err := crypto.HexToECDSA(privateKey)
	if err != nil {
		return common.Address{}, nil, err
	}

	address := GetAddressFromPrivateKeyECDSA(privateKeyECDSA)
	if address == nil {
		return common.Address{}, nil, errors.New("failed to get public key")
	}
	return *address, privateKeyECDSA, nil
}

// ToBaseUnits converts a human amount into the smallest unit of a currency
// with the given number of decimals (1.5 with 18 decimals -> 1.5e18 wei).
//
// Supported input types for iamount: string, float64, int64, decimal.Decimal,
// *decimal.Decimal. Amounts with more fractional digits than decimals are
// rejected instead of being truncated.
func ToBaseUnits(iamount any, decimals int32) (*big.Int, error) {
	var amount decimal.Decimal
	switch v := iamount.(type) {
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			zap.L().Error("Failed to convert string to decimal", zap.Error(err))
			return nil, err
		}
		amount = d
	case float64:
		amount = decimal.NewFromFloat(v)
	case int64:
		amount = decimal.NewFromInt(v)
	case decimal.Decimal:
		amount = v
	case *decimal.Decimal:
		if v == nil {
			return nil, errors.New("nil amount")
		}
		amount = *v
	default:
		return nil, fmt.Errorf("unsupported amount type %T", iamount)
	}

	result := amount.Shift(decimals)
	if !result.IsInteger() {
		return nil, fmt.Errorf("amount %s has more than %d decimal places", amount, decimals)
	}
	return result.BigInt(), nil
}

// FromBaseUnits converts an amount in the smallest unit back into a decimal
// with the given number of decimals.
//
// Supported input types for ivalue: string, *big.Int, int, int64.
func FromBaseUnits(ivalue any, decimals int32) (decimal.Decimal, error) {
	value := new(big.Int)
	switch v := ivalue.(type) {
	case string:
		if _, ok := value.SetString(v, 10); !ok {
			return decimal.Zero, fmt.Errorf("invalid integer %q", v)
		}
	case *big.Int:
		if v == nil {
			return decimal.Zero, errors.New("nil value")
		}
		value = v
	case int:
		value.SetInt64(int64(v))
	case int64:
		value.SetInt64(v)
	default:
		return decimal.Zero, fmt.Errorf("unsupported value type %T", ivalue)
	}
	return decimal.NewFromBigInt(value, -decimals), nil
}
