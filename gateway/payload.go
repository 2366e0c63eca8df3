package gateway

import (
	"encoding/binary"
	"errors"
	"math/big"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// Payload is the settlement instruction carried across chains: which
// remittance to settle, who receives, which token, and how much.
type Payload struct {
	RemittanceID uint64
	Recipient    common.Address
	Token        common.Address
	Amount       math.Int
}

// wire layout, fixed offsets
const (
	remittanceIDIndex = 0
	recipientIndex    = 8
	tokenIndex        = 28
	amountIndex       = 48
	payloadLen        = 80
)

// Bytes encodes the payload: id uint64 | recipient 20 | token 20 |
// amount 32 big-endian.
func (p Payload) Bytes() []byte {
	bz := make([]byte, payloadLen)
	binary.BigEndian.PutUint64(bz[remittanceIDIndex:recipientIndex], p.RemittanceID)
	copy(bz[recipientIndex:tokenIndex], p.Recipient.Bytes())
	copy(bz[tokenIndex:amountIndex], p.Token.Bytes())
	p.Amount.BigInt().FillBytes(bz[amountIndex:payloadLen])
	return bz
}

// ParsePayload decodes a wire payload.
func ParsePayload(bz []byte) (Payload, error) {
	if len(bz) != payloadLen {
		return Payload{}, errors.New("invalid payload length")
	}
	amount := new(big.Int).SetBytes(bz[amountIndex:payloadLen])
	return Payload{
		RemittanceID: binary.BigEndian.Uint64(bz[remittanceIDIndex:recipientIndex]),
		Recipient:    common.BytesToAddress(bz[recipientIndex:tokenIndex]),
		Token:        common.BytesToAddress(bz[tokenIndex:amountIndex]),
		Amount:       math.NewIntFromBigInt(amount),
	}, nil
}
