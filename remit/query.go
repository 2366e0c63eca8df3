package remit

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/remitx-network/remitx-ledger/types"
)

// GetRemittance returns a copy of the record for id.
func (l *Ledger) GetRemittance(id uint64) (types.Remittance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.remittances[id]
	if !ok {
		return types.Remittance{}, fmt.Errorf("%w: remittance %d", types.ErrNotFound, id)
	}
	return *r, nil
}

// UserRemittances returns the ids sent by addr, oldest first. Deleted
// entries remain listed; callers filter by status.
func (l *Ledger) UserRemittances(addr common.Address) []uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]uint64, len(l.sent[addr]))
	copy(ids, l.sent[addr])
	return ids
}

// UserReceivedRemittances returns the ids addressed to addr, oldest
// first.
func (l *Ledger) UserReceivedRemittances(addr common.Address) []uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]uint64, len(l.received[addr]))
	copy(ids, l.received[addr])
	return ids
}

// RemittanceCount returns the number of remittances ever created,
// including deleted ones.
func (l *Ledger) RemittanceCount() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nextID
}

// ContractTokenBalance returns the custody balance for a token. Callers
// use it to pre-validate liquidity before CreateRemittance.
func (l *Ledger) ContractTokenBalance(tokenAddr common.Address) (math.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, err := l.vault(tokenAddr)
	if err != nil {
		return math.Int{}, err
	}
	return v.BalanceOf(l.custody), nil
}
