package chain

import (
	"sync"
	"time"

	"github.com/danmuck/claim_chain/src/records"
)

// GenesisClaim is the fixed payload carried by every chain's height-0 block.
var GenesisClaim = []byte("First block in the chain - Genesis block")

// Chain is the append-only, hash-linked ledger. It owns its block slice
// exclusively; accessors hand out copies, never live pointers.
type Chain struct {
	lock   sync.RWMutex
	blocks []*Block
	height int64
}

// NewChain creates a ledger and immediately commits its genesis block.
func NewChain() (*Chain, error) {
	c := &Chain{height: -1}
	if err := c.Initialize(); err != nil {
		return nil, err
	}
	return c, nil
}

// Initialize commits the genesis block. Calling it on an initialized chain
// is a no-op, checked via the height sentinel.
func (c *Chain) Initialize() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.height != -1 {
		return nil
	}
	genesis, err := NewBlock(records.Record{Owner: records.GenesisOwner, Claim: GenesisClaim})
	if err != nil {
		return err
	}
	c.commit(genesis)
	return nil
}

// Height returns the height of the last committed block, -1 before genesis.
func (c *Chain) Height() int64 {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.height
}

// Append validates the whole chain, finalizes the block's linkage fields and
// commits it. The read-validate-commit sequence runs under the chain lock so
// racing appends serialize instead of computing colliding heights or links.
func (c *Chain) Append(b *Block) (Block, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	// Never add to a chain already known to be corrupt.
	if invalid := c.validate(); len(invalid) > 0 {
		return Block{}, &ChainInvalidError{Invalid: invalid}
	}
	c.commit(b)
	return b.clone(), nil
}

// commit finalizes linkage fields and appends. Callers hold the write lock.
func (c *Chain) commit(b *Block) {
	b.Height = uint64(c.height + 1)
	if b.Height > 0 {
		b.PrevHash = c.blocks[c.height].Hash
	}
	b.Time = time.Now().Unix()
	b.Hash = b.computeHash()

	c.blocks = append(c.blocks, b)
	c.height++
}

// BlockByHash returns a copy of the first block whose hash matches, scanning
// in chain order. Absence is a normal outcome, not an error.
func (c *Chain) BlockByHash(hash string) (Block, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	for _, b := range c.blocks {
		if b.Hash == hash {
			return b.clone(), true
		}
	}
	return Block{}, false
}

// BlockByHeight returns a copy of the block at the given height. Height
// equals slice position for every committed block, so the lookup is direct.
func (c *Chain) BlockByHeight(height int64) (Block, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if height < 0 || height > c.height {
		return Block{}, false
	}
	return c.blocks[height].clone(), true
}

// RecordsByOwner returns the decoded records of every non-genesis block whose
// owner matches address, in chain order. Blocks whose body fails to decode
// are skipped: one malformed historical block must not abort the scan.
func (c *Chain) RecordsByOwner(address string) []records.Record {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if len(c.blocks) == 0 {
		return nil
	}

	var owned []records.Record
	for _, b := range c.blocks[1:] {
		rec, err := b.DecodeBody()
		if err != nil {
			continue
		}
		if rec.Owner == address {
			owned = append(owned, rec)
		}
	}
	return owned
}

// ValidateChain checks every block in ascending height order for hash
// self-consistency and predecessor linkage. It returns copies of the blocks
// found invalid; an empty result means the chain is healthy.
func (c *Chain) ValidateChain() []Block {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.validate()
}

// validate is the lock-held worker behind ValidateChain and Append. A block
// failing both checks is reported once.
func (c *Chain) validate() []Block {
	var invalid []Block
	for i, b := range c.blocks {
		if !b.Validate() {
			invalid = append(invalid, b.clone())
			continue
		}
		if i > 0 && b.PrevHash != c.blocks[i-1].Hash {
			invalid = append(invalid, b.clone())
		}
	}
	return invalid
}
