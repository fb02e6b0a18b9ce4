package api

import (
	"github.com/danmuck/claim_chain/src/chain"
	"github.com/danmuck/claim_chain/src/records"
)

// The Ledger is the surface the transport layer routes to.
// The chain implements it; handlers depend on this contract,
// not on the concrete type.
type Ledger interface {

	// Commit the genesis block if one has not been committed yet
	// calling this on an initialized ledger is a no-op
	Initialize() error

	// Height of the last committed block, -1 before genesis
	Height() int64

	// Validate the whole chain, then finalize and commit the block
	Append(b *chain.Block) (chain.Block, error)

	// Find a block by its content hash
	BlockByHash(hash string) (chain.Block, bool)

	// Find a block by its height
	BlockByHeight(height int64) (chain.Block, bool)

	// Decoded records owned by an address, genesis excluded
	// malformed bodies are skipped, not propagated
	RecordsByOwner(address string) []records.Record

	// Blocks failing self-consistency or linkage checks
	// an empty result means the chain is healthy
	ValidateChain() []chain.Block

	// Write the committed chain to disk as an audit dump
	ExportSnapshot(path string) error
}
