package chain

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/danmuck/claim_chain/src/records"
)

// Block is one committed entry in the ledger. Height, Time, PrevHash and
// Hash are assigned by the Chain at append time; Body is the encoded record
// set at construction and never rewritten.
type Block struct {
	Height   uint64 `toml:"height"`
	Time     int64  `toml:"time"`
	PrevHash string `toml:"prev_hash"`
	Hash     string `toml:"hash"`
	Body     []byte `toml:"body"`
}

// NewBlock constructs an uncommitted block carrying the encoded form of rec.
// Linkage fields stay zero until Chain.Append finalizes them.
func NewBlock(rec records.Record) (*Block, error) {
	body, err := records.Encode(rec)
	if err != nil {
		return nil, err
	}
	return &Block{Body: body}, nil
}

// computeHash hashes the block's committed fields. The stored hash is never
// part of its own input.
func (b *Block) computeHash() string {
	h := sha256.New()
	h.Write(uint64ToBytes(b.Height))
	h.Write(uint64ToBytes(uint64(b.Time)))
	h.Write([]byte(b.PrevHash))
	h.Write(b.Body)
	return hex.EncodeToString(h.Sum(nil))
}

// Validate recomputes the hash over the block's current fields and reports
// whether it matches the stored value. Linkage to neighbors is the chain's
// concern, not the block's.
func (b *Block) Validate() bool {
	return b.Hash == b.computeHash()
}

// clone returns a value copy with its own Body backing array, so callers
// holding the copy cannot reach committed bytes.
func (b *Block) clone() Block {
	cp := *b
	cp.Body = bytes.Clone(b.Body)
	return cp
}

// DecodeBody recovers the record carried by this block.
func (b *Block) DecodeBody() (records.Record, error) {
	return records.Decode(b.Body)
}

func uint64ToBytes(n uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)
	return buf
}
