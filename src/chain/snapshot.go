package chain

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Snapshot is the TOML audit dump of a committed chain. The live ledger
// stays memory-authoritative; a snapshot is an external artifact for
// inspection or offline verification.
type Snapshot struct {
	Height int64   `toml:"height"`
	Blocks []Block `toml:"blocks"`
}

// ExportSnapshot writes the committed chain to path as indented TOML.
func (c *Chain) ExportSnapshot(path string) error {
	c.lock.RLock()
	snap := Snapshot{Height: c.height, Blocks: make([]Block, 0, len(c.blocks))}
	for _, b := range c.blocks {
		snap.Blocks = append(snap.Blocks, b.clone())
	}
	c.lock.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	encoder.Indent = "    "
	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot rebuilds a chain from a snapshot file and re-validates it.
// The rebuilt chain is a new ledger; it does not replace a live instance.
func LoadSnapshot(path string) (*Chain, error) {
	var snap Snapshot
	if _, err := toml.DecodeFile(path, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if len(snap.Blocks) == 0 {
		return nil, fmt.Errorf("snapshot holds no blocks")
	}

	c := &Chain{height: -1}
	for i := range snap.Blocks {
		b := snap.Blocks[i]
		if b.Height != uint64(i) {
			return nil, fmt.Errorf("snapshot block at position %d carries height %d", i, b.Height)
		}
		c.blocks = append(c.blocks, &b)
		c.height++
	}

	if invalid := c.validate(); len(invalid) > 0 {
		return nil, &ChainInvalidError{Invalid: invalid}
	}
	return c, nil
}
