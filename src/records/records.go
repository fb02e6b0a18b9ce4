package records

import (
	"errors"
	"fmt"

	"go.dedis.ch/protobuf"
)

// GenesisOwner marks the ledger's self-issued genesis record.
// It is deliberately not a valid wallet address.
const GenesisOwner = ""

// Record is the application-level payload carried in a block body: an
// ownership claim bound to the wallet address that proved control of
// its signing key.
type Record struct {
	Owner string
	Claim []byte
}

var ErrDecode = errors.New("record decode failed")

// Encode serializes a Record into its opaque on-chain form.
func Encode(r Record) ([]byte, error) {
	data, err := protobuf.Encode(&r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return data, nil
}

// Decode recovers a Record from its on-chain form. Failures wrap ErrDecode
// so bulk scans can tell a malformed body apart from other faults.
func Decode(data []byte) (Record, error) {
	var r Record
	if err := protobuf.Decode(data, &r); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return r, nil
}
