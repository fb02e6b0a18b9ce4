package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/group/edwards25519"
	"go.dedis.ch/kyber/v4/sign/schnorr"
	"go.dedis.ch/kyber/v4/util/key"
)

// suite fixes the signing group for every wallet: Ed25519 points with the
// default Blake-seeded kyber suite.
var suite = edwards25519.NewBlakeSHA256Ed25519()

// Wallet holds a Schnorr key pair. The address is derived from the public
// point; the private scalar never leaves the process.
type Wallet struct {
	private kyber.Scalar
	public  kyber.Point
}

// NewWallet generates a fresh key pair.
func NewWallet() *Wallet {
	pair := key.NewKeyPair(suite)
	return &Wallet{private: pair.Private, public: pair.Public}
}

// Address returns the wallet's public identity: the hex form of its
// marshaled public point.
func (w *Wallet) Address() string {
	data, err := w.public.MarshalBinary()
	if err != nil {
		return ""
	}
	return hex.EncodeToString(data)
}

// Sign produces a Schnorr signature over message.
func (w *Wallet) Sign(message string) ([]byte, error) {
	sig, err := schnorr.Sign(suite, w.private, []byte(message))
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	return sig, nil
}

// Verify reports whether signature binds message to the given address.
// A malformed address or signature is an ordinary verification failure,
// never an error to the caller.
func Verify(message, address string, signature []byte) bool {
	public, err := decodeAddress(address)
	if err != nil {
		return false
	}
	return schnorr.Verify(suite, public, []byte(message), signature) == nil
}

var errBadAddress = errors.New("address is not a valid public key")

func decodeAddress(address string) (kyber.Point, error) {
	data, err := hex.DecodeString(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadAddress, err)
	}
	public := suite.Point()
	if err := public.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadAddress, err)
	}
	return public, nil
}
