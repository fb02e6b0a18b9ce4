package notary

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/danmuck/claim_chain/src/chain"
	"github.com/danmuck/claim_chain/src/records"
)

const (
	// ChallengeTag terminates every challenge message so signed strings
	// cannot be replayed against other protocols.
	ChallengeTag = "claimRegistry"

	// DefaultWindowSeconds is the freshness window: a claim whose challenge
	// timestamp is at least this old is rejected.
	DefaultWindowSeconds = 300
)

// VerifyFunc binds a message, a wallet address and a signature to a validity
// result. The notary consumes it as an opaque service.
type VerifyFunc func(message, address string, signature []byte) bool

// Config controls runtime behavior of a Notary instance.
type Config struct {
	WindowSeconds int64 // freshness window; 0 selects DefaultWindowSeconds
}

// Notary gates ledger appends behind the challenge-response ownership proof.
type Notary struct {
	ledger *chain.Chain
	verify VerifyFunc
	window time.Duration
}

// New creates a Notary with the default freshness window.
func New(ledger *chain.Chain, verify VerifyFunc) *Notary {
	return NewWithConfig(ledger, verify, Config{})
}

// NewWithConfig creates a Notary with the given configuration.
func NewWithConfig(ledger *chain.Chain, verify VerifyFunc, cfg Config) *Notary {
	if cfg.WindowSeconds == 0 {
		cfg.WindowSeconds = DefaultWindowSeconds
	}
	return &Notary{
		ledger: ledger,
		verify: verify,
		window: time.Duration(cfg.WindowSeconds) * time.Second,
	}
}

// IssueChallenge produces the message an address holder must sign to prove
// control of its key: "<address>:<unix-ts>:<tag>".
func (n *Notary) IssueChallenge(address string) string {
	return fmt.Sprintf("%s:%d:%s", address, time.Now().Unix(), ChallengeTag)
}

// SubmitClaim validates challenge freshness and the signature, then commits
// a block binding the claim to the address. The chain is not touched until
// every validation step has passed.
func (n *Notary) SubmitClaim(address, message string, signature []byte, claim []byte) (chain.Block, error) {
	issued, err := parseChallengeTime(message)
	if err != nil {
		return chain.Block{}, err
	}
	if time.Since(time.Unix(issued, 0)) >= n.window {
		return chain.Block{}, ErrExpiredChallenge
	}
	if !n.verify(message, address, signature) {
		return chain.Block{}, ErrInvalidSignature
	}

	block, err := chain.NewBlock(records.Record{Owner: address, Claim: claim})
	if err != nil {
		return chain.Block{}, err
	}
	return n.ledger.Append(block)
}

// parseChallengeTime extracts the timestamp from the second colon-delimited
// field of a challenge message.
func parseChallengeTime(message string) (int64, error) {
	parts := strings.Split(message, ":")
	if len(parts) < 3 {
		return 0, fmt.Errorf("%w: expected <address>:<timestamp>:<tag>", ErrMalformedMessage)
	}
	issued, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad timestamp %q", ErrMalformedMessage, parts[1])
	}
	return issued, nil
}
