package api

import "github.com/danmuck/claim_chain/src/chain"

// The Notary gates ledger appends behind the ownership-verification
// workflow: prove control of an address's signing key, then claim.
type Notary interface {

	// Produce the challenge message an address holder must sign
	IssueChallenge(address string) string

	// Validate freshness and signature, then append the claim
	// claim is the canonical binary form produced by the records codec
	SubmitClaim(address, message string, signature []byte, claim []byte) (chain.Block, error)
}
