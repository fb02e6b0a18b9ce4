package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danmuck/claim_chain/src/chain"
	"github.com/danmuck/claim_chain/src/notary"
	"github.com/danmuck/claim_chain/src/wallet"
)

// newTestServer wires the full mux exactly as main does.
func newTestServer(t *testing.T) (*httptest.Server, *chain.Chain) {
	t.Helper()
	ledger, err := chain.NewChain()
	if err != nil {
		t.Fatalf("Failed to create chain: %v", err)
	}
	registrar := notary.New(ledger, wallet.Verify)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /challenges/{address}", handleIssueChallenge(registrar))
	mux.HandleFunc("POST /claims", handleSubmitClaim(registrar))
	mux.HandleFunc("GET /blocks/hash/{hex}", handleBlockByHash(ledger))
	mux.HandleFunc("GET /blocks/height/{n}", handleBlockByHeight(ledger))
	mux.HandleFunc("GET /records/{address}", handleRecordsByOwner(ledger))
	mux.HandleFunc("GET /chain/validate", handleValidateChain(ledger))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, ledger
}

// submitClaim runs the whole workflow over HTTP: challenge, sign, claim.
func submitClaim(t *testing.T, srv *httptest.Server, w *wallet.Wallet, claim string) blockResponse {
	t.Helper()

	resp, err := http.Post(srv.URL+"/challenges/"+w.Address(), "application/json", nil)
	if err != nil {
		t.Fatalf("Challenge request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Challenge status: got %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var challenge challengeResponse
	if err := json.NewDecoder(resp.Body).Decode(&challenge); err != nil {
		t.Fatalf("Failed to decode challenge: %v", err)
	}

	signature, err := w.Sign(challenge.Message)
	if err != nil {
		t.Fatalf("Failed to sign challenge: %v", err)
	}

	body, err := json.Marshal(claimRequest{
		Address:   w.Address(),
		Message:   challenge.Message,
		Signature: hex.EncodeToString(signature),
		Claim:     json.RawMessage(claim),
	})
	if err != nil {
		t.Fatalf("Failed to marshal claim request: %v", err)
	}

	resp, err = http.Post(srv.URL+"/claims", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Claim request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Claim status: got %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var block blockResponse
	if err := json.NewDecoder(resp.Body).Decode(&block); err != nil {
		t.Fatalf("Failed to decode claim response: %v", err)
	}
	return block
}

func TestClaimWorkflowOverHTTP(t *testing.T) {
	srv, ledger := newTestServer(t)
	w := wallet.NewWallet()

	block := submitClaim(t, srv, w, `{"asset": "plot-7"}`)
	if block.Height != 1 {
		t.Errorf("Committed height: got %d, want 1", block.Height)
	}
	if block.Owner != w.Address() {
		t.Errorf("Committed owner: got %q, want %q", block.Owner, w.Address())
	}
	if ledger.Height() != 1 {
		t.Errorf("Ledger height: got %d, want 1", ledger.Height())
	}
}

func TestClaimRejectedWithWrongSigner(t *testing.T) {
	srv, ledger := newTestServer(t)
	owner := wallet.NewWallet()
	impostor := wallet.NewWallet()

	resp, err := http.Post(srv.URL+"/challenges/"+owner.Address(), "application/json", nil)
	if err != nil {
		t.Fatalf("Challenge request failed: %v", err)
	}
	defer resp.Body.Close()
	var challenge challengeResponse
	if err := json.NewDecoder(resp.Body).Decode(&challenge); err != nil {
		t.Fatalf("Failed to decode challenge: %v", err)
	}

	signature, err := impostor.Sign(challenge.Message)
	if err != nil {
		t.Fatalf("Failed to sign challenge: %v", err)
	}
	body, _ := json.Marshal(claimRequest{
		Address:   owner.Address(),
		Message:   challenge.Message,
		Signature: hex.EncodeToString(signature),
		Claim:     json.RawMessage(`{"asset": "stolen"}`),
	})

	resp, err = http.Post(srv.URL+"/claims", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Claim request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Claim status: got %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	if ledger.Height() != 0 {
		t.Errorf("Ledger height after rejected claim: got %d, want 0", ledger.Height())
	}
}

func TestClaimRejectedWithBadJSONClaim(t *testing.T) {
	srv, _ := newTestServer(t)
	w := wallet.NewWallet()

	resp, err := http.Post(srv.URL+"/challenges/"+w.Address(), "application/json", nil)
	if err != nil {
		t.Fatalf("Challenge request failed: %v", err)
	}
	defer resp.Body.Close()
	var challenge challengeResponse
	if err := json.NewDecoder(resp.Body).Decode(&challenge); err != nil {
		t.Fatalf("Failed to decode challenge: %v", err)
	}
	signature, err := w.Sign(challenge.Message)
	if err != nil {
		t.Fatalf("Failed to sign challenge: %v", err)
	}
	body, _ := json.Marshal(claimRequest{
		Address:   w.Address(),
		Message:   challenge.Message,
		Signature: hex.EncodeToString(signature),
		Claim:     json.RawMessage(`[1, 2, 3]`),
	})

	resp, err = http.Post(srv.URL+"/claims", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Claim request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Claim status: got %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestBlockLookupsOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	w := wallet.NewWallet()
	committed := submitClaim(t, srv, w, `{"asset": "plot-7"}`)

	resp, err := http.Get(srv.URL + "/blocks/hash/" + committed.Hash)
	if err != nil {
		t.Fatalf("Hash lookup failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Hash lookup status: got %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var byHash blockResponse
	if err := json.NewDecoder(resp.Body).Decode(&byHash); err != nil {
		t.Fatalf("Failed to decode block: %v", err)
	}
	if byHash.Height != committed.Height {
		t.Errorf("Height via hash lookup: got %d, want %d", byHash.Height, committed.Height)
	}

	resp, err = http.Get(fmt.Sprintf("%s/blocks/height/%d", srv.URL, committed.Height))
	if err != nil {
		t.Fatalf("Height lookup failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Height lookup status: got %d, want %d", resp.StatusCode, http.StatusOK)
	}

	resp, err = http.Get(srv.URL + "/blocks/hash/doesnotexist")
	if err != nil {
		t.Fatalf("Unknown hash lookup failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Unknown hash status: got %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestRecordsAndValidateOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	w := wallet.NewWallet()
	submitClaim(t, srv, w, `{"asset": "plot-7"}`)
	submitClaim(t, srv, w, `{"asset": "plot-9"}`)

	resp, err := http.Get(srv.URL + "/records/" + w.Address())
	if err != nil {
		t.Fatalf("Records request failed: %v", err)
	}
	defer resp.Body.Close()
	var recs []recordResponse
	if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
		t.Fatalf("Failed to decode records: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Record count: got %d, want 2", len(recs))
	}

	resp, err = http.Get(srv.URL + "/chain/validate")
	if err != nil {
		t.Fatalf("Validate request failed: %v", err)
	}
	defer resp.Body.Close()
	var verdict validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		t.Fatalf("Failed to decode validation result: %v", err)
	}
	if !verdict.Valid {
		t.Errorf("Chain reported invalid: %d block(s)", len(verdict.Invalid))
	}
}
