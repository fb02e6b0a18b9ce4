package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/danmuck/claim_chain/src/api"
	"github.com/danmuck/claim_chain/src/chain"
	"github.com/danmuck/claim_chain/src/notary"
	"github.com/danmuck/claim_chain/src/records"
)

type blockResponse struct {
	Height   uint64          `json:"height"`
	Time     int64           `json:"time"`
	PrevHash string          `json:"prev_hash"`
	Hash     string          `json:"hash"`
	Owner    string          `json:"owner,omitempty"`
	Claim    json.RawMessage `json:"claim,omitempty"`
}

// toBlockResponse decodes the block body best-effort. Genesis and malformed
// bodies still report their header fields.
func toBlockResponse(b chain.Block) blockResponse {
	resp := blockResponse{
		Height:   b.Height,
		Time:     b.Time,
		PrevHash: b.PrevHash,
		Hash:     b.Hash,
	}
	rec, err := b.DecodeBody()
	if err != nil {
		return resp
	}
	resp.Owner = rec.Owner
	if claim, err := records.DecodeClaim(rec.Claim); err == nil {
		resp.Claim = claim
	}
	return resp
}

type challengeResponse struct {
	Message string `json:"message"`
}

func handleIssueChallenge(registrar api.Notary) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := r.PathValue("address")
		if address == "" {
			http.Error(w, "missing address", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(challengeResponse{
			Message: registrar.IssueChallenge(address),
		})
	}
}

type claimRequest struct {
	Address   string          `json:"address"`
	Message   string          `json:"message"`
	Signature string          `json:"signature"`
	Claim     json.RawMessage `json:"claim"`
}

// claimStatus maps notary rejections onto HTTP status codes.
func claimStatus(err error) int {
	switch {
	case errors.Is(err, notary.ErrMalformedMessage), errors.Is(err, notary.ErrExpiredChallenge):
		return http.StatusBadRequest
	case errors.Is(err, notary.ErrInvalidSignature):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func handleSubmitClaim(registrar api.Notary) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req claimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Address == "" || req.Message == "" || req.Signature == "" {
			http.Error(w, "address, message and signature are required", http.StatusBadRequest)
			return
		}
		signature, err := hex.DecodeString(req.Signature)
		if err != nil {
			http.Error(w, "signature must be hex encoded", http.StatusBadRequest)
			return
		}
		claim, err := records.EncodeClaim(req.Claim)
		if err != nil {
			http.Error(w, "claim must be a JSON object", http.StatusBadRequest)
			return
		}

		block, err := registrar.SubmitClaim(req.Address, req.Message, signature, claim)
		if err != nil {
			http.Error(w, err.Error(), claimStatus(err))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(toBlockResponse(block))
	}
}

func handleBlockByHash(ledger api.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		block, ok := ledger.BlockByHash(r.PathValue("hex"))
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(toBlockResponse(block))
	}
}

func handleBlockByHeight(ledger api.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		height, err := strconv.ParseInt(r.PathValue("n"), 10, 64)
		if err != nil {
			http.Error(w, "invalid height", http.StatusBadRequest)
			return
		}
		block, ok := ledger.BlockByHeight(height)
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(toBlockResponse(block))
	}
}

type recordResponse struct {
	Owner string          `json:"owner"`
	Claim json.RawMessage `json:"claim"`
}

func handleRecordsByOwner(ledger api.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs := ledger.RecordsByOwner(r.PathValue("address"))
		entries := make([]recordResponse, 0, len(recs))
		for _, rec := range recs {
			entry := recordResponse{Owner: rec.Owner}
			if claim, err := records.DecodeClaim(rec.Claim); err == nil {
				entry.Claim = claim
			}
			entries = append(entries, entry)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	}
}

type validateResponse struct {
	Valid   bool            `json:"valid"`
	Invalid []blockResponse `json:"invalid"`
}

func handleValidateChain(ledger api.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invalid := ledger.ValidateChain()
		resp := validateResponse{
			Valid:   len(invalid) == 0,
			Invalid: make([]blockResponse, len(invalid)),
		}
		for i, b := range invalid {
			resp.Invalid[i] = toBlockResponse(b)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
