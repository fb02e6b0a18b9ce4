package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/danmuck/claim_chain/src/records"
	"github.com/danmuck/claim_chain/src/wallet"
	logs "github.com/danmuck/smplog"
)

func executeWalletAction(sess *session) error {
	w := wallet.NewWallet()
	address := w.Address()
	if address == "" {
		return fmt.Errorf("generated wallet has no usable address")
	}
	sess.wallets[address] = w
	sess.addresses = append(sess.addresses, address)

	logs.Titlef("\nNew wallet generated:\n")
	logs.DataKV("address", address)
	return nil
}

func executeClaimAction(sess *session, reader *bufio.Reader) error {
	address, err := promptWalletSelection(sess, reader)
	if err != nil {
		return err
	}
	w, ok := sess.wallets[address]
	if !ok {
		return fmt.Errorf("no signing key for address %s... in this session", shortAddress(address))
	}

	logs.Prompt("\nEnter claim as a JSON object (e.g. {\"asset\": \"plot-7\"}): ")
	line, err := reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return errMenuBack
		}
		return fmt.Errorf("failed to read claim: %w", err)
	}
	body := strings.TrimSpace(line)
	if body == "" || strings.EqualFold(body, "e") {
		return errMenuBack
	}

	claim, err := records.EncodeClaim([]byte(body))
	if err != nil {
		return fmt.Errorf("claim must be a JSON object: %w", err)
	}

	// The full workflow: challenge, sign, submit.
	message := sess.registrar.IssueChallenge(address)
	signature, err := w.Sign(message)
	if err != nil {
		return fmt.Errorf("failed to sign challenge: %w", err)
	}
	block, err := sess.registrar.SubmitClaim(address, message, signature, claim)
	if err != nil {
		return fmt.Errorf("claim rejected: %w", err)
	}

	logs.Titlef("\nClaim committed:\n")
	logs.DataKV("height", strconv.FormatUint(block.Height, 10))
	logs.DataKV("hash", block.Hash)
	return nil
}

func executeRecordsAction(sess *session, reader *bufio.Reader) error {
	address, err := promptWalletSelection(sess, reader)
	if err != nil {
		return err
	}

	recs := sess.ledger.RecordsByOwner(address)
	if len(recs) == 0 {
		logs.StatusWarn("No records found for that address.")
		logs.Printf("\n")
		return nil
	}

	logs.Titlef("\nRecords for %s... (%d):\n", shortAddress(address), len(recs))
	for i, rec := range recs {
		claim, err := records.DecodeClaim(rec.Claim)
		if err != nil {
			logs.Dataf("  [%d] <undecodable claim>\n", i)
			continue
		}
		logs.Dataf("  [%d] %s\n", i, string(claim))
	}
	return nil
}

func executeVerifyAction(sess *session) error {
	invalid := sess.ledger.ValidateChain()
	if len(invalid) == 0 {
		logs.StatusInfo(fmt.Sprintf("Chain valid: %d block(s) checked.", sess.ledger.Height()+1))
		logs.Printf("\n")
		return nil
	}

	logs.StatusWarn(fmt.Sprintf("Chain INVALID: %d block(s) failed verification.", len(invalid)))
	logs.Printf("\n")
	for _, b := range invalid {
		logs.Dataf("  height %d  hash %s\n", b.Height, shortHash(b.Hash))
	}
	return nil
}

func executeExportAction(sess *session) error {
	if dir := filepath.Dir(sess.snapshotPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to ensure snapshot directory %s: %w", dir, err)
		}
	}
	if err := sess.ledger.ExportSnapshot(sess.snapshotPath); err != nil {
		return fmt.Errorf("failed to export snapshot: %w", err)
	}
	logs.Printf("Snapshot written to %s (height %d).\n", sess.snapshotPath, sess.ledger.Height())
	return nil
}

// promptWalletSelection lists session wallets and returns the chosen address.
// A literal address is accepted directly, which covers lookups for keys not
// generated in this session.
func promptWalletSelection(sess *session, reader *bufio.Reader) (string, error) {
	if len(sess.addresses) > 0 {
		logs.Titlef("\nSession wallets (%d):\n", len(sess.addresses))
		for i, addr := range sess.addresses {
			logs.Dataf("  [%d] %s...\n", i, shortAddress(addr))
		}
	} else {
		logs.StatusWarn("No wallets in this session. Use 'wallet' to generate one.")
		logs.Printf("\n")
	}

	logs.Promptf("\nSelect wallet [0-%d] or paste an address (e to cancel): ", len(sess.addresses)-1)
	line, err := reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return "", errMenuBack
		}
		return "", fmt.Errorf("failed to read selection: %w", err)
	}

	choice := strings.TrimSpace(line)
	if choice == "" || strings.EqualFold(choice, "e") {
		return "", errMenuBack
	}
	if idx, convErr := strconv.Atoi(choice); convErr == nil {
		if idx < 0 || idx >= len(sess.addresses) {
			return "", fmt.Errorf("index %d out of range", idx)
		}
		return sess.addresses[idx], nil
	}
	return choice, nil
}

func shortAddress(address string) string {
	if len(address) > 16 {
		return address[:16]
	}
	return address
}

func shortHash(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
