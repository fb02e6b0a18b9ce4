package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/claim_chain/cmd/internal/logcfg"
	"github.com/danmuck/claim_chain/src/chain"
	"github.com/danmuck/claim_chain/src/notary"
	"github.com/danmuck/claim_chain/src/wallet"
	logs "github.com/danmuck/smplog"
)

var errMenuExit = errors.New("menu exit")
var errMenuBack = errors.New("menu back")

// session carries everything the menu actions operate on. Wallets are
// keyed by address and live only for the process lifetime.
type session struct {
	ledger       *chain.Chain
	registrar    *notary.Notary
	wallets      map[string]*wallet.Wallet
	addresses    []string
	snapshotPath string
}

func main() {
	logs.Configure(logcfg.Load())

	snapshotPath := flag.String("snapshot", "./local/chain.toml", "chain snapshot path")
	window := flag.Int64("window", notary.DefaultWindowSeconds, "challenge window in seconds")
	flag.Parse()

	ledger, err := loadOrCreateChain(*snapshotPath)
	if err != nil {
		logs.Fatalf(err, "Failed to initialize ledger")
	}
	logs.Printf("Ledger ready: height %d.\n", ledger.Height())

	sess := &session{
		ledger:       ledger,
		registrar:    notary.NewWithConfig(ledger, wallet.Verify, notary.Config{WindowSeconds: *window}),
		wallets:      make(map[string]*wallet.Wallet),
		snapshotPath: *snapshotPath,
	}

	if err := runMenu(sess, os.Stdin); err != nil && !errors.Is(err, errMenuExit) {
		logs.Fatalf(err, "Session failed")
	}
	logs.Println("Exited registry menu.")
}

// loadOrCreateChain restores a snapshot when one exists, otherwise starts
// a fresh chain with only the genesis block.
func loadOrCreateChain(path string) (*chain.Chain, error) {
	if _, err := os.Stat(path); err == nil {
		ledger, err := chain.LoadSnapshot(path)
		if err != nil {
			return nil, fmt.Errorf("failed to restore snapshot %s: %w", path, err)
		}
		logs.Infof("restored chain snapshot from %s", path)
		return ledger, nil
	}
	return chain.NewChain()
}

func runMenu(sess *session, input io.Reader) error {
	reader := getBufferedReader(input)

	for {
		logs.Printf("\n")
		logs.Titlef("--[ claim_chain | height %d | %d wallet(s) ]--\n\n", sess.ledger.Height(), len(sess.wallets))
		logs.Menuf("  view 		(render the full chain)\n")
		logs.Menuf("  wallet 	(generate a new wallet)\n")
		logs.Menuf("  claim 	(sign a challenge + submit a claim)\n")
		logs.Menuf("  records 	(list records owned by an address)\n")
		logs.Printf("\n")
		logs.Menuf("  verify 	(validate the whole chain)\n")
		logs.Menuf("  export 	(write the chain snapshot to disk)\n")
		logs.Menuf("  exit\n")
		logs.Printf("\n")
		logs.DividerRune(0, '=')
		logs.Promptf("\nChoose action (default: view): ")

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return errMenuExit
			}
			return fmt.Errorf("failed to read action: %w", err)
		}

		choice := strings.ToLower(strings.TrimSpace(line))
		var actionErr error
		switch choice {
		case "", "view", "vi", "v":
			actionErr = executeViewAction(sess)
		case "wallet", "w":
			actionErr = executeWalletAction(sess)
		case "claim", "c":
			actionErr = executeClaimAction(sess, reader)
		case "records", "r", "rec":
			actionErr = executeRecordsAction(sess, reader)
		case "verify", "ve":
			actionErr = executeVerifyAction(sess)
		case "export", "exp", "x":
			actionErr = executeExportAction(sess)
		case "e", "exit", "q":
			return errMenuExit
		default:
			logs.Printf("Invalid action %q.\n\n", choice)
			logs.KeyHint("vi", "view    — render the full chain")
			logs.Printf("\n")
			logs.KeyHint("w", "wallet  — generate a new wallet")
			logs.Printf("\n")
			logs.KeyHint("c", "claim   — sign a challenge + submit a claim")
			logs.Printf("\n")
			logs.KeyHint("rec", "records — list records owned by an address")
			logs.Printf("\n")
			logs.KeyHint("ve", "verify  — validate the whole chain")
			logs.Printf("\n")
			logs.KeyHint("x", "export  — write the chain snapshot to disk")
			logs.Printf("\n")
			logs.KeyHint("e, q", "exit    — quit")
			logs.Printf("\n")
			continue
		}

		if actionErr != nil && !errors.Is(actionErr, errMenuBack) {
			logs.Printf("\nAction %q failed: %v\n", choice, actionErr)
		}
	}
}

func getBufferedReader(input io.Reader) *bufio.Reader {
	if reader, ok := input.(*bufio.Reader); ok {
		return reader
	}
	return bufio.NewReader(input)
}
