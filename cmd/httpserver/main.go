package main

import (
	"flag"
	"net/http"

	"github.com/danmuck/claim_chain/cmd/internal/logcfg"
	"github.com/danmuck/claim_chain/src/chain"
	"github.com/danmuck/claim_chain/src/notary"
	"github.com/danmuck/claim_chain/src/wallet"
	logs "github.com/danmuck/smplog"
)

func main() {
	logs.Configure(logcfg.Load())

	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	configPath := flag.String("config", "", "path to server config TOML")
	flag.Parse()

	cfg := DefaultServerConfig()
	if *configPath != "" {
		loaded, err := LoadServerConfig(*configPath)
		if err != nil {
			logs.Fatalf(err, "failed to load config")
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	ledger, err := chain.NewChain()
	if err != nil {
		logs.Fatalf(err, "failed to initialize ledger")
	}
	registrar := notary.NewWithConfig(ledger, wallet.Verify, notary.Config{
		WindowSeconds: cfg.WindowSeconds,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /challenges/{address}", handleIssueChallenge(registrar))
	mux.HandleFunc("POST /claims", handleSubmitClaim(registrar))
	mux.HandleFunc("GET /blocks/hash/{hex}", handleBlockByHash(ledger))
	mux.HandleFunc("GET /blocks/height/{n}", handleBlockByHeight(ledger))
	mux.HandleFunc("GET /records/{address}", handleRecordsByOwner(ledger))
	mux.HandleFunc("GET /chain/validate", handleValidateChain(ledger))

	logs.Infof("claim registry listening on %s (challenge window: %ds)", cfg.Addr, cfg.WindowSeconds)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		logs.Fatal(err, "server exited")
	}
}
