package main

import (
	"time"

	"github.com/danmuck/claim_chain/src/chain"
	"github.com/danmuck/claim_chain/src/records"
	"github.com/pterm/pterm"
)

// executeViewAction renders the committed chain, newest block on top.
func executeViewAction(sess *session) error {
	height := sess.ledger.Height()
	if height < 0 {
		pterm.Println("Chain is empty.")
		return nil
	}

	rows := make([][]pterm.Panel, 0, height+1)
	for h := height; h >= 0; h-- {
		block, ok := sess.ledger.BlockByHeight(h)
		if !ok {
			continue
		}
		rows = append(rows, []pterm.Panel{blockPanel(block)})
	}
	return pterm.DefaultPanel.WithPanels(rows).Render()
}

func blockPanel(b chain.Block) pterm.Panel {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	title := pterm.Sprintf("|BLOCK %d|", b.Height)
	if b.Height == 0 {
		title = "|GENESIS|"
	}

	body := pterm.Sprintfln("time:      %s", time.Unix(b.Time, 0).Format(time.RFC3339))
	body += pterm.Sprintfln("hash:      %s", shortHash(b.Hash))
	if b.PrevHash != "" {
		body += pterm.Sprintfln("prev:      %s", shortHash(b.PrevHash))
	}
	body += describeBody(b)

	// Sprint, not Sprintf: claim text is user input and may contain '%'.
	return pterm.Panel{Data: pbox.WithTitle(pterm.LightYellow(title)).WithTitleTopCenter().Sprint(body)}
}

// describeBody decodes the block record for display. Genesis carries a raw
// marker claim rather than a canonical one, so it is printed verbatim.
func describeBody(b chain.Block) string {
	rec, err := b.DecodeBody()
	if err != nil {
		return pterm.Sprintfln("body:      <undecodable>")
	}
	if b.Height == 0 {
		return pterm.Sprintfln("claim:     %s", string(rec.Claim))
	}

	out := pterm.Sprintfln("owner:     %s", pterm.LightCyan(shortAddress(rec.Owner)))
	claim, err := records.DecodeClaim(rec.Claim)
	if err != nil {
		out += pterm.Sprintfln("claim:     <undecodable>")
		return out
	}
	out += pterm.Sprintfln("claim:     %s", string(claim))
	return out
}
