package output

import (
	"io"
	"strings"
	"time"

	"github.com/vitrinewallet/vitrine/internal/mirror"
	"github.com/vitrinewallet/vitrine/internal/token"
)

// placeholder shown for a balance that has never been fetched.
const unsetAmount = "-"

// EntityView is the serializable snapshot of one mirrored entity, used for
// both JSON output and table rendering.
type EntityView struct {
	ID          string        `json:"id"`
	Account     string        `json:"account,omitempty"`
	Kind        string        `json:"kind"`
	Chain       string        `json:"chain"`
	Address     string        `json:"address"`
	Label       string        `json:"label,omitempty"`
	ExplorerURL string        `json:"explorer_url"`
	Loading     bool          `json:"loading"`
	Native      token.Token   `json:"native"`
	Fungibles   []token.Token `json:"fungibles"`
	Stale       bool          `json:"stale,omitempty"`
	LastError   string        `json:"last_error,omitempty"`
}

// NewEntityView snapshots an entity. Stale is set when the most recent
// refresh left either field behind; LastError carries the message.
func NewEntityView(e *mirror.Entity) EntityView {
	view := EntityView{
		ID:          e.ID,
		Account:     e.Account,
		Kind:        string(e.Kind),
		Chain:       e.ChainID.String(),
		Address:     e.Address,
		Label:       e.Label,
		ExplorerURL: e.ExplorerURL,
		Loading:     e.Loading(),
		Native:      e.NativeToken(),
		Fungibles:   e.FungibleTokens(),
	}

	var msgs []string
	if err := e.LastNativeError(); err != nil {
		msgs = append(msgs, err.Error())
	}
	if err := e.LastFungibleError(); err != nil {
		msgs = append(msgs, err.Error())
	}
	if len(msgs) > 0 {
		view.Stale = true
		view.LastError = strings.Join(msgs, "; ")
	}

	return view
}

// EntityViews snapshots a slice of entities in order.
func EntityViews(entities []*mirror.Entity) []EntityView {
	views := make([]EntityView, 0, len(entities))
	for _, e := range entities {
		views = append(views, NewEntityView(e))
	}
	return views
}

// RenderEntityTable renders the address list as a text table. Each fungible
// balance gets its own row under the entity's native row.
func RenderEntityTable(w io.Writer, views []EntityView) error {
	table := NewTable("CHAIN", "NAME", "TOKEN", "BALANCE", "UPDATED", "STATUS")
	table.AlignRight(3)

	for _, view := range views {
		name := view.Label
		if name == "" {
			name = shortAddress(view.Address)
		}

		table.AddRow(
			view.Chain,
			name,
			view.Native.Symbol,
			amountCell(view.Native),
			updatedCell(view.Native.UpdatedAt),
			statusCell(view),
		)
		for _, tok := range view.Fungibles {
			table.AddRow("", "", tok.Symbol, amountCell(tok), updatedCell(tok.UpdatedAt), "")
		}
	}

	return table.Render(w)
}

func amountCell(tok token.Token) string {
	if !tok.HasAmount() {
		return unsetAmount
	}
	return tok.DisplayAmount()
}

func updatedCell(at time.Time) string {
	if at.IsZero() {
		return unsetAmount
	}
	age := time.Since(at).Round(time.Second)
	if age < time.Second {
		return "now"
	}
	return age.String() + " ago"
}

func statusCell(view EntityView) string {
	switch {
	case view.Loading:
		return "loading"
	case view.Stale:
		return "stale"
	default:
		return "ok"
	}
}

func shortAddress(address string) string {
	if len(address) > 10 {
		return address[:6] + "…" + address[len(address)-4:]
	}
	return address
}
