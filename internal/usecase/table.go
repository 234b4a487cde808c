package usecase

import (
	"slices"

	"PulseBoard/internal/domain/models"
	"PulseBoard/pkg/numeric"

	"github.com/samber/lo"
)

// placeholder is shown for missing text values.
const placeholder = "-"

// RenderedRow is a table row ready for display.
type RenderedRow struct {
	Asset       string             `json:"asset"`
	Price       string             `json:"price"`
	High        string             `json:"high"`
	Low         string             `json:"low"`
	Average     string             `json:"average"`
	Volatility  string             `json:"volatility"`
	PctChange   float64            `json:"pct_change"`
	PctText     string             `json:"pct_text"`
	ChangeClass models.ChangeClass `json:"change_class"`
	Signal      string             `json:"signal"`
	SignalClass models.SignalClass `json:"signal_class"`
}

// TableState is the part of the view the reconciler reads: the asset
// options currently offered and the current selection.
type TableState struct {
	Options   []string
	Selection string
}

// Reconciled is the outcome of one table refresh.
type Reconciled struct {
	Rows           []RenderedRow
	Options        []string
	OptionsRebuilt bool
	Selection      string
}

// TableReconciler turns fetched rows into display rows and keeps the asset
// options and selection consistent with them.
type TableReconciler struct {
	fmt *numeric.Formatter
}

func NewTableReconciler(f *numeric.Formatter) *TableReconciler {
	if f == nil {
		f = numeric.NewFormatter("en")
	}
	return &TableReconciler{fmt: f}
}

// Reconcile renders rows in fetch order. Options are rebuilt only when the
// ordered asset sequence changed. The current selection survives when its
// asset is still offered; otherwise the first asset is selected, or nothing
// when there are no assets.
func (t *TableReconciler) Reconcile(current TableState, rows []models.MetricRow) Reconciled {
	out := Reconciled{
		Rows:      make([]RenderedRow, 0, len(rows)),
		Options:   current.Options,
		Selection: current.Selection,
	}

	for _, r := range rows {
		out.Rows = append(out.Rows, t.render(r))
	}

	ids := AssetIDs(rows)
	if len(current.Options) == 0 || !slices.Equal(current.Options, ids) {
		out.Options = ids
		out.OptionsRebuilt = true
	}

	if out.Selection == "" || !slices.Contains(out.Options, out.Selection) {
		out.Selection = ""
		if len(out.Options) > 0 {
			out.Selection = out.Options[0]
		}
	}

	return out
}

func (t *TableReconciler) render(r models.MetricRow) RenderedRow {
	pct := r.PctChange.Percent()

	asset := r.Asset
	if asset == "" {
		asset = placeholder
	}
	signal := string(r.Signal)
	if signal == "" {
		signal = placeholder
	}

	return RenderedRow{
		Asset:       asset,
		Price:       t.fmt.Display(r.Price),
		High:        t.fmt.Display(r.High),
		Low:         t.fmt.Display(r.Low),
		Average:     t.fmt.Display(r.Average),
		Volatility:  t.fmt.Display(r.Volatility.Float()),
		PctChange:   pct,
		PctText:     numeric.PercentText(pct),
		ChangeClass: models.ClassifyChange(pct),
		Signal:      signal,
		SignalClass: r.Signal.Class(),
	}
}

// AssetIDs lists the selectable assets in row order. Rows without an asset
// id are shown in the table but cannot be selected.
func AssetIDs(rows []models.MetricRow) []string {
	return lo.FilterMap(rows, func(r models.MetricRow, _ int) (string, bool) {
		return r.Asset, r.Asset != ""
	})
}
