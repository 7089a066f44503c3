// Package transactions classifies timeline events into account
// transactions and exports them in a Portfolio Performance friendly
// format.
package transactions

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/SoerenFox/pytr-Modified/timeline"
	"github.com/SoerenFox/pytr-Modified/utils"
	"github.com/gocarina/gocsv"
)

// Kinds of exported transactions.
const (
	KindDeposit  = "deposit"
	KindRemoval  = "removal"
	KindInterest = "interest"
	KindDividend = "dividend"
	KindBuy      = "buy"
	KindSell     = "sell"
)

var eventKinds = map[string]string{
	"PAYMENT_INBOUND":                   KindDeposit,
	"PAYMENT_INBOUND_SEPA_DIRECT_DEBIT": KindDeposit,
	"INCOMING_TRANSFER":                 KindDeposit,
	"PAYMENT_OUTBOUND":                  KindRemoval,
	"OUTGOING_TRANSFER":                 KindRemoval,
	"INTEREST_PAYOUT":                   KindInterest,
	"INTEREST_PAYOUT_CREATED":           KindInterest,
	"CREDIT":                            KindDividend,
	"ssp_corporate_action_invoice_cash": KindDividend,
	"ORDER_EXECUTED":                    "trade",
	"TRADE_INVOICE":                     "trade",
	"TRADE_CORRECTED":                   "trade",
	"SAVINGS_PLAN_EXECUTED":             "trade",
	"SAVINGS_PLAN_INVOICE_CREATED":      "trade",
	"benefits_saveback_execution":       "trade",
}

// SupportedLanguages lists the header localizations.
func SupportedLanguages() []string { return []string{"de", "en"} }

var headers = map[string][]string{
	"en": {"Date", "Type", "Value", "Note", "ISIN", "Shares"},
	"de": {"Datum", "Typ", "Wert", "Notiz", "ISIN", "Anteile"},
}

var kindNames = map[string]map[string]string{
	"en": {
		KindDeposit:  "Deposit",
		KindRemoval:  "Removal",
		KindInterest: "Interest",
		KindDividend: "Dividend",
		KindBuy:      "Buy",
		KindSell:     "Sell",
	},
	"de": {
		KindDeposit:  "Einlage",
		KindRemoval:  "Entnahme",
		KindInterest: "Zinsen",
		KindDividend: "Dividende",
		KindBuy:      "Kauf",
		KindSell:     "Verkauf",
	},
}

// Row is one exported transaction.
type Row struct {
	Date   string `csv:"date" json:"date"`
	Type   string `csv:"type" json:"type"`
	Value  string `csv:"value" json:"value"`
	Note   string `csv:"note" json:"note"`
	ISIN   string `csv:"isin" json:"isin"`
	Shares string `csv:"shares" json:"shares"`
}

// Exporter renders classified events. The zero value exports English
// headers, dates without time and dot decimals.
type Exporter struct {
	Lang                string
	DateWithTime        bool
	DecimalLocalization bool
	Sort                bool
}

func (e Exporter) lang() string {
	if _, ok := headers[e.Lang]; ok {
		return e.Lang
	}
	return "en"
}

// Classify maps an event type to an export kind. Trades resolve to buy
// or sell by the sign of the amount. Unclassified events return "".
func Classify(ev timeline.Event) string {
	kind, ok := eventKinds[ev.EventType]
	if !ok {
		return ""
	}
	if kind == "trade" {
		if ev.Amount < 0 {
			return KindBuy
		}
		return KindSell
	}
	return kind
}

// Rows classifies the events, dropping the ones without a transaction
// kind.
func (e Exporter) Rows(events []timeline.Event) []Row {
	lang := e.lang()
	var rows []Row
	for _, ev := range events {
		kind := Classify(ev)
		if kind == "" {
			continue
		}
		rows = append(rows, Row{
			Date:   e.formatDate(ev),
			Type:   kindNames[lang][kind],
			Value:  e.formatValue(ev.Amount),
			Note:   strings.TrimSpace(ev.Title + " " + ev.Subtitle),
			ISIN:   ev.ISIN,
			Shares: e.shares(ev),
		})
	}
	if e.Sort {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	}
	return rows
}

// Export writes the rows in the requested format, "csv" or "json".
func (e Exporter) Export(w io.Writer, events []timeline.Event, format string) error {
	rows := e.Rows(events)
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "csv", "":
		cw := csv.NewWriter(w)
		cw.Comma = ';'
		if err := cw.Write(headers[e.lang()]); err != nil {
			return err
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		sw := gocsv.NewSafeCSVWriter(cw)
		return gocsv.MarshalCSVWithoutHeaders(&rows, sw)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func (e Exporter) formatDate(ev timeline.Event) string {
	if ev.Timestamp.IsZero() {
		return ""
	}
	if e.DateWithTime {
		return ev.Timestamp.Format("2006-01-02 15:04:05")
	}
	return ev.Timestamp.Format("2006-01-02")
}

func (e Exporter) formatValue(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	if e.DecimalLocalization {
		s = strings.Replace(s, ".", ",", 1)
	}
	return s
}

func (e Exporter) shares(ev timeline.Event) string {
	shares := utils.JSONFloat(ev.Raw, "shares")
	if shares == 0 {
		return ""
	}
	s := fmt.Sprintf("%g", shares)
	if e.DecimalLocalization {
		s = strings.Replace(s, ".", ",", 1)
	}
	return s
}
