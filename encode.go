package allocation

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// This file contains the ledger file format: a JSONL file, one command per line.
//
//	{"command":"position","symbol":"VTI","account":"Retirement:Broker","class":"Equity","subclass":"US Total Market","value":1200,"cost":1000,"currency":"USD"}
//	{"command":"target","subclass":"US Total Market","percent":60}
//	{"command":"target","portfolio":"Retirement","subclass":"US Total Market","percent":70}
//	{"command":"cash","account":"Retirement:Broker","amount":300,"currency":"USD"}
//
// Empty lines are ignored.

// CommandType is the type of a ledger line.
type CommandType string

const (
	CmdPosition CommandType = "position"
	CmdTarget   CommandType = "target"
	CmdCash     CommandType = "cash"
)

// Portfolio is everything decoded from a ledger file that is needed to build
// an allocation report for one portfolio.
type Portfolio struct {
	Name     string
	Currency string
	Targets  Targets
	Ledger   *Ledger
	// Total is the value of the portfolio: positions and uninvested cash.
	Total Money
	// Warnings are inconsistencies that do not prevent a report.
	Warnings []string
}

// InPortfolio reports whether the account belongs to the portfolio: it is the
// portfolio account itself or one of its sub accounts. Every account belongs
// to the "" portfolio.
func InPortfolio(account, portfolio string) bool {
	return portfolio == "" || account == portfolio || strings.HasPrefix(account, portfolio+":")
}

// line is the union of all fields of all ledger commands.
type line struct {
	Command   CommandType         `json:"command"`
	Symbol    string              `json:"symbol"`
	Account   string              `json:"account"`
	Class     string              `json:"class"`
	Subclass  string              `json:"subclass"`
	Value     decimal.NullDecimal `json:"value"`
	Cost      decimal.NullDecimal `json:"cost"`
	Amount    decimal.NullDecimal `json:"amount"`
	Percent   decimal.NullDecimal `json:"percent"`
	Currency  string              `json:"currency"`
	Portfolio string              `json:"portfolio"`
}

// portfolioDecoder accumulates the lines relevant to a portfolio.
type portfolioDecoder struct {
	name      string
	currency  string
	positions []Position
	figures   Figures
	cash      Money
	generic   Targets // targets without portfolio
	specific  Targets // targets of this portfolio
}

// DecodePortfolio reads a ledger file and keeps the positions, cash and
// targets of the named portfolio ("" for all accounts).
//
// Targets declared for the portfolio take precedence over targets declared
// without a portfolio.
func DecodePortfolio(r io.Reader, name string) (*Portfolio, error) {
	d := &portfolioDecoder{
		name:     name,
		figures:  make(Figures),
		generic:  make(Targets),
		specific: make(Targets),
	}

	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		lineBytes := scanner.Bytes()
		if len(strings.TrimSpace(string(lineBytes))) == 0 {
			continue // Skip empty lines
		}

		var l line
		if err := json.Unmarshal(lineBytes, &l); err != nil {
			return nil, fmt.Errorf("line %d: not a correct json: %w", i, err)
		}
		if err := d.decode(l); err != nil {
			return nil, fmt.Errorf("line %d: invalid %s command: %w", i, l.Command, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read ledger: %w", err)
	}
	return d.portfolio(), nil
}

func (d *portfolioDecoder) decode(l line) error {
	if err := d.checkCurrency(l.Currency); err != nil {
		return err
	}
	switch l.Command {
	case CmdPosition:
		return d.decodePosition(l)
	case CmdTarget:
		return d.decodeTarget(l)
	case CmdCash:
		return d.decodeCash(l)
	case "":
		return errors.New("missing command")
	default:
		return fmt.Errorf("unknown command %q", l.Command)
	}
}

// checkCurrency ensures that the ledger has a single currency.
func (d *portfolioDecoder) checkCurrency(cur string) error {
	if cur == "" {
		return nil
	}
	if d.currency == "" {
		d.currency = cur
		return nil
	}
	if d.currency != cur {
		return fmt.Errorf("currency %q differs from the ledger currency %q", cur, d.currency)
	}
	return nil
}

func (d *portfolioDecoder) decodePosition(l line) error {
	var errs error
	for _, f := range []struct{ name, value string }{
		{"symbol", l.Symbol},
		{"account", l.Account},
		{"class", l.Class},
		{"subclass", l.Subclass},
	} {
		if f.value == "" {
			errs = errors.Join(errs, fmt.Errorf("missing %q", f.name))
		}
	}
	if !l.Value.Valid {
		errs = errors.Join(errs, errors.New(`missing "value"`))
	}
	if l.Class == TotalLabel {
		errs = errors.Join(errs, fmt.Errorf("%q is a reserved asset class", TotalLabel))
	}
	if errs != nil {
		return errs
	}

	if !InPortfolio(l.Account, d.name) {
		return nil
	}
	value := M(l.Value.Decimal, l.Currency)
	p := NewPosition(l.Symbol, value, l.Class, l.Subclass, l.Account)
	d.positions = append(d.positions, p)
	if l.Cost.Valid {
		cost := M(l.Cost.Decimal, l.Currency)
		d.figures.Add(p.Bucket(), cost, value.Sub(cost))
	}
	return nil
}

func (d *portfolioDecoder) decodeTarget(l line) error {
	if l.Subclass == "" {
		return errors.New(`missing "subclass"`)
	}
	if !l.Percent.Valid {
		return errors.New(`missing "percent"`)
	}
	if err := validatePercent(l.Percent.Decimal); err != nil {
		return err
	}

	targets := d.generic
	switch l.Portfolio {
	case "":
	case d.name:
		targets = d.specific
	default:
		return nil // another portfolio's target.
	}
	if _, exists := targets[l.Subclass]; exists {
		return fmt.Errorf("duplicate target for %q", l.Subclass)
	}
	targets.Set(l.Subclass, l.Percent.Decimal)
	return nil
}

func (d *portfolioDecoder) decodeCash(l line) error {
	if l.Account == "" {
		return errors.New(`missing "account"`)
	}
	if !l.Amount.Valid {
		return errors.New(`missing "amount"`)
	}
	if InPortfolio(l.Account, d.name) {
		d.cash = d.cash.Add(M(l.Amount.Decimal, l.Currency))
	}
	return nil
}

// portfolio assembles the decoded lines.
func (d *portfolioDecoder) portfolio() *Portfolio {
	targets := make(Targets)
	for s, v := range d.generic {
		targets.Set(s, v)
	}
	for s, v := range d.specific {
		targets.Set(s, v)
	}

	ledger := NewLedger(d.positions, d.figures)
	p := &Portfolio{
		Name:     d.name,
		Currency: d.currency,
		Targets:  targets,
		Ledger:   ledger,
		Total:    ledger.TotalInvestedForPortfolio().Add(d.cash),
	}
	p.Warnings = CheckTargets(targets, ledger)
	return p
}

// CheckTargets lists the inconsistencies between targets and a ledger: targets
// that do not add up to 100%, and targets for subclasses not held.
func CheckTargets(targets Targets, ledger *Ledger) []string {
	var warnings []string
	if len(targets) > 0 && !targets.Sum().Equal(hundred) {
		warnings = append(warnings, fmt.Sprintf("targets add up to %s%%, not 100%%", targets.Sum()))
	}
	held := make(map[string]bool)
	for _, c := range ledger.AssetClasses() {
		for _, s := range ledger.AssetSubclasses(c) {
			held[s] = true
		}
	}
	for _, s := range targets.Subclasses() {
		if !held[s] {
			warnings = append(warnings, fmt.Sprintf("target for %q but no position in this subclass", s))
		}
	}
	return warnings
}

// EncodePosition appends a position line to w. The cost is written only if
// valid.
func EncodePosition(w io.Writer, p Position, cost decimal.NullDecimal) error {
	var o jsonObjectWriter
	o.Append("command", CmdPosition)
	o.Append("symbol", p.Symbol())
	o.Append("account", p.Account())
	o.Append("class", p.AssetClass())
	o.Append("subclass", p.AssetSubclass())
	o.Append("value", p.Value().Decimal())
	if cost.Valid {
		o.Append("cost", cost.Decimal)
	}
	o.Optional("currency", p.Value().Currency())
	return writeLine(w, &o)
}

// EncodeTarget appends a target line to w. portfolio can be empty.
func EncodeTarget(w io.Writer, portfolio, subclass string, percent decimal.Decimal) error {
	var o jsonObjectWriter
	o.Append("command", CmdTarget)
	o.Optional("portfolio", portfolio)
	o.Append("subclass", subclass)
	o.Append("percent", percent)
	return writeLine(w, &o)
}

func writeLine(w io.Writer, o *jsonObjectWriter) error {
	data, err := o.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal line: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}
	return nil
}
