package allocation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// Selectors tell how to read positions from a broker's JSON export.
//
// Items selects the list of holdings in the document, e.g. "$.holdings[*]".
// Other paths are evaluated on each item, e.g. "$.ticker". A field without a
// path falls back to the constant of the same name (Class, Subclass, Account).
type Selectors struct {
	Items    string
	Symbol   string
	Value    string
	Cost     string // optional
	Class    string
	Subclass string
	Account  string // optional

	DefaultClass    string
	DefaultSubclass string
	DefaultAccount  string
	Currency        string
}

// Imported is a position read from an export, with its cost if any.
type Imported struct {
	Position Position
	Cost     decimal.NullDecimal
}

// ImportPositions reads a JSON document and extracts positions with the
// selectors.
func ImportPositions(r io.Reader, sel Selectors) ([]Imported, error) {
	if sel.Items == "" || sel.Symbol == "" || sel.Value == "" {
		return nil, errors.New("items, symbol and value paths are required")
	}

	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("not a correct json document: %w", err)
	}
	jitems, err := jsonpath.Get(sel.Items, doc)
	if err != nil {
		return nil, fmt.Errorf("error evaluating items path %q: %w", sel.Items, err)
	}
	items, ok := jitems.([]any)
	if !ok {
		return nil, fmt.Errorf("items path %q does not select a list", sel.Items)
	}

	res := make([]Imported, 0, len(items))
	for i, item := range items {
		imp, err := sel.importItem(item)
		if err != nil {
			return nil, fmt.Errorf("item #%d: %w", i, err)
		}
		res = append(res, imp)
	}
	return res, nil
}

func (sel Selectors) importItem(item any) (Imported, error) {
	symbol, err := getString(sel.Symbol, item, "")
	if err != nil {
		return Imported{}, err
	}
	class, err := getString(sel.Class, item, sel.DefaultClass)
	if err != nil {
		return Imported{}, err
	}
	subclass, err := getString(sel.Subclass, item, sel.DefaultSubclass)
	if err != nil {
		return Imported{}, err
	}
	account, err := getString(sel.Account, item, sel.DefaultAccount)
	if err != nil {
		return Imported{}, err
	}
	value, err := getDecimal(sel.Value, item)
	if err != nil {
		return Imported{}, err
	}

	var errs error
	for _, f := range []struct{ name, value string }{
		{"symbol", symbol},
		{"class", class},
		{"subclass", subclass},
		{"account", account},
	} {
		if f.value == "" {
			errs = errors.Join(errs, fmt.Errorf("no %s", f.name))
		}
	}
	if errs != nil {
		return Imported{}, errs
	}

	imp := Imported{
		Position: NewPosition(symbol, M(value, sel.Currency), class, subclass, account),
	}
	if sel.Cost != "" {
		cost, err := getDecimal(sel.Cost, item)
		if err != nil {
			return Imported{}, err
		}
		imp.Cost = decimal.NewNullDecimal(cost)
	}
	return imp, nil
}

// get evaluates a path on an item.
func get(path string, item any) (any, error) {
	jval, err := jsonpath.Get(path, item)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return jval, nil
}

func getString(path string, item any, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	jval, err := get(path, item)
	if err != nil {
		return "", err
	}
	switch v := jval.(type) {
	case string:
		return v, nil
	case float64:
		return decimal.NewFromFloat(v).String(), nil
	default:
		return "", fmt.Errorf("%q is not a string: %v", path, jval)
	}
}

func getDecimal(path string, item any) (decimal.Decimal, error) {
	jval, err := get(path, item)
	if err != nil {
		return decimal.Zero, err
	}
	switch v := jval.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		// some exports write numbers as strings, with a decimal comma.
		s := strings.ReplaceAll(v, ",", ".")
		s = strings.ReplaceAll(s, " ", "")
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%q is an invalid number %q: %w", path, v, err)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("%q is not a number: %v", path, jval)
	}
}
