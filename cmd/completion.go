package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion tree of the alloc command.
func Completion() *complete.Command {
	portfolio := predict.Something
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":      predict.Files("*.toml"),
			"ledger-file": predict.Files("*.jsonl"),
			"v":           predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"report": {
				Flags: map[string]complete.Predictor{
					"p":      portfolio,
					"format": predict.Set(formats),
				},
			},
			"positions": {
				Flags: map[string]complete.Predictor{
					"p":     portfolio,
					"class": predict.Something,
					"raw":   predict.Nothing,
				},
			},
			"check": {
				Flags: map[string]complete.Predictor{
					"p": portfolio,
				},
			},
			"import": {
				Flags: map[string]complete.Predictor{
					"json":             predict.Files("*.json"),
					"dry-run":          predict.Nothing,
					"items":            predict.Something,
					"symbol":           predict.Something,
					"value":            predict.Something,
					"cost":             predict.Something,
					"class":            predict.Something,
					"subclass":         predict.Something,
					"account":          predict.Something,
					"default-class":    predict.Something,
					"default-subclass": predict.Something,
					"default-account":  predict.Something,
					"currency":         predict.Set{"USD", "EUR", "GBP", "CHF", "JPY"},
				},
			},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
