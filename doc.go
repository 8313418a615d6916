// Package allocation computes the asset allocation of a portfolio and compares
// it with target allocations.
//
// The core functionalities include:
//   - Ledger: an immutable list of positions, each tagged with an asset class
//     and subclass, with grouping and aggregation queries (market value, book
//     value, profit and loss, percentages).
//   - Report: a stateless builder that groups the ledger by asset class and
//     subclass and computes, for each subclass, its share of the class and of
//     the portfolio, its target, and the cash difference to reach the target.
//   - Loader: the ledger file format (JSONL) and the import of positions from
//     JSON broker exports.
//
// All computations are done with exact decimals; values are converted to
// float64 only in the Report, for display.
//
// This package serves as the foundational logic for the `alloc` command-line
// tool.
package allocation
