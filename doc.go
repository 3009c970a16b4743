// Package rebalance computes how far a brokerage portfolio deviates from a
// user-defined target allocation.
//
// The core functionalities include:
//   - Category Configuration: Parsing the tabular stock-categories file that
//     declares target weights per category, the category membership of each
//     ticker, and the reserved cash amount.
//   - Portfolio Summary: Normalizing the raw brokerage portfolio record into
//     equity, cash and day-change figures.
//   - Position Enrichment: Joining raw position records with instrument and
//     quote lookups to compute cost, value and return per holding.
//   - Allocation Reconciliation: Joining categories, enriched positions and
//     cash into per-category ideal vs. actual allocation percentages,
//     including weight splitting for tickers that belong to several
//     categories and the reserved-cash carve-out for the "Cash" category.
//
// This package serves as the foundational logic for the `rbl` command-line
// tool. Network access to the brokerage is abstracted behind the Brokerage
// interface and implemented by the robinhood package.
package rebalance
