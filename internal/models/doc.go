// Package models defines the core domain records for splitledger.
//
// # Records
//
//   - Group: a set of members sharing expenses
//   - Member: a person in exactly one group, referenced by ID everywhere else
//   - Expense: who paid how much, and the resolved Split list for it
//   - Settlement: a recorded transfer between two members, optionally marked paid
//   - Category: static lookup table used for presentation and analytics
//
// Balances and suggested transfers are not stored. They are recomputed from
// the expense history by the calculator package on every request.
//
// # Design Principles
//
// 1. **IDs, not pointers**: relationships are expressed with ID strings
// 2. **Exact money**: all amounts are decimal.Decimal, never float64
// 3. **Resolved splits**: an expense carries the concrete per-member amounts
// decided when it was created; the split method is kept for display only
package models
