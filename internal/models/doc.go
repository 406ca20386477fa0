// Package models defines the core domain models for Exsplitter.
//
// # Models
//
//   - Trip: a group of people travelling together, with a default currency
//   - Member: a person on a trip, referenced by ID from expenses
//   - Expense: one payment, its payer and how it is divided among members
//
// # Design Principles
//
// 1. **IDs over pointers**: expenses reference members by ID; member lifetime
// is owned by the store, independent of any expense.
// 2. **Decimal money**: amounts are shopspring decimals, never floats.
// 3. **Read-only splits**: an Expense's Splits and PayerEarned are produced by
// the splitter at write time; readers never repair them.
package models
