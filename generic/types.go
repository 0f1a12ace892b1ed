/*
Package generic provides the domain-agnostic building blocks of the leave engine.

PURPOSE:
  Types shared by the engine (timeoff), the stores and the HTTP layer that
  carry no leave-specific rules: calendar days, identifiers and the error
  taxonomy.

KEY CONCEPTS:
  - Date: a calendar day, used as ledger key and JSON map key
  - EmployeeID: type-safe identifier for a ledger owner
  - Errors: sentinels + structured errors (errors.go)

DESIGN PRINCIPLES:
  1. Value types: Date is comparable, no pointers, no locations
  2. Type Safety: EmployeeID prevents mixing ids with category keys
  3. Errors as values: nothing here panics on user input

SEE ALSO:
  - time.go: Date arithmetic and parsing
  - errors.go: Error taxonomy
  - timeoff/ledger.go: Ledger keyed by Date
*/
package generic

// =============================================================================
// IDENTIFIERS
// =============================================================================

// EmployeeID identifies the owner of a ledger.
type EmployeeID string

func (id EmployeeID) String() string { return string(id) }
