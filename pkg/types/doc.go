// Package types defines the Store and Ledger interfaces, the material,
// recipe and audit entities, and the standard errors for the stockpile
// inventory ledger.
package types
