// Package stockpile holds build-level metadata for the stockpile module.
package stockpile

// Version is the stockpile release version.
const Version = "0.1.0"
