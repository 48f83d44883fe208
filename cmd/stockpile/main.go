// Command stockpile is the inventory ledger CLI.
package main

import "github.com/mesh-intelligence/stockpile/internal/cli"

func main() {
	cli.Execute()
}
