package main

import (
	"os"

	"github.com/bibbank/amortization/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
