package main

import (
	"os"

	"talent-match/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
