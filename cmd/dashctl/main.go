package main

import (
	"os"

	"player-analytics/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
