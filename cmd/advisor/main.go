package main

import (
	"os"

	"ETFAdvisor/cmd/advisor/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
