package main

import (
	"os"

	"propfirm-go/cmd/propfirm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
