package main

import (
	"fmt"
	"os"

	"github.com/hdt3213/nosqlcore/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "(error) "+err.Error())
		os.Exit(1)
	}
}
