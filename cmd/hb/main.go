package main

import (
	"fmt"
	"os"

	_ "github.com/mtibben/androiddnsfix"
	"github.com/nojima/httpbench-go"
)

func main() {
	if err := httpbench.Main(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
