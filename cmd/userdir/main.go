package main

import (
	"fmt"
	"os"

	"user-directory-service/cmd/userdir/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "userdir: %v\n", err)
		os.Exit(1)
	}
}
