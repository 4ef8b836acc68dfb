package main

import (
	"os"

	"github.com/roxlang/rox/cmd/rox/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
