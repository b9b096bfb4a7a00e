package main

import (
	"os"

	"github.com/ambertests/pickyport/commands"
)

func main() {
	os.Exit(commands.Run(os.Args[1:]))
}
