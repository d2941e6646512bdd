package main

import (
	"os"

	"todo/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
