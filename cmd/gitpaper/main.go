package main

import (
	"os"

	"github.com/okineadev/gitpaper/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
