package main

import (
	"os"

	"github.com/fenthope/logvision/internal/cli"
)

// Version can be set during build with -ldflags
var version = "0.1.0"

func main() {
	os.Exit(cli.Execute(version))
}
