package main

import (
	"os"

	"github.com/simonbystrom/teamctl/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
