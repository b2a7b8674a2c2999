package main

import (
	"os"

	"github.com/arthur-debert/modelconv/cmd/modelconv"
)

func main() {
	os.Exit(modelconv.Execute())
}
