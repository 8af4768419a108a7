package main

import (
	"os"

	vignettescmder "github.com/papercomputeco/vignettes/cmd/vignettes"
)

func main() {
	cmd := vignettescmder.NewVignettesCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
