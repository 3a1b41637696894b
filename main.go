package main

import (
	"os"

	"germplasm-accession-importer/cli"
)

func main() {
	os.Exit(cli.Execute())
}
