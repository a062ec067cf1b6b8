package main

import (
	"os"

	"seo_auditor/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
