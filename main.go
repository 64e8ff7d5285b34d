package main

import (
	"inboxintel/cmd/cli"
)

// version will be set by goreleaser during build
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
