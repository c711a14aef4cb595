// cmd/fumeplot/main.go
package main

import (
	fumeplot "github.com/mwiater/fumeplot/internal/commands"
)

// Set by -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = fumeplot.SetVersionInfo
	executeCmd     = fumeplot.Execute
)

// main starts the fumeplot CLI by delegating to the cobra root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
