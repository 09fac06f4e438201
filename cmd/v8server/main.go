// Command v8server runs the v8 game protocol session server.
package main

import (
	"github.com/clashforge/v8session/internal/cli"
)

var (
	version   = "dev"
	gitCommit = "none"
	buildDate = "unknown"
)

func main() {
	cli.SetVersionInfo(version, gitCommit, buildDate)
	cli.Execute()
}
