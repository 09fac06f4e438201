// Package cli implements the command-line interface for the v8 game server.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "v8server",
	Short: "v8 game protocol session server",
	Long: `v8server runs and operates a reverse-engineered Clash of Clans v8
protocol session server.

Commands:
  serve       run the TCP listening server
  keygen      print a freshly generated Curve25519 keypair
  fingerprint print the session fingerprint for a pair of public keys`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command, printing any returned error in red and
// exiting non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.v8server.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

// ConfigFile returns the --config flag value, empty if unset.
func ConfigFile() string {
	return cfgFile
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
	os.Exit(1)
}
