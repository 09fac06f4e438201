package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// SetVersionInfo sets the version information from build flags.
func SetVersionInfo(ver, com, date string) {
	version = ver
	commit = com
	buildDate = date
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("v8server %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildDate)
		fmt.Printf("  Go version: %s\n", runtime.Version())
		fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Println()
		fmt.Println("Cryptographic primitives:")
		fmt.Println("  - Curve25519 (nacl/box)")
		fmt.Println("  - XSalsa20-Poly1305 (nacl/secretbox)")
		fmt.Println("  - Blake2b nonce derivation")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
