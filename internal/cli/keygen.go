package cli

import (
	"encoding/hex"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/clashforge/v8session/internal/cryptocore"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a Curve25519 keypair",
	RunE:  runKeygen,
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}

func runKeygen(cmd *cobra.Command, args []string) error {
	keys, err := cryptocore.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("generating keypair: %w", err)
	}

	fmt.Printf("%s %s\n", color.CyanString("public_key: "), hex.EncodeToString(keys.Public[:]))
	fmt.Printf("%s %s\n", color.CyanString("private_key:"), hex.EncodeToString(keys.Private[:]))
	return nil
}
