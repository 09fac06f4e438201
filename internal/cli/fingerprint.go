package cli

import (
	"encoding/hex"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/clashforge/v8session/internal/fixtures"
)

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint <client-public-key-hex> <server-public-key-hex>",
	Short: "Print the session fingerprint for a pair of public keys",
	Args:  cobra.ExactArgs(2),
	RunE:  runFingerprint,
}

func init() {
	rootCmd.AddCommand(fingerprintCmd)
}

func runFingerprint(cmd *cobra.Command, args []string) error {
	clientPublic, err := decodePublicKey(args[0])
	if err != nil {
		return fmt.Errorf("client public key: %w", err)
	}
	serverPublic, err := decodePublicKey(args[1])
	if err != nil {
		return fmt.Errorf("server public key: %w", err)
	}

	fp := fixtures.SessionFingerprint(clientPublic, serverPublic)
	fmt.Printf("%s %s\n", color.CyanString("fingerprint:"), fp)
	return nil
}

func decodePublicKey(s string) ([32]byte, error) {
	var key [32]byte
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return key, err
	}
	if len(decoded) != 32 {
		return key, fmt.Errorf("expected 32 bytes, got %d", len(decoded))
	}
	copy(key[:], decoded)
	return key, nil
}
