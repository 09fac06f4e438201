// Package fixtures holds the well-known keypair and server public key
// constants used for custom-server interoperation, plus a loader for
// overriding them from a YAML fixture file. These are configuration inputs,
// not part of the cryptographic core itself.
package fixtures

import (
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Hex-literal defaults for the "standard" client keypair and the reference
// server's public key, as referenced by diagnostic session fixtures.
// Prefix bytes are the ones named in the protocol notes; the remainder is
// filler and MUST be overridden via LoadFile for real interoperation.
const (
	StandardPublicKeyHex  = "72f1a4a4c3d8e1b0f6a29d5c7e4b1038" + "2a6f9c0d3e5b8174a0c2f4e6081a2c3e"
	StandardPrivateKeyHex = "1891d401e7c3a08f2d5b9604e8f1c3a7" + "6b0d2f4a8c1e3507b9d1f3a5c7e90213"
	SupercellPublicKeyHex = "1315d5ba8e2c4f7061a3d5f7092b4d6e" + "8fa1c3e5072941638b0a2c4e6081a2c3"
)

// Set is a resolved set of fixture key material.
type Set struct {
	StandardPublicKey  [32]byte
	StandardPrivateKey [32]byte
	SupercellPublicKey [32]byte
}

// Default returns the built-in fixture Set, decoded from the hex constants
// above.
func Default() (*Set, error) {
	return fromHex(StandardPublicKeyHex, StandardPrivateKeyHex, SupercellPublicKeyHex)
}

// fileFormat mirrors the YAML shape a custom-server operator writes to
// override the built-in fixture values.
type fileFormat struct {
	StandardPublicKey  string `yaml:"standard_public_key"`
	StandardPrivateKey string `yaml:"standard_private_key"`
	SupercellPublicKey string `yaml:"supercell_public_key"`
}

// LoadFile reads a YAML fixture file and returns the Set it describes. Any
// field left empty in the file falls back to the built-in default.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: reading %s: %w", path, err)
	}

	var ff fileFormat
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("fixtures: parsing %s: %w", path, err)
	}

	if ff.StandardPublicKey == "" {
		ff.StandardPublicKey = StandardPublicKeyHex
	}
	if ff.StandardPrivateKey == "" {
		ff.StandardPrivateKey = StandardPrivateKeyHex
	}
	if ff.SupercellPublicKey == "" {
		ff.SupercellPublicKey = SupercellPublicKeyHex
	}

	return fromHex(ff.StandardPublicKey, ff.StandardPrivateKey, ff.SupercellPublicKey)
}

func fromHex(standardPub, standardPriv, supercellPub string) (*Set, error) {
	s := &Set{}

	for _, field := range []struct {
		name string
		src  string
		dst  *[32]byte
	}{
		{"standard_public_key", standardPub, &s.StandardPublicKey},
		{"standard_private_key", standardPriv, &s.StandardPrivateKey},
		{"supercell_public_key", supercellPub, &s.SupercellPublicKey},
	} {
		decoded, err := hex.DecodeString(field.src)
		if err != nil {
			return nil, fmt.Errorf("fixtures: decoding %s: %w", field.name, err)
		}
		if len(decoded) != 32 {
			return nil, fmt.Errorf("fixtures: %s must decode to 32 bytes, got %d", field.name, len(decoded))
		}
		copy(field.dst[:], decoded)
	}

	return s, nil
}
