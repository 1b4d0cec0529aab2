package astfmt

import (
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/aledsdavies/pipeparse/core/ast"
)

// Digest computes the BLAKE2b-256 hash of the canonical CBOR encoding.
// Positions are not part of the encoding, so layout changes keep the digest.
// Returns hex-encoded hash: "blake2b:a3f8b2c1d4e5f6a7..."
func Digest(root ast.Node) (string, error) {
	data, err := MarshalBinary(root)
	if err != nil {
		return "", fmt.Errorf("failed to serialize AST for digest: %w", err)
	}

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := hasher.Write(data); err != nil {
		return "", err
	}

	return fmt.Sprintf("blake2b:%x", hasher.Sum(nil)), nil
}
