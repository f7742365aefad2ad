package cmd

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/ssargent/bytevec/pkg/bytevec"
	"github.com/ssargent/bytevec/pkg/config"
	"github.com/ssargent/bytevec/pkg/schema"
	"gopkg.in/yaml.v3"
)

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// readEncoded reads an encoded buffer, hex-decoding it when asHex is set.
func readEncoded(path string, stdin io.Reader, asHex bool) ([]byte, error) {
	data, err := readInput(path, stdin)
	if err != nil || !asHex {
		return data, err
	}
	decoded, err := hex.DecodeString(string(bytes.Join(bytes.Fields(data), nil)))
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return decoded, nil
}

// parseValue reads a YAML or JSON document into generic values.
func parseValue(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse value: %w", err)
	}
	return v, nil
}

// chooseWidth picks the size type: an explicit flag first, then the
// schema's declaration, then the configured default.
func chooseWidth(flag string, s *schema.Schema, cfg *config.Config) (bytevec.Width, error) {
	switch {
	case flag != "":
		return bytevec.ParseWidth(flag)
	case s.SizeType != "":
		return s.Width(), nil
	}
	return cfg.Width()
}
