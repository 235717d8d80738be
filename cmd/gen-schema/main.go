// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

// Command gen-schema writes the JSON Schema of plugin.yaml manifests.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/pogobot/pogobot/internal/plugin"
)

func main() {
	outPath := pflag.StringP("out", "o", filepath.Join("schemas", "plugin.schema.json"), "output file")
	pflag.Parse()

	if err := write(*outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s\n", *outPath)
}

func write(outPath string) error {
	schema, err := plugin.GenerateSchema()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(outPath, schema, 0o600); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
