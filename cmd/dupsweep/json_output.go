package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

// writeJSON prints v to the command's stdout for --json and "-o -" output.
func writeJSON(cmd *cobra.Command, v any) error {
	return encodeJSON(cmd.OutOrStdout(), v)
}

// encodeJSON leaves HTML characters unescaped so media paths and clip names
// containing & or < stay readable.
func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
