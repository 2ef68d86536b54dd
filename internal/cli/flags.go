package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// OutputFormat selects how commands print their results
type OutputFormat string

const (
	// FormatText is aligned, human-readable columns
	FormatText OutputFormat = "text"
	// FormatJSON is one JSON document per command
	FormatJSON OutputFormat = "json"
)

// DefaultConfigFile is read from the working directory when --config is not given
const DefaultConfigFile = "vaspio.yaml"

// GlobalFlags holds the persistent flags shared by every command
type GlobalFlags struct {
	ConfigFile   string
	Verbose      bool
	LogFile      string
	Encoding     string
	OutputFormat string
}

// Register adds the persistent flags to cmd
func (f *GlobalFlags) Register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.ConfigFile, "config", "", "Path to config file (default: ./"+DefaultConfigFile+" if present)")
	cmd.PersistentFlags().BoolVarP(&f.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&f.LogFile, "log-file", "", "Append log output to this file instead of stderr")
	cmd.PersistentFlags().StringVar(&f.Encoding, "encoding", "", "Character encoding of the input files (default: utf-8)")
	cmd.PersistentFlags().StringVarP(&f.OutputFormat, "output", "o", string(FormatText), "Output format (text|json)")
}

// Validate checks flag values that cobra cannot check itself
func (f *GlobalFlags) Validate() error {
	switch OutputFormat(f.OutputFormat) {
	case FormatText, FormatJSON:
		return nil
	}
	return fmt.Errorf("invalid output format %q (want text or json)", f.OutputFormat)
}

// Format returns the parsed output format
func (f *GlobalFlags) Format() OutputFormat {
	if OutputFormat(f.OutputFormat) == FormatJSON {
		return FormatJSON
	}
	return FormatText
}
