package cmd

import (
	"fmt"
	"io"
	"os"

	log "charm.land/log/v2"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	lang     string
	evalExpr string
)

var rootCmd = &cobra.Command{
	Use:   "fixedform",
	Short: "Parser for fixed-form RPGLE and PF-DDS source",
	Long: `fixedform parses the fixed-column source languages of legacy midrange
platforms — RPGLE and DDS for physical files — into a lossless concrete
syntax tree and an abstract view suitable for structural queries.

Every input character is attributed to a positioned, typed field, valid
or not, so the parsed tree renders back to the padded source
byte-for-byte even over half-written programs.`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "rpgle", "source language: rpgle or dds")
}

// logger returns the CLI's structured logger, levelled by --verbose.
func logger(cmd *cobra.Command) *log.Logger {
	l := log.New(os.Stderr)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// readInput resolves the source text from the -e flag, a file argument,
// or stdin.
func readInput(args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(content), "<stdin>", nil
}
