package cmd

import (
	"fmt"

	"github.com/midrangehq/go-fixedform/pkg/dds"
	"github.com/midrangehq/go-fixedform/pkg/meta"
	"github.com/midrangehq/go-fixedform/pkg/rpgle"
	"github.com/spf13/cobra"
)

var defCmd = &cobra.Command{
	Use:   "def <name> [file]",
	Short: "Locate the definition of a name",
	Long: `Parse a fixed-form source file and print the span of the first
definition whose name matches, case-insensitively. Field definitions win
over subroutine definitions, which win over keyword-text matches.

Examples:
  fixedform def LastId program.rpgle
  fixedform def --lang dds id cowevt.pfdds`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDef,
}

func init() {
	rootCmd.AddCommand(defCmd)
	defCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func runDef(cmd *cobra.Command, args []string) error {
	pattern := args[0]
	input, filename, err := readInput(args[1:])
	if err != nil {
		return err
	}
	l := logger(cmd)
	l.Debug("searching", "file", filename, "lang", lang, "name", pattern)

	var span meta.Span
	var found bool
	switch lang {
	case "dds":
		cst, err := dds.ParseCST(input)
		if err != nil {
			return renderParseError(err, input, filename)
		}
		ast, _ := dds.ParseAST(cst)
		span, found = ast.QueryDefinition(pattern)
	default:
		cst, err := rpgle.ParseCST(input)
		if err != nil {
			return renderParseError(err, input, filename)
		}
		span, found = rpgle.ParseAST(cst).QueryDefinition(pattern)
	}

	if !found {
		return fmt.Errorf("definition of %q not found", pattern)
	}
	fmt.Printf("%d %d %d %d\n", span.Start.Row, span.Start.Col, span.End.Row, span.End.Col)
	return nil
}
