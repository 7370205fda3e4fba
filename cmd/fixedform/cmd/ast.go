package cmd

import (
	"fmt"

	"github.com/midrangehq/go-fixedform/pkg/dds"
	"github.com/midrangehq/go-fixedform/pkg/rpgle"
	"github.com/spf13/cobra"
)

var astCmd = &cobra.Command{
	Use:   "ast [file]",
	Short: "Parse source into its abstract syntax tree",
	Long: `Parse a fixed-form source file, assemble multi-line specs or entries,
and print the abstract syntax tree as YAML.

Examples:
  # Assemble RPGLE specs with their continuations folded in
  fixedform ast program.rpgle

  # Assemble DDS entries
  fixedform ast --lang dds cowevt.pfdds`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAst,
}

func init() {
	rootCmd.AddCommand(astCmd)
	astCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func runAst(cmd *cobra.Command, args []string) error {
	input, filename, err := readInput(args)
	if err != nil {
		return err
	}
	l := logger(cmd)
	l.Debug("parsing", "file", filename, "lang", lang, "bytes", len(input))

	var out []byte
	switch lang {
	case "dds":
		cst, err := dds.ParseCST(input)
		if err != nil {
			return renderParseError(err, input, filename)
		}
		ast, diags := dds.ParseAST(cst)
		for _, d := range diags {
			l.Warn(d.Message, "span", d.Span.String())
		}
		out, err = dds.SerializeAST(ast)
		if err != nil {
			return err
		}
		l.Debug("assembled", "entries", len(ast.Entries))
	default:
		cst, err := rpgle.ParseCST(input)
		if err != nil {
			return renderParseError(err, input, filename)
		}
		ast := rpgle.ParseAST(cst)
		out, err = rpgle.SerializeAST(ast)
		if err != nil {
			return err
		}
		l.Debug("assembled", "specs", len(ast.Specs))
	}

	fmt.Print(string(out))
	return nil
}
