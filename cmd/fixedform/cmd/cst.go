package cmd

import (
	"fmt"

	"github.com/midrangehq/go-fixedform/internal/errfmt"
	"github.com/midrangehq/go-fixedform/pkg/dds"
	"github.com/midrangehq/go-fixedform/pkg/rpgle"
	"github.com/spf13/cobra"
)

var cstRender bool

var cstCmd = &cobra.Command{
	Use:   "cst [file]",
	Short: "Parse source into its concrete syntax tree",
	Long: `Parse a fixed-form source file and print the lossless concrete syntax
tree as YAML. With --render, print the reconstructed padded source
instead, which must equal the input byte-for-byte.

Examples:
  # Parse an RPGLE member
  fixedform cst program.rpgle

  # Parse DDS and verify the round trip
  fixedform cst --lang dds --render cowevt.pfdds

  # Parse inline code
  fixedform cst -e "     H OPTION(*nodebugio)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCst,
}

func init() {
	rootCmd.AddCommand(cstCmd)
	cstCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
	cstCmd.Flags().BoolVar(&cstRender, "render", false, "print the rendered source instead of YAML")
}

func runCst(cmd *cobra.Command, args []string) error {
	input, filename, err := readInput(args)
	if err != nil {
		return err
	}
	l := logger(cmd)
	l.Debug("parsing", "file", filename, "lang", lang, "bytes", len(input))

	var rendered string
	var out []byte
	switch lang {
	case "dds":
		cst, err := dds.ParseCST(input)
		if err != nil {
			return renderParseError(err, input, filename)
		}
		rendered = cst.Render()
		out, err = dds.SerializeCST(cst)
		if err != nil {
			return err
		}
		l.Debug("parsed", "lines", len(cst.Lines))
	default:
		cst, err := rpgle.ParseCST(input)
		if err != nil {
			return renderParseError(err, input, filename)
		}
		rendered = cst.Render()
		out, err = rpgle.SerializeCST(cst)
		if err != nil {
			return err
		}
		l.Debug("parsed", "lines", len(cst.Lines))
	}

	if cstRender {
		fmt.Println(rendered)
		return nil
	}
	fmt.Print(string(out))
	return nil
}

// renderParseError wraps a LineTooLongError with source context.
func renderParseError(err error, input, filename string) error {
	switch e := err.(type) {
	case *rpgle.LineTooLongError:
		return errfmt.New(e.Row, e.Width, e.Error(), input, filename)
	case *dds.LineTooLongError:
		return errfmt.New(e.Row, e.Width, e.Error(), input, filename)
	default:
		return err
	}
}
