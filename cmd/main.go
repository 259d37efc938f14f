package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	claro "go.claro.dev/pkg"
)

func main() {
	root := &cobra.Command{
		Use:           "claro",
		Short:         "Interpreter and LLVM front-end for the claro expression language",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	root.AddCommand(newRunCmd(), newCheckCmd(), newGraphCmd(), newIRCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [file]",
		Short: "Parse, check and execute a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args)
			if err != nil {
				return err
			}

			res := claro.NewRunner(newLogger(cmd)).Run(source)
			if len(res.Errors) != 0 {
				printErrors(res.Errors)
				os.Exit(1)
			}

			printValues(res)
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Run the static phases only",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args)
			if err != nil {
				return err
			}

			_, records := claro.NewCompiler().Check(source)
			if len(records) != 0 {
				printErrors(records)
				os.Exit(1)
			}

			fmt.Println("ok")
			return nil
		},
	}
}

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Export the program's AST as a graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")

			ast, records := claro.NewCompiler().Check(source)
			if len(records) != 0 {
				printErrors(records)
				os.Exit(1)
			}

			graph := claro.NewGraph(ast)
			if format == "json" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(graph)
			}

			fmt.Print(graph.DOT())
			return nil
		},
	}

	cmd.Flags().String("format", "dot", "Output format: dot or json")
	return cmd
}

func newIRCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ir [file]",
		Short: "Compile the program to LLVM IR",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args)
			if err != nil {
				return err
			}

			records, err := claro.NewCompiler().CompileTo(os.Stdout, source)
			if err != nil {
				return err
			}

			if len(records) != 0 {
				printErrors(records)
				os.Exit(1)
			}

			return nil
		},
	}
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func readSource(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}

	data, err := os.ReadFile(args[0])
	return string(data), err
}

func printErrors(records []claro.ErrorRecord) {
	for _, rec := range records {
		if rec.Line != nil && rec.Column != nil {
			fmt.Fprintf(os.Stderr, "%s: %s (line %d, column %d)\n", rec.Type, rec.Message, *rec.Line, *rec.Column)
			continue
		}

		fmt.Fprintf(os.Stderr, "%s: %s\n", rec.Type, rec.Message)
	}
}

func printValues(res *claro.Result) {
	names := make([]string, 0, len(res.Values))
	for name := range res.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sym := res.Symbols.Get(name)
		fmt.Printf("%s\t%s\t%s\n", name, sym.Type, res.Values[name])
	}
}
