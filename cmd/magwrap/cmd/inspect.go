package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/magwrap/pkg/magli"
	"github.com/spf13/cobra"
)

var listCommands bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <spec-file>",
	Short: "Summarize the line and arc commands of a MagLi spec file",
	Long: `Read the line and arc commands of a MagLi spec file, such as one written
by 'magwrap convert', and print their totals.

Examples:
  magwrap inspect coil.spc
  magwrap inspect --list coil.spc`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVarP(&listCommands, "list", "l", false, "print every command")
}

func runInspect(cmd *cobra.Command, args []string) error {
	parser, err := magli.NewParser()
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}
	cmds, err := parser.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}

	s := magli.Summarize(cmds)
	fmt.Printf("File:        %s\n", args[0])
	fmt.Printf("Lines:       %d (%.3f mm)\n", s.Lines, s.LineLength*1000)
	fmt.Printf("Arcs:        %d (%.3f mm)\n", s.Arcs, s.ArcLength*1000)
	if s.Lines+s.Arcs > 0 {
		fmt.Printf("Axial span:  %.3f..%.3f mm\n", s.MinZ*1000, s.MaxZ*1000)
		fmt.Printf("Radius:      %.3f..%.3f mm\n", s.MinRadius*1000, s.MaxRadius*1000)
	}
	fmt.Printf("Net current: %.5f A (sum over line commands)\n", s.NetLineAmps)

	if listCommands {
		fmt.Println()
		for i, c := range cmds {
			fmt.Printf("  [%d] %s\n", i, c)
		}
	}
	return nil
}
