package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lyp/geotag/internal/format"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported photo formats and how each is written",
	RunE:  runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

// formatGroups describes each support level the way the pipeline actually
// dispatches it: only BMFF-style containers go through exiftool.
var formatGroups = []struct {
	level format.Level
	note  string
}{
	{format.FullWrite, "written natively"},
	{format.NeedsExternalTool, "written via exiftool"},
	{format.Risky, "written natively, modification may corrupt the file"},
	{format.Minimal, "no metadata support, always skipped"},
}

func runFormats(cmd *cobra.Command, args []string) error {
	for _, g := range formatGroups {
		exts := format.ExtensionsByLevel(g.level)
		fmt.Printf("%-14s %s\n", g.level.String()+":", strings.Join(exts, " "))
		fmt.Printf("%-14s (%s)\n", "", g.note)
	}
	return nil
}
