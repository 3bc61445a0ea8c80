package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aerissecure/franklin/xlsx"
)

func newPreviewCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "preview <report.xlsx>",
		Short: "Render a report as HTML with its conditional colors applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := xlsx.OpenWorkbookModel(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			html := xlsx.RenderWorkbookHTML(m)
			if out == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), html)
				return err
			}
			return os.WriteFile(out, []byte(html), 0644)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write HTML to this file instead of stdout")
	return cmd
}
