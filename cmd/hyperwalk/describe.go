package main

import (
	"fmt"

	"github.com/aretw0/hyperwalk/internal/cli"
	"github.com/aretw0/hyperwalk/internal/presentation/graph"
	"github.com/aretw0/hyperwalk/internal/walker"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <start-uri>",
	Short: "List the link relations offered by the resource reached",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, s, err := newBuilder(cmd, args)
		if err != nil {
			return err
		}
		res, err := b.GetResource(cmd.Context())
		if err != nil {
			return err
		}
		doc, ok := res.(map[string]any)
		if !ok {
			return fmt.Errorf("resource is a %T, not a JSON object", res)
		}
		rels, err := walker.Relations(b.MediaType(), doc)
		if err != nil {
			return err
		}

		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(rels, &graph.GraphOverlay{
				StartURI: b.StartURI(),
				Trail:    b.Links(),
			}))
			return nil
		}
		if s.cfg.Output != "text" {
			return s.printer.Value(rels)
		}
		self, _ := walker.SelfHref(doc)
		out, err := cli.RelationTable(self, rels, cli.IsTerminal(cmd.OutOrStdout()))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	describeCmd.Flags().Bool("mermaid", false, "Print the relations as a Mermaid flowchart")
	rootCmd.AddCommand(describeCmd)
}
