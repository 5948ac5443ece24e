package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/sdmxkit/sdmxml/registry"
)

// NewSourcesCommand creates the sources command.
func NewSourcesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sources <registry.yaml>",
		Short:        "List the SDMX providers in a source registry file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadFile(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				out := make([]registry.Source, 0, reg.Len())
				for _, id := range reg.IDs() {
					s, _ := reg.Get(id)
					out = append(out, s)
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			for _, id := range reg.IDs() {
				s, _ := reg.Get(id)
				fmt.Fprintf(w, "%-16s %s", s.ID, s.URL)
				if s.Name != "" {
					fmt.Fprintf(w, "  (%s)", s.Name)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	return cmd
}
