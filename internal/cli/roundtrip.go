package cli

import (
	"os"

	"github.com/spf13/cobra"

	sdmxml "github.com/sdmxkit/sdmxml"
)

// NewRoundtripCommand creates the roundtrip command.
func NewRoundtripCommand(rootOpts *RootOptions) *cobra.Command {
	var out string
	var pretty bool
	cmd := &cobra.Command{
		Use:   "roundtrip [file]",
		Short: "Decode a document and encode it again",
		Long: `Decode an SDMX-ML 2.1 document and write it back out, which
normalizes formatting and strips anything the information model does not
carry. Reads stdin when no file is given, writes stdout unless -o is set.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeIn, err := openInput(args)
			if err != nil {
				return err
			}
			defer closeIn()

			msg, err := sdmxml.Read(in, sdmxml.WithLogger(rootOpts.logger()))
			if err != nil {
				return err
			}
			var wopts []sdmxml.WriteOption
			if pretty {
				wopts = append(wopts, sdmxml.Pretty())
			}
			data, err := sdmxml.Write(msg, wopts...)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(out, data, 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output filename (default stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the output")
	return cmd
}
