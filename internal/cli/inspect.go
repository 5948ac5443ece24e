package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	sdmxml "github.com/sdmxkit/sdmxml"
	"github.com/sdmxkit/sdmxml/message"
)

// InspectReport summarizes one decoded message.
type InspectReport struct {
	Kind        string             `json:"kind"`
	MessageID   string             `json:"message_id,omitempty"`
	Prepared    string             `json:"prepared,omitempty"`
	Sender      string             `json:"sender,omitempty"`
	Collections []CollectionReport `json:"collections,omitempty"`
	DataSets    []DataSetReport    `json:"datasets,omitempty"`
	Footer      *FooterReport      `json:"footer,omitempty"`
}

// CollectionReport lists one structure payload container.
type CollectionReport struct {
	Name string   `json:"name"`
	Keys []string `json:"keys"`
}

// DataSetReport summarizes one data set.
type DataSetReport struct {
	Structure    string `json:"structure,omitempty"`
	Action       string `json:"action,omitempty"`
	Series       int    `json:"series"`
	Observations int    `json:"observations"`
	Groups       int    `json:"groups,omitempty"`
}

// FooterReport carries footer status.
type FooterReport struct {
	Severity string   `json:"severity,omitempty"`
	Code     int      `json:"code,omitempty"`
	Text     []string `json:"text,omitempty"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	var infer bool
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Decode a document and print a summary of its contents",
		Long: `Decode an SDMX-ML 2.1 document and report what it contains:
the artefacts of a structure message, the series and observation counts
of a data message, or the footer of an error message. Reads stdin when
no file is given.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeIn, err := openInput(args)
			if err != nil {
				return err
			}
			defer closeIn()

			opts := []sdmxml.ReadOption{sdmxml.WithLogger(rootOpts.logger())}
			if infer {
				opts = append(opts, sdmxml.WithInference())
			}
			msg, err := sdmxml.Read(in, opts...)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), rootOpts.Format, buildReport(msg))
		},
	}
	cmd.Flags().BoolVar(&infer, "infer", false, "infer the data structure for structure-specific data")
	return cmd
}

func openInput(args []string) (io.Reader, func(), error) {
	if len(args) == 0 {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func buildReport(msg message.Message) InspectReport {
	var r InspectReport
	if h := msg.MessageHeader(); h != nil {
		r.MessageID = h.ID
		r.Prepared = h.Prepared
		if h.Sender != nil {
			r.Sender = h.Sender.ID
		}
	}
	if f := msg.MessageFooter(); f != nil {
		fr := &FooterReport{Severity: f.Severity, Code: f.Code}
		for _, t := range f.Text {
			fr.Text = append(fr.Text, t.String())
		}
		r.Footer = fr
	}
	switch m := msg.(type) {
	case *message.StructureMessage:
		r.Kind = "structure"
		for _, nc := range m.Collections() {
			r.Collections = append(r.Collections, CollectionReport{
				Name: nc.Name,
				Keys: nc.Collection.Keys(),
			})
		}
	case *message.DataMessage:
		r.Kind = m.Kind.String()
		for _, ds := range m.DataSets {
			dr := DataSetReport{
				Action:       ds.Action,
				Series:       len(ds.Series),
				Observations: len(ds.Obs),
				Groups:       len(ds.Groups),
			}
			if ds.StructuredBy != nil {
				dr.Structure = ds.StructuredBy.ID
			}
			r.DataSets = append(r.DataSets, dr)
		}
	case *message.ErrorMessage:
		r.Kind = "error"
	default:
		r.Kind = "unknown"
	}
	return r
}

func writeReport(w io.Writer, format string, r InspectReport) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	fmt.Fprintf(w, "%s message", r.Kind)
	if r.MessageID != "" {
		fmt.Fprintf(w, " %s", r.MessageID)
	}
	if r.Sender != "" {
		fmt.Fprintf(w, " from %s", r.Sender)
	}
	fmt.Fprintln(w)
	for _, c := range r.Collections {
		fmt.Fprintf(w, "  %s (%d)\n", c.Name, len(c.Keys))
		for _, k := range c.Keys {
			fmt.Fprintf(w, "    %s\n", k)
		}
	}
	for i, ds := range r.DataSets {
		fmt.Fprintf(w, "  data set %d", i)
		if ds.Structure != "" {
			fmt.Fprintf(w, " (%s)", ds.Structure)
		}
		fmt.Fprintf(w, ": %d series, %d observations", ds.Series, ds.Observations)
		if ds.Groups > 0 {
			fmt.Fprintf(w, ", %d groups", ds.Groups)
		}
		fmt.Fprintln(w)
	}
	if r.Footer != nil {
		fmt.Fprintf(w, "  footer: code %d severity %s\n", r.Footer.Code, r.Footer.Severity)
		for _, t := range r.Footer.Text {
			fmt.Fprintf(w, "    %s\n", t)
		}
	}
	return nil
}
