package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/passkeep/passkeep-go/internal/model"
	"github.com/passkeep/passkeep-go/internal/ui"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List stored services",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return runList(cmd, rootOpts, query, reveal)
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "print passwords in clear text")

	return cmd
}

func runList(cmd *cobra.Command, rootOpts *RootOptions, query string, reveal bool) error {
	api, err := rootOpts.client()
	if err != nil {
		return err
	}
	services, err := api.ListServices(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("listing services: %w", err)
	}
	return printServices(cmd.OutOrStdout(), services, reveal)
}

func printServices(w io.Writer, services []model.StoredService, reveal bool) error {
	if len(services) == 0 {
		_, err := fmt.Fprintln(w, "no saved services")
		return err
	}
	vis := ui.NewVisibility()
	vis.Set(reveal)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range services {
		fmt.Fprintf(tw, "%s\t%s\n", s.ServiceName, vis.Mask(s.ServicePassword, false))
	}
	return tw.Flush()
}
