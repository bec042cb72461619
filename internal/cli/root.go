package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/passkeep/passkeep-go/internal/client"
)

const defaultServer = "http://localhost:8080"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server     string
	CookieFile string
}

// client creates an API client that remembers cookies in CookieFile.
func (o *RootOptions) client() (*client.Client, error) {
	return client.New(o.Server, client.WithCookieFile(o.CookieFile))
}

// NewRootCommand creates the passkeep command. Without a subcommand it opens
// the terminal UI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	server := os.Getenv("PASSKEEP_SERVER")
	if server == "" {
		server = defaultServer
	}

	// Without a config dir cookies stay in memory.
	cookieFile, _ := client.DefaultCookieFile()

	cmd := &cobra.Command{
		Use:           "passkeep",
		Short:         "Generate passwords and keep them per service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", server, "passkeep API address")
	cmd.PersistentFlags().StringVar(&opts.CookieFile, "cookie-file", cookieFile, "file keeping cookies between runs (empty keeps them in memory)")

	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewListCommand(opts))

	return cmd
}
