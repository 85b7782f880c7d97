package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/JurisCompare/pkg/client"
)

type snapshotView struct {
	Server string `json:"server"`
	client.SnapshotInfo
}

func (v snapshotView) TableHeaders() []string {
	return []string{"Server", "Generation", "Loaded", "Jurisdictions", "Rules", "Decisions", "Terms"}
}

func (v snapshotView) TableRows() [][]string {
	return [][]string{{
		v.Server,
		fmt.Sprintf("%d", v.Generation),
		v.LoadedAt.Format(time.RFC3339),
		fmt.Sprintf("%d", v.Jurisdictions),
		fmt.Sprintf("%d", v.Rules),
		fmt.Sprintf("%d", v.Decisions),
		fmt.Sprintf("%d", v.Terms),
	}}
}

func (v snapshotView) Text() string {
	return fmt.Sprintf("%s: generation %d loaded %s (%d jurisdictions, %d rules, %d decisions, %d terms)",
		v.Server, v.Generation, v.LoadedAt.Format(time.RFC3339), v.Jurisdictions, v.Rules, v.Decisions, v.Terms)
}

// newServerCmd talks to a running apiserver through the SDK.
func newServerCmd() *cobra.Command {
	var serverURL, apiKey string
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Inspect and control a running API server",
	}
	cmd.PersistentFlags().StringVar(&serverURL, "server", "", "API base URL (default: http://localhost:<server.http_port>)")
	cmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "bearer token sent to the API")

	apiClient := func(cc *CLIContext) (*client.Client, string, error) {
		base := serverURL
		if base == "" {
			base = fmt.Sprintf("http://localhost:%d", cc.Config.Server.HTTPPort)
		}
		c, err := client.NewClient(base,
			client.WithAPIKey(apiKey),
			client.WithRetryMax(1),
			client.WithUserAgent("jurisctl/"+Version),
		)
		return c, base, err
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the snapshot the server is answering from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			c, base, err := apiClient(cc)
			if err != nil {
				return err
			}
			info, err := c.Admin().Snapshot(ctx)
			if err != nil {
				return err
			}
			return PrintResult(cmd, snapshotView{Server: base, SnapshotInfo: *info})
		},
	}

	reload := &cobra.Command{
		Use:   "reload",
		Short: "Rebuild the server snapshot from its feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			c, base, err := apiClient(cc)
			if err != nil {
				return err
			}
			info, err := c.Admin().Reload(ctx)
			if err != nil {
				return err
			}
			if cc.OutputFormat != OutputText {
				return PrintResult(cmd, snapshotView{Server: base, SnapshotInfo: *info})
			}
			PrintSuccess(cmd, fmt.Sprintf("%s reloaded to generation %d", base, info.Generation))
			return nil
		},
	}

	cmd.AddCommand(status, reload)
	return cmd
}

//Personal.AI order the ending
