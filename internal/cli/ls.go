package cli

import (
	"context"
	"fmt"

	"github.com/lucid-sh/console/internal/api"
	"github.com/lucid-sh/console/internal/query"
	"github.com/lucid-sh/console/internal/ui/features/activationkeys"
	"github.com/lucid-sh/console/internal/ui/features/certauthorities"
	"github.com/lucid-sh/console/internal/ui/features/hosts"
	"github.com/lucid-sh/console/internal/view"
	"github.com/spf13/cobra"
)

func newLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "ls {hosts|keys|cas}",
		Short:     "List a fleet collection in the terminal",
		Long:      `Fetch a collection from the API and render it as a table, with the same empty and error handling as the web console.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"hosts", "keys", "cas"},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			client, err := api.New(cfg.APIURL, logger)
			if err != nil {
				return err
			}
			cache := query.NewCache(logger)
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch args[0] {
			case "hosts":
				q := query.Fetch(ctx, cache, hosts.CollectionKey,
					func(ctx context.Context) (api.PaginatedList[api.Host], error) {
						return client.ListHosts(ctx, api.ListParams{})
					})
				model := view.Build(q, hosts.Project, hosts.Columns(), hosts.EmptyNotice())
				return view.RenderText(out, view.Materialize(model))

			case "keys":
				q := query.Fetch(ctx, cache, activationkeys.CollectionKey,
					func(ctx context.Context) (api.PaginatedList[api.ActivationKey], error) {
						return client.ListActivationKeys(ctx, api.ListParams{})
					})
				model := view.Build(q, activationkeys.Project, activationkeys.DataColumns(), activationkeys.EmptyNotice())
				return view.RenderText(out, view.Materialize(model))

			case "cas":
				q := query.Fetch(ctx, cache, certauthorities.CollectionKey,
					func(ctx context.Context) (api.PaginatedList[api.CA], error) {
						return client.ListCAs(ctx, api.ListParams{})
					})
				model := view.Build(q, certauthorities.Project, certauthorities.Columns(), certauthorities.EmptyNotice())
				return view.RenderText(out, view.Materialize(model))

			default:
				return fmt.Errorf("unknown collection: %s", args[0])
			}
		},
	}
}
