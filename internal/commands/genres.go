package commands

import (
	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/models"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/output"
)

func (a *app) genresCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genres",
		Short: "List catalog genres",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every genre",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.genresClient().GetGenres(cmd.Context())
			if res.IsFailure() {
				return a.clientError(res.Err())
			}
			return a.printer.Print("genres list", res.Value(), genresTable(res.Value()))
		},
	})

	return cmd
}

func genresTable(genres []models.Genre) output.Table {
	table := output.Table{Headers: []string{"ID", "NAME"}}
	for _, g := range genres {
		table.Rows = append(table.Rows, []string{g.ID, g.Name})
	}
	return table
}
