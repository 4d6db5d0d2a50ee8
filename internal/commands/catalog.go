package commands

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/models"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/output"
)

type catalogView struct {
	Genres []models.Genre    `json:"genres"`
	Games  models.GamesPage `json:"games"`
}

func (a *app) catalogCommand() *cobra.Command {
	var flagPageSize int

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show genres and the first page of games",
		Long:  "Fetch genres and the first page of games concurrently, as the storefront home page does.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var view catalogView
			g, ctx := errgroup.WithContext(cmd.Context())

			g.Go(func() error {
				res := a.genresClient().GetGenres(ctx)
				if res.IsFailure() {
					return res.Err()
				}
				view.Genres = res.Value()
				return nil
			})
			g.Go(func() error {
				res := a.gamesClient().GetGames(ctx, 1, flagPageSize, "")
				if res.IsFailure() {
					return res.Err()
				}
				view.Games = res.Value()
				return nil
			})

			if err := g.Wait(); err != nil {
				return a.clientError(err)
			}

			table := output.Table{Headers: []string{"KIND", "ID", "NAME", "GENRE", "PRICE"}}
			for _, genre := range view.Genres {
				table.Rows = append(table.Rows, []string{"genre", genre.ID, genre.Name, "", ""})
			}
			for _, game := range view.Games.Data {
				table.Rows = append(table.Rows, []string{"game", game.ID, game.Name, game.Genre, formatPrice(game.Price)})
			}
			return a.printer.Print("catalog", view, table)
		},
	}

	cmd.Flags().IntVar(&flagPageSize, "page-size", 5, "Games to show")

	return cmd
}
