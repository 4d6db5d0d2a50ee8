package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/errors"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/models"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/output"
)

func (a *app) gamesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Browse and manage the game catalog",
		Long:  "Browse and manage the game catalog: list, get, create, update, delete",
	}

	cmd.AddCommand(a.gamesListCommand())
	cmd.AddCommand(a.gamesGetCommand())
	cmd.AddCommand(a.gamesCreateCommand())
	cmd.AddCommand(a.gamesUpdateCommand())
	cmd.AddCommand(a.gamesDeleteCommand())

	return cmd
}

func (a *app) gamesListCommand() *cobra.Command {
	var flagPage int
	var flagPageSize int
	var flagName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of games",
		Example: `  # First page, five games per page
  storefront-cli games list

  # Search by name
  storefront-cli games list --name fighter --page-size 10 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagPage < 1 || flagPageSize < 1 {
				return errors.NewUsageError("--page and --page-size must be positive")
			}

			res := a.gamesClient().GetGames(cmd.Context(), flagPage, flagPageSize, flagName)
			page, err := res.Data()
			if err != nil {
				return a.clientError(res.Err())
			}
			return a.printer.Print("games list", page, gamesTable(page.Data))
		},
	}

	cmd.Flags().IntVar(&flagPage, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&flagPageSize, "page-size", 5, "Games per page")
	cmd.Flags().StringVar(&flagName, "name", "", "Filter by name")

	return cmd
}

func (a *app) gamesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.gamesClient().GetGame(cmd.Context(), args[0])
			if res.IsFailure() {
				return a.clientError(res.Err())
			}
			game := res.Value()

			genreID := ""
			if game.GenreID != nil {
				genreID = *game.GenreID
			}
			return a.printer.Print("games get", game, output.Table{
				Headers: []string{"ID", "NAME", "GENRE ID", "PRICE", "RELEASE DATE", "DESCRIPTION"},
				Rows: [][]string{{
					game.ID, game.Name, genreID, formatPrice(game.Price), game.ReleaseDate, game.Description,
				}},
			})
		},
	}
}

func (a *app) gamesCreateCommand() *cobra.Command {
	var flagFile string
	var flagImage string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a game from a YAML file",
		Example: `  storefront-cli games create --file game.yaml --image cover.png

  # game.yaml
  name: Celeste
  genreId: 5f1c...
  description: Climb the mountain
  price: 19.99
  releaseDate: "2018-01-25"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			game, closeImage, err := loadGameFile(flagFile, flagImage)
			if err != nil {
				return err
			}
			defer closeImage()

			res := a.gamesClient().CreateGame(cmd.Context(), game)
			if err := a.commandError(res, "Fix the listed fields and retry."); err != nil {
				return err
			}
			return a.printer.PrintCommandResult("games create", res, fmt.Sprintf("Game %q created", game.Name))
		},
	}

	cmd.Flags().StringVar(&flagFile, "file", "", "YAML file describing the game (required)")
	cmd.Flags().StringVar(&flagImage, "image", "", "Cover image to upload")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (a *app) gamesUpdateCommand() *cobra.Command {
	var flagFile string
	var flagImage string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a game from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			game, closeImage, err := loadGameFile(flagFile, flagImage)
			if err != nil {
				return err
			}
			defer closeImage()
			game.ID = args[0]

			res := a.gamesClient().UpdateGame(cmd.Context(), game)
			if err := a.commandError(res, "Fix the listed fields and retry."); err != nil {
				return err
			}
			return a.printer.PrintCommandResult("games update", res, fmt.Sprintf("Game %s updated", game.ID))
		},
	}

	cmd.Flags().StringVar(&flagFile, "file", "", "YAML file describing the game (required)")
	cmd.Flags().StringVar(&flagImage, "image", "", "Cover image to upload")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (a *app) gamesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.gamesClient().DeleteGame(cmd.Context(), args[0])
			if err := a.commandError(res, ""); err != nil {
				return err
			}
			return a.printer.PrintCommandResult("games delete", res, fmt.Sprintf("Game %s deleted", args[0]))
		},
	}
}

// loadGameFile reads a game from YAML and opens the optional image. The
// returned func closes the image and is always safe to call.
func loadGameFile(path, imagePath string) (models.GameDetails, func(), error) {
	noop := func() {}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.GameDetails{}, noop, errors.NewValidationError(
			fmt.Sprintf("failed to read game file: %v", err),
			"Pass an existing YAML file with --file.",
		)
	}

	var game models.GameDetails
	if err := yaml.Unmarshal(data, &game); err != nil {
		return models.GameDetails{}, noop, errors.NewValidationError(
			fmt.Sprintf("failed to parse game file: %v", err),
			"Check the YAML syntax of the game file.",
		)
	}

	if imagePath == "" {
		return game, noop, nil
	}
	f, err := os.Open(imagePath)
	if err != nil {
		return models.GameDetails{}, noop, errors.NewValidationError(
			fmt.Sprintf("failed to open image: %v", err),
			"Pass an existing image file with --image.",
		)
	}
	game.ImageFile = &models.FileUpload{Name: filepath.Base(imagePath), Content: f}
	return game, func() { _ = f.Close() }, nil
}

func gamesTable(rows []models.GameSummary) output.Table {
	table := output.Table{Headers: []string{"ID", "NAME", "GENRE", "PRICE", "RELEASE DATE"}}
	for _, g := range rows {
		table.Rows = append(table.Rows, []string{g.ID, g.Name, g.Genre, formatPrice(g.Price), g.ReleaseDate})
	}
	return table
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

func joinErrors(errs []string) string {
	return strings.Join(errs, "; ")
}
