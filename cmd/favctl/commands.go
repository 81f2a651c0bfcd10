package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/internal/favorites/usecase/command"
	"github.com/tair/storefront/internal/favorites/usecase/query"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List favorites in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := openStore(cmd.Context(), cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer sc.Close()

			favs, err := query.NewListFavoritesHandler(sc.Store).Handle(cmd.Context(), query.ListFavoritesQuery{})
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if sc.JSONMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(favs)
			}

			if len(favs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No favorites")
				return nil
			}
			for _, p := range favs {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", p.ID, p.Price.StringFixed(2), p.Title)
			}
			return nil
		},
	}
}

// NewContainsCmd creates the contains command.
func NewContainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contains <id>",
		Short: "Report whether a product is a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeCommandError(cmd, err)
			}

			sc, err := openStore(cmd.Context(), cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer sc.Close()

			ok, err := query.NewIsFavoriteHandler(sc.Store).Handle(cmd.Context(), query.IsFavoriteQuery{ProductID: id})
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if sc.JSONMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"product_id": id,
					"favorited":  ok,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatBool(ok))
			return nil
		},
	}
}

// NewToggleCmd creates the toggle command.
func NewToggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Add a product to favorites, or remove it if present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeCommandError(cmd, err)
			}

			title, _ := cmd.Flags().GetString("title")
			image, _ := cmd.Flags().GetString("image")
			rawPrice, _ := cmd.Flags().GetString("price")
			price, err := decimal.NewFromString(rawPrice)
			if err != nil {
				return writeCommandError(cmd, fmt.Errorf("invalid price %q: %w", rawPrice, err))
			}

			sc, err := openStore(cmd.Context(), cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer sc.Close()

			result, err := command.NewToggleFavoriteHandler(sc.Store, nil).Handle(cmd.Context(), command.ToggleFavoriteCommand{
				ID:    id,
				Title: title,
				Price: price,
				Image: image,
			})
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if sc.JSONMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
			}

			action := "removed"
			if result.Favorited {
				action = "added"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d (%d favorites)\n", action, id, len(result.Favorites))
			return nil
		},
	}

	cmd.Flags().String("title", "", "product title")
	cmd.Flags().String("price", "0", "product price")
	cmd.Flags().String("image", "", "product image URL")

	return cmd
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidProductID, raw)
	}
	return id, nil
}
