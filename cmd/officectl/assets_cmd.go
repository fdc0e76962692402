package main

import (
	"github.com/spf13/cobra"

	"github.com/jacksonlee411/office-ops/modules/assets/infrastructure/persistence"
	"github.com/jacksonlee411/office-ops/modules/assets/services"
	"github.com/jacksonlee411/office-ops/pkg/clock"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/configuration"
)

type nextCodeOutput struct {
	Category string `json:"category"`
	Code     string `json:"asset_code"`
}

func newAssetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Asset register helpers",
	}
	cmd.AddCommand(newNextCodeCmd())
	return cmd
}

func newNextCodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next-code <category>",
		Short: "Preview the next asset code for a category (no reservation)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx := composables.WithPool(cmd.Context(), pool)
			codes := services.NewCodeAllocator(persistence.NewAssetRepository(), clock.New(configuration.Use().Location()))
			code, err := codes.Preview(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), nextCodeOutput{Category: args[0], Code: code})
		},
	}
}
