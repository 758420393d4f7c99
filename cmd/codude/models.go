package codude

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newModelsCommand(logger *zap.Logger, globals *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   modelsCommandUse,
		Short: modelsCommandShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			appEngine, buildErr := buildEngine(globals, logger)
			if buildErr != nil {
				return buildErr
			}
			models, listErr := appEngine.router.ListModels(cmd.Context())
			if listErr != nil {
				return listErr
			}
			for _, model := range models {
				fmt.Fprintln(cmd.OutOrStdout(), model)
			}
			return nil
		},
	}
}
