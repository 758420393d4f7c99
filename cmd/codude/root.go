package codude

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type globalOptions struct {
	configPath string
}

// Execute runs the codude command tree.
func Execute(logger *zap.Logger) error {
	return newRootCommand(logger).Execute()
}

func newRootCommand(logger *zap.Logger) *cobra.Command {
	options := &globalOptions{}

	root := &cobra.Command{
		Use:           rootCommandUse,
		Short:         rootCommandShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&options.configPath, configFlagName, "", configFlagUsage)

	root.AddCommand(
		newListCommand(logger, options),
		newRunCommand(logger, options),
		newModelsCommand(logger, options),
		newRecipesCommand(logger, options),
		newMemoryCommand(logger, options),
	)
	return root
}
