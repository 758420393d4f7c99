package codude

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codude/codude/internal/recipes"
)

func newListCommand(logger *zap.Logger, options *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   listCommandUse,
		Short: listCommandShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListCommand(cmd, logger, options)
		},
	}
}

func runListCommand(command *cobra.Command, logger *zap.Logger, options *globalOptions) error {
	appEngine, buildErr := buildEngine(options, logger)
	if buildErr != nil {
		return buildErr
	}
	document, loadErr := appEngine.loadDocument()
	if loadErr != nil {
		return loadErr
	}

	out := command.OutOrStdout()

	// The two synthetic groups render first, mirroring how the recipe pane
	// presents them above the file-backed groups.
	printIdentityGroup(out, recentlyUsedHeading, appEngine.index.Recents.Items())
	printIdentityGroup(out, favoritesHeading, appEngine.index.Favorites.Items())

	if len(document.Orphans) > 0 {
		fmt.Fprintf(out, "%s\n", ungroupedHeading)
		for _, recipe := range document.Orphans {
			printRecipeLine(out, recipe.Name, recipe.Prompt)
		}
	}
	for _, group := range document.Groups {
		fmt.Fprintf(out, "%s\n", group.Title)
		for _, recipe := range group.Recipes {
			printRecipeLine(out, recipe.Name, recipe.Prompt)
		}
	}
	return nil
}

func printIdentityGroup(out io.Writer, heading string, ids []recipes.Identity) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(out, "%s\n", heading)
	for _, id := range ids {
		printRecipeLine(out, id.Name, id.Prompt)
	}
}

func printRecipeLine(out io.Writer, name string, prompt string) {
	fmt.Fprintf(out, "  %s\t%s\n", name, prompt)
}
