package codude

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codude/codude/internal/recipes"
)

func newRecipesCommand(logger *zap.Logger, globals *globalOptions) *cobra.Command {
	command := &cobra.Command{
		Use:   recipesCommandUse,
		Short: recipesCommandShort,
	}
	command.AddCommand(
		newRecipeAddCommand(logger, globals),
		newRecipeEditCommand(logger, globals),
		newRecipeRemoveCommand(logger, globals),
		newRecipeFavoriteCommand(logger, globals),
		newGroupAddCommand(logger, globals),
		newGroupRemoveCommand(logger, globals),
	)
	return command
}

func newRecipeAddCommand(logger *zap.Logger, globals *globalOptions) *cobra.Command {
	var group, name, prompt string
	command := &cobra.Command{
		Use:   addCommandUse,
		Short: addCommandShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || prompt == "" || group == "" {
				return errors.New("--group, --name, and --prompt are all required")
			}
			appEngine, buildErr := buildEngine(globals, logger)
			if buildErr != nil {
				return buildErr
			}
			if !appEngine.store.InsertRecipe(group, name, prompt) {
				return fmt.Errorf("unable to add recipe %q to group %q", name, group)
			}
			return nil
		},
	}
	command.Flags().StringVar(&group, groupFlagName, "", groupFlagUsage)
	command.Flags().StringVar(&name, nameFlagName, "", nameFlagUsage)
	command.Flags().StringVar(&prompt, promptFlagName, "", recipePromptUsage)
	return command
}

func newRecipeEditCommand(logger *zap.Logger, globals *globalOptions) *cobra.Command {
	var name, prompt, newName, newPrompt string
	command := &cobra.Command{
		Use:   editCommandUse,
		Short: editCommandShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			appEngine, buildErr := buildEngine(globals, logger)
			if buildErr != nil {
				return buildErr
			}
			oldID, resolveErr := resolveIdentity(appEngine, name, prompt)
			if resolveErr != nil {
				return resolveErr
			}
			replacementName := newName
			if replacementName == "" {
				replacementName = oldID.Name
			}
			replacementPrompt := newPrompt
			if replacementPrompt == "" {
				replacementPrompt = oldID.Prompt
			}
			if !appEngine.session.EditRecipe(oldID, replacementName, replacementPrompt) {
				return fmt.Errorf("recipe %q not found in %s", oldID.Name, appEngine.store.Path())
			}
			return appEngine.saveIndex()
		},
	}
	command.Flags().StringVar(&name, nameFlagName, "", nameFlagUsage)
	command.Flags().StringVar(&prompt, promptFlagName, "", recipePromptUsage)
	command.Flags().StringVar(&newName, newNameFlagName, "", newNameFlagUsage)
	command.Flags().StringVar(&newPrompt, newPromptFlagName, "", newPromptFlagUsage)
	return command
}

func newRecipeRemoveCommand(logger *zap.Logger, globals *globalOptions) *cobra.Command {
	var name, prompt string
	command := &cobra.Command{
		Use:   removeCommandUse,
		Short: removeCommandShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			appEngine, buildErr := buildEngine(globals, logger)
			if buildErr != nil {
				return buildErr
			}
			id, resolveErr := resolveIdentity(appEngine, name, prompt)
			if resolveErr != nil {
				return resolveErr
			}
			if !appEngine.session.DeleteRecipe(id) {
				return fmt.Errorf("recipe %q not found in %s", id.Name, appEngine.store.Path())
			}
			return appEngine.saveIndex()
		},
	}
	command.Flags().StringVar(&name, nameFlagName, "", nameFlagUsage)
	command.Flags().StringVar(&prompt, promptFlagName, "", recipePromptUsage)
	return command
}

func newRecipeFavoriteCommand(logger *zap.Logger, globals *globalOptions) *cobra.Command {
	var name, prompt string
	command := &cobra.Command{
		Use:   favoriteCommandUse,
		Short: favoriteShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			appEngine, buildErr := buildEngine(globals, logger)
			if buildErr != nil {
				return buildErr
			}
			id, resolveErr := resolveIdentity(appEngine, name, prompt)
			if resolveErr != nil {
				return resolveErr
			}
			added, toggleErr := appEngine.index.Toggle(id)
			if toggleErr != nil {
				return toggleErr
			}
			if added {
				fmt.Fprintf(cmd.OutOrStdout(), favoriteAddedFormat, id.Name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), favoriteRemovedFormat, id.Name)
			}
			return appEngine.saveIndex()
		},
	}
	command.Flags().StringVar(&name, nameFlagName, "", nameFlagUsage)
	command.Flags().StringVar(&prompt, promptFlagName, "", recipePromptUsage)
	return command
}

func newGroupAddCommand(logger *zap.Logger, globals *globalOptions) *cobra.Command {
	var title string
	command := &cobra.Command{
		Use:   addGroupCommandUse,
		Short: addGroupShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return errors.New("--" + groupFlagName + " is required")
			}
			appEngine, buildErr := buildEngine(globals, logger)
			if buildErr != nil {
				return buildErr
			}
			if !appEngine.store.InsertGroup(title) {
				return fmt.Errorf("unable to add group %q", title)
			}
			return nil
		},
	}
	command.Flags().StringVar(&title, groupFlagName, "", groupFlagUsage)
	return command
}

func newGroupRemoveCommand(logger *zap.Logger, globals *globalOptions) *cobra.Command {
	var title string
	var mergeOnly bool
	command := &cobra.Command{
		Use:   rmGroupCommandUse,
		Short: rmGroupShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return errors.New("--" + groupFlagName + " is required")
			}
			appEngine, buildErr := buildEngine(globals, logger)
			if buildErr != nil {
				return buildErr
			}
			if !appEngine.store.RemoveGroup(title, mergeOnly) {
				return fmt.Errorf("group %q not found in %s", title, appEngine.store.Path())
			}
			return nil
		},
	}
	command.Flags().StringVar(&title, groupFlagName, "", groupFlagUsage)
	command.Flags().BoolVar(&mergeOnly, mergeOnlyFlagName, false, mergeOnlyFlagUsage)
	return command
}

// resolveIdentity turns name (+ optional prompt) flags into a full recipe
// identity, consulting the parsed document when only the name was given.
func resolveIdentity(appEngine *engine, name string, prompt string) (recipes.Identity, error) {
	if name == "" {
		return recipes.Identity{}, errors.New("--" + nameFlagName + " is required")
	}
	if prompt != "" {
		return recipes.Identity{Name: name, Prompt: prompt}, nil
	}
	document, loadErr := appEngine.loadDocument()
	if loadErr != nil {
		return recipes.Identity{}, loadErr
	}
	recipe, found := document.FindByName(name)
	if !found {
		return recipes.Identity{}, fmt.Errorf("unknown recipe %q", name)
	}
	return recipe.Identity(), nil
}
