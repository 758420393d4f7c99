package codude

const (
	rootCommandUse   = "codude"
	rootCommandShort = "Clipboard-to-LLM assistant: apply prompt recipes to captured text"

	configFlagName  = "config"
	configFlagUsage = "Path to config.json (defaults to ./config.json, then ~/.codude/config.json)"

	listCommandUse   = "list"
	listCommandShort = "List recipe groups, including Recently Used and Favorites"

	runCommandUse   = "run [RECIPE]"
	runCommandShort = "Apply a recipe (or a custom prompt) to captured text and print the reply"
	promptFlagName  = "prompt"
	promptFlagUsage = "Custom prompt to send instead of a named recipe"
	textFlagName    = "text"
	textFlagUsage   = "Captured text to process (read from stdin when omitted)"

	modelsCommandUse   = "models"
	modelsCommandShort = "List models reported by the configured LLM provider"

	recipesCommandUse   = "recipes"
	recipesCommandShort = "Manage the recipe file"
	addCommandUse       = "add"
	addCommandShort     = "Add a recipe to a group"
	editCommandUse      = "edit"
	editCommandShort    = "Edit a recipe's name and prompt"
	removeCommandUse    = "rm"
	removeCommandShort  = "Remove a recipe"
	favoriteCommandUse  = "fav"
	favoriteShort       = "Toggle a recipe's favorite state"
	addGroupCommandUse  = "add-group"
	addGroupShort       = "Append a new group header"
	rmGroupCommandUse   = "rm-group"
	rmGroupShort        = "Remove a group, migrating its recipes to the next group"

	groupFlagName      = "group"
	groupFlagUsage     = "Group title"
	nameFlagName       = "name"
	nameFlagUsage      = "Recipe name"
	recipePromptUsage  = "Recipe prompt text"
	newNameFlagName    = "new-name"
	newNameFlagUsage   = "Replacement recipe name"
	newPromptFlagName  = "new-prompt"
	newPromptFlagUsage = "Replacement prompt text"
	mergeOnlyFlagName  = "merge-only"
	mergeOnlyFlagUsage = "Keep the emptied group header in place"

	memoryCommandUse    = "memory"
	memoryCommandShort  = "Inspect and edit the interaction memory"
	memoryListUse       = "list"
	memoryListShort     = "List memory entries"
	memoryShowUse       = "show INDEX"
	memoryShowShort     = "Print one memory entry"
	memoryEditUse       = "edit INDEX"
	memoryEditShort     = "Replace a memory entry's response text"
	memoryRemoveUse     = "rm INDEX"
	memoryRemoveShort   = "Delete a memory entry and its backing file"
	responseFlagName    = "response"
	responseFlagUsage   = "Replacement response text"
	favoriteAddedFormat   = "added %q to favorites\n"
	favoriteRemovedFormat = "removed %q from favorites\n"

	recentlyUsedHeading = "Recently Used"
	favoritesHeading    = "Favorites"
	ungroupedHeading    = "(ungrouped)"
)
