package recipes

import (
	"strings"

	"go.uber.org/zap"
)

const (
	groupHeaderPrefix = "#"
	recipeNamePrefix  = "**"
	recipeSeparator   = ":"
)

// Recipe is one named prompt template. LineIndex is the zero-based position of
// its defining line in the backing file.
type Recipe struct {
	Name      string
	Prompt    string
	LineIndex int
}

// Identity returns the recipe's lookup key.
func (r Recipe) Identity() Identity { return Identity{Name: r.Name, Prompt: r.Prompt} }

// Group is a named ordered collection of recipes. LineIndex is the zero-based
// position of its header line.
type Group struct {
	Title     string
	LineIndex int
	Recipes   []Recipe
}

// Document is the parsed structure of one recipe file. Orphans are recipes
// that appeared before any group header; how to render them is the consumer's
// decision.
type Document struct {
	Orphans []Recipe
	Groups  []Group
}

// Recipes flattens the document into file order, orphans first.
func (d Document) Recipes() []Recipe {
	out := make([]Recipe, 0, len(d.Orphans))
	out = append(out, d.Orphans...)
	for _, group := range d.Groups {
		out = append(out, group.Recipes...)
	}
	return out
}

// Find returns the first recipe matching the identity in file order.
func (d Document) Find(id Identity) (Recipe, bool) {
	for _, recipe := range d.Recipes() {
		if recipe.Identity().Equal(id) {
			return recipe, true
		}
	}
	return Recipe{}, false
}

// FindByName returns the first recipe with the given name, compared under
// whitespace normalization.
func (d Document) FindByName(name string) (Recipe, bool) {
	wanted := NormalizeWhitespace(name)
	for _, recipe := range d.Recipes() {
		if NormalizeWhitespace(recipe.Name) == wanted {
			return recipe, true
		}
	}
	return Recipe{}, false
}

// Render serializes the document back into the line format. Parsing the output
// yields an identical structure.
func (d Document) Render() string {
	var builder strings.Builder
	for _, recipe := range d.Orphans {
		builder.WriteString(recipeNamePrefix + recipe.Name + recipeNamePrefix + recipeSeparator + " " + recipe.Prompt + "\n")
	}
	for _, group := range d.Groups {
		builder.WriteString(groupHeaderPrefix + " " + group.Title + "\n")
		for _, recipe := range group.Recipes {
			builder.WriteString(recipeNamePrefix + recipe.Name + recipeNamePrefix + recipeSeparator + " " + recipe.Prompt + "\n")
		}
	}
	return builder.String()
}

// Parse scans raw file content into groups and recipes. It never fails: blank
// lines and anything unrecognized are ignored, malformed recipe lines are
// skipped with a warning, and the worst case is an empty document.
func Parse(raw string, logger *zap.Logger) Document {
	if logger == nil {
		logger = zap.NewNop()
	}
	var document Document
	var current *Group

	lines := strings.Split(raw, "\n")
	for lineIndex, line := range lines {
		trimmed := strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, groupHeaderPrefix) {
			title := strings.TrimSpace(strings.TrimLeft(trimmed, groupHeaderPrefix))
			document.Groups = append(document.Groups, Group{Title: title, LineIndex: lineIndex})
			current = &document.Groups[len(document.Groups)-1]
			continue
		}

		recipe, ok := parseRecipeLine(trimmed, lineIndex, logger)
		if !ok {
			continue
		}
		if current == nil {
			logger.Warn("recipe defined before any group header",
				zap.String("name", recipe.Name),
				zap.Int("line", lineIndex+1))
			document.Orphans = append(document.Orphans, recipe)
			continue
		}
		current.Recipes = append(current.Recipes, recipe)
	}
	return document
}

// parseRecipeLine classifies one trimmed line as a recipe definition. The line
// must start with ** and contain a colon; it is split on the first colon only.
func parseRecipeLine(trimmed string, lineIndex int, logger *zap.Logger) (Recipe, bool) {
	if !strings.HasPrefix(trimmed, recipeNamePrefix) || !strings.Contains(trimmed, recipeSeparator) {
		return Recipe{}, false
	}
	namePart, promptPart, _ := strings.Cut(trimmed, recipeSeparator)
	name := strings.TrimSpace(strings.Trim(strings.TrimSpace(namePart), "*"))
	prompt := strings.TrimSpace(promptPart)
	if name == "" || prompt == "" {
		logger.Warn("skipping malformed recipe line", zap.Int("line", lineIndex+1))
		return Recipe{}, false
	}
	return Recipe{Name: name, Prompt: prompt, LineIndex: lineIndex}, true
}
