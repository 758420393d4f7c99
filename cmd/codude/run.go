package codude

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codude/codude/internal/session"
)

type runCommandOptions struct {
	customPrompt string
	capturedText string
}

func newRunCommand(logger *zap.Logger, globals *globalOptions) *cobra.Command {
	options := &runCommandOptions{}

	command := &cobra.Command{
		Use:   runCommandUse,
		Short: runCommandShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunCommand(cmd, args, logger, globals, *options)
		},
	}
	command.Flags().StringVar(&options.customPrompt, promptFlagName, "", promptFlagUsage)
	command.Flags().StringVar(&options.capturedText, textFlagName, "", textFlagUsage)
	return command
}

func runRunCommand(command *cobra.Command, args []string, logger *zap.Logger, globals *globalOptions, options runCommandOptions) error {
	if len(args) == 0 && strings.TrimSpace(options.customPrompt) == "" {
		return errors.New("name a recipe or pass --" + promptFlagName)
	}

	appEngine, buildErr := buildEngine(globals, logger)
	if buildErr != nil {
		return buildErr
	}

	capturedText := options.capturedText
	if capturedText == "" {
		stdinText, readErr := io.ReadAll(command.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("read captured text from stdin: %w", readErr)
		}
		capturedText = string(stdinText)
	}

	var result session.ExecutionResult
	var dispatchErr error
	if len(args) > 0 {
		document, loadErr := appEngine.loadDocument()
		if loadErr != nil {
			return loadErr
		}
		recipe, found := document.FindByName(args[0])
		if !found {
			return fmt.Errorf("unknown recipe %q", args[0])
		}
		result, dispatchErr = appEngine.session.ExecuteRecipe(command.Context(), recipe, capturedText)
	} else {
		result, dispatchErr = appEngine.session.ExecutePrompt(command.Context(), options.customPrompt, capturedText)
	}
	if dispatchErr != nil {
		return dispatchErr
	}

	if saveErr := appEngine.saveIndex(); saveErr != nil {
		logger.Warn("unable to persist recency state", zap.Error(saveErr))
	}

	fmt.Fprintln(command.OutOrStdout(), result.Response)
	return nil
}
