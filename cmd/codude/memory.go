package codude

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMemoryCommand(logger *zap.Logger, globals *globalOptions) *cobra.Command {
	command := &cobra.Command{
		Use:   memoryCommandUse,
		Short: memoryCommandShort,
	}
	command.AddCommand(
		newMemoryListCommand(logger, globals),
		newMemoryShowCommand(logger, globals),
		newMemoryEditCommand(logger, globals),
		newMemoryRemoveCommand(logger, globals),
	)
	return command
}

func newMemoryListCommand(logger *zap.Logger, globals *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   memoryListUse,
		Short: memoryListShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			appEngine, buildErr := buildEngine(globals, logger)
			if buildErr != nil {
				return buildErr
			}
			for index, entry := range appEngine.memoryLog.Entries() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s... on %s...\n",
					index, truncateField(entry.Prompt, 30), truncateField(entry.CapturedText, 30))
			}
			return nil
		},
	}
}

func newMemoryShowCommand(logger *zap.Logger, globals *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   memoryShowUse,
		Short: memoryShowShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appEngine, index, err := engineAndIndex(globals, logger, args[0])
			if err != nil {
				return err
			}
			entry, found := appEngine.memoryLog.Get(index)
			if !found {
				return fmt.Errorf("no memory entry at index %d", index)
			}
			fmt.Fprintln(cmd.OutOrStdout(), entry.Response)
			return nil
		},
	}
}

func newMemoryEditCommand(logger *zap.Logger, globals *globalOptions) *cobra.Command {
	var response string
	command := &cobra.Command{
		Use:   memoryEditUse,
		Short: memoryEditShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if response == "" {
				return errors.New("--" + responseFlagName + " is required")
			}
			appEngine, index, err := engineAndIndex(globals, logger, args[0])
			if err != nil {
				return err
			}
			if !appEngine.memoryLog.Update(index, response) {
				return fmt.Errorf("no memory entry at index %d", index)
			}
			return nil
		},
	}
	command.Flags().StringVar(&response, responseFlagName, "", responseFlagUsage)
	return command
}

func newMemoryRemoveCommand(logger *zap.Logger, globals *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   memoryRemoveUse,
		Short: memoryRemoveShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appEngine, index, err := engineAndIndex(globals, logger, args[0])
			if err != nil {
				return err
			}
			if !appEngine.memoryLog.Delete(index) {
				return fmt.Errorf("no memory entry at index %d", index)
			}
			return nil
		},
	}
}

func engineAndIndex(globals *globalOptions, logger *zap.Logger, rawIndex string) (*engine, int, error) {
	index, parseErr := strconv.Atoi(rawIndex)
	if parseErr != nil {
		return nil, 0, fmt.Errorf("invalid memory index %q", rawIndex)
	}
	appEngine, buildErr := buildEngine(globals, logger)
	if buildErr != nil {
		return nil, 0, buildErr
	}
	return appEngine, index, nil
}

func truncateField(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
