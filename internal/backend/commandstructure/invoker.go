package commandstructure

import (
	"fmt"
	"log/slog"
	"time"
)

// CommandInvoker executes a sequence of generator commands
type CommandInvoker struct {
	commands []Command
}

// NewCommandInvoker creates a new command invoker
func NewCommandInvoker(commands []Command) *CommandInvoker {
	return &CommandInvoker{
		commands: commands,
	}
}

// Execute runs all commands in order and returns their outputs in the same order.
// The first failing command aborts the sequence.
func (i *CommandInvoker) Execute() ([][]byte, error) {
	start := time.Now()

	slog.Info("starting image generation",
		"command_count", len(i.commands))

	outputs := make([][]byte, 0, len(i.commands))
	for idx, command := range i.commands {
		commandStart := time.Now()

		slog.Debug("executing command",
			"index", idx,
			"command_name", command.Name())

		output, err := command.Execute()
		if err != nil {
			slog.Error("command execution failed",
				"index", idx,
				"command_name", command.Name(),
				"error", err)
			return nil, fmt.Errorf("command %s (index %d) failed: %w", command.Name(), idx, err)
		}

		slog.Info("command completed",
			"index", idx,
			"command_name", command.Name(),
			"duration_ms", time.Since(commandStart).Milliseconds(),
			"output_size_bytes", len(output))

		outputs = append(outputs, output)
	}

	slog.Info("image generation completed",
		"total_duration_ms", time.Since(start).Milliseconds(),
		"command_count", len(i.commands))

	return outputs, nil
}

// ExecuteCommands creates each configured command from DefaultRegistry and runs them in order
func ExecuteCommands(commandConfigs []CommandConfig) ([][]byte, error) {
	commands := make([]Command, 0, len(commandConfigs))
	for i, config := range commandConfigs {
		slog.Debug("creating command",
			"index", i,
			"command_name", config.Name,
			"params", config.Params)

		command, err := DefaultRegistry.Create(config.Name, config.Params)
		if err != nil {
			slog.Error("failed to create command",
				"index", i,
				"command_name", config.Name,
				"error", err)
			return nil, fmt.Errorf("failed to create command at index %d (%s): %w", i, config.Name, err)
		}
		commands = append(commands, command)
	}

	return NewCommandInvoker(commands).Execute()
}
