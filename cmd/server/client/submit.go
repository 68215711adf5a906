package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
)

var submitCmd = &cobra.Command{
	Use:   "submit COMMAND",
	Short: "Submit one command to a dungeon",
	Long: `Submit one command. Commands use the short syntax:
  attack:monster-0   backstab:boss   ability:taunt   ability:heal
  use:hppotion-rare  equip:weapon-epic  treasure`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	nameFlag(submitCmd)
}

func runSubmit(_ *cobra.Command, args []string) error {
	cmd, err := dungeon.ParseCommand(args[0])
	if err != nil {
		return err
	}

	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	st, log, err := client.SubmitCommand(ctx, namespace, name, cmd)
	if err != nil {
		return fmt.Errorf("command rejected: %w", err)
	}

	if jsonOutput {
		return printJSON(map[string]any{"dungeon": st, "log": log})
	}
	printLog(log)
	fmt.Println()
	printState(st)
	return nil
}
