package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Show a dungeon",
	RunE:  runGet,
}

func init() {
	nameFlag(getCmd)
}

func runGet(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	st, err := client.GetDungeon(ctx, namespace, name)
	if err != nil {
		return fmt.Errorf("failed to get dungeon: %w", err)
	}

	if jsonOutput {
		return printJSON(st)
	}
	printState(st)
	return nil
}
