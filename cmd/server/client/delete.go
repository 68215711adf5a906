package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a dungeon",
	RunE:  runDelete,
}

func init() {
	nameFlag(deleteCmd)
}

func runDelete(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.DeleteDungeon(ctx, namespace, name); err != nil {
		return fmt.Errorf("failed to delete dungeon: %w", err)
	}

	fmt.Printf("Deleted %s\n", name)
	return nil
}
