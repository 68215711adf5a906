package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/session"
)

var (
	difficulty string
	heroClass  string
	monsters   int
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a dungeon",
	Long:  `Create a dungeon with a hero of the given class and a roster of monsters.`,
	RunE:  runCreate,
}

func init() {
	nameFlag(createCmd)
	createCmd.Flags().StringVar(&difficulty, "difficulty", string(dungeon.DifficultyNormal), "easy, normal or hard")
	createCmd.Flags().StringVar(&heroClass, "class", string(dungeon.ClassWarrior), "warrior, mage or rogue")
	createCmd.Flags().IntVar(&monsters, "monsters", 0, "Monster count, 0 for the default")
}

func runCreate(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	st, err := client.CreateDungeon(ctx, &session.CreateSessionInput{
		Namespace:  namespace,
		Name:       name,
		Difficulty: dungeon.Difficulty(difficulty),
		HeroClass:  dungeon.HeroClass(heroClass),
		Monsters:   monsters,
	})
	if err != nil {
		return fmt.Errorf("failed to create dungeon: %w", err)
	}

	if jsonOutput {
		return printJSON(st)
	}
	printState(st)
	return nil
}
