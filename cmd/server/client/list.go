package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List dungeons",
	Long:  `List dungeons in one namespace, or in every namespace when --namespace is empty.`,
	RunE:  runList,
}

func runList(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	summaries, err := client.ListDungeons(ctx, namespace)
	if err != nil {
		return fmt.Errorf("failed to list dungeons: %w", err)
	}

	if jsonOutput {
		return printJSON(summaries)
	}

	fmt.Printf("Found %d dungeons\n", len(summaries))
	for _, sum := range summaries {
		result := "in progress"
		switch {
		case sum.Victory:
			result = "victory"
		case sum.Defeated:
			result = "defeated"
		}
		fmt.Printf("  %s/%s  %s %s  hp=%d monsters=%d boss=%s round=%d  %s\n",
			sum.Namespace, sum.Name, sum.Difficulty, sum.HeroClass,
			sum.HeroHP, sum.LivingMonsters, sum.BossState, sum.TurnRound, result)
	}
	return nil
}
