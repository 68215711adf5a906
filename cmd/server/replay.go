package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/combat"
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/rng"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/session"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/idgen"
)

var replayOpts replayOptions

var replayCmd = &cobra.Command{
	Use:   "replay COMMAND...",
	Short: "Play a command script against a local dungeon",
	Long: `Create a dungeon in a local registry, submit each command in order and print
every combat log as one JSON line. The same seed always produces the same output.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		replayOpts.Commands = args
		return replay(cmd.Context(), os.Stdout, replayOpts)
	},
}

func init() {
	flags := replayCmd.Flags()
	flags.Int64Var(&replayOpts.Seed, "seed", 1, "Dice seed")
	flags.StringVar(&replayOpts.Difficulty, "difficulty", string(dungeon.DifficultyNormal), "easy, normal or hard")
	flags.StringVar(&replayOpts.HeroClass, "class", string(dungeon.ClassWarrior), "warrior, mage or rogue")
	flags.IntVar(&replayOpts.Monsters, "monsters", 0, "Monster count, 0 for the default")
}

type replayOptions struct {
	Seed       int64
	Difficulty string
	HeroClass  string
	Monsters   int
	Commands   []string
}

// replayLine is one line of replay output
type replayLine struct {
	Command string             `json:"command"`
	Log     *dungeon.CombatLog `json:"log,omitempty"`
	Error   string             `json:"error,omitempty"`
	Reason  string             `json:"reason,omitempty"`
	Final   *dungeon.State     `json:"final,omitempty"`
}

func replay(ctx context.Context, w io.Writer, opts replayOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Seed == 0 {
		return errors.InvalidArgument("replay needs a non-zero seed")
	}

	resolver, err := combat.NewResolver(&combat.ResolverConfig{
		Roller: rng.NewSeeded(opts.Seed),
		Rules:  combat.DefaultRules(),
	})
	if err != nil {
		return err
	}

	svc, err := session.NewOrchestrator(&session.Config{
		Engine:      resolver,
		Clock:       clock.New(),
		IDGenerator: idgen.NewSequential("turn"),
	})
	if err != nil {
		return err
	}

	created, err := svc.CreateSession(ctx, &session.CreateSessionInput{
		Name:       "replay",
		Difficulty: dungeon.Difficulty(opts.Difficulty),
		HeroClass:  dungeon.HeroClass(opts.HeroClass),
		Monsters:   opts.Monsters,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	final := created.State
	for _, raw := range opts.Commands {
		line := replayLine{Command: raw}

		cmd, err := dungeon.ParseCommand(raw)
		if err != nil {
			return errors.InvalidArgument(err.Error())
		}

		out, err := svc.Submit(ctx, &session.SubmitInput{Name: "replay", Command: cmd})
		if err != nil {
			line.Error = errors.GetMessage(err)
			line.Reason = errors.GetReason(err).String()
		} else {
			line.Log = out.Log
			final = out.State
		}

		if err := enc.Encode(line); err != nil {
			return errors.Wrap(err, "failed to write replay output")
		}
	}

	return enc.Encode(replayLine{Command: "end", Final: final})
}
