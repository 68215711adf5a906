package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func script() replayOptions {
	return replayOptions{
		Seed:       42,
		Difficulty: "easy",
		HeroClass:  "rogue",
		Monsters:   2,
		Commands: []string{
			"attack:boss",
			"backstab:monster-0",
			"backstab:monster-0",
			"attack:monster-1",
			"attack:monster-0",
		},
	}
}

func TestReplayIsDeterministic(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, replay(context.Background(), &first, script()))
	require.NoError(t, replay(context.Background(), &second, script()))

	assert.Equal(t, first.String(), second.String())
}

func TestReplayOutput(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, replay(context.Background(), &out, script()))

	var lines []replayLine
	sc := bufio.NewScanner(&out)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var line replayLine
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, sc.Err())
	require.Len(t, lines, 6)

	// the boss starts locked
	assert.Equal(t, "invalid_target", lines[0].Reason)
	assert.Nil(t, lines[0].Log)

	require.NotNil(t, lines[1].Log)
	assert.Equal(t, "turn_1", lines[1].Log.TurnID)
	assert.Equal(t, 1, lines[1].Log.Round)

	// the second backstab is still cooling down
	assert.Equal(t, "ability_unavailable", lines[2].Reason)

	lastRound := 0
	for _, line := range lines {
		if line.Log != nil {
			lastRound = line.Log.Round
		}
	}
	final := lines[len(lines)-1]
	assert.Equal(t, "end", final.Command)
	require.NotNil(t, final.Final)
	assert.Equal(t, lastRound, final.Final.TurnRound)
}

func TestReplayRejectsBadInput(t *testing.T) {
	opts := script()
	opts.Seed = 0
	assert.Error(t, replay(context.Background(), &bytes.Buffer{}, opts))

	opts = script()
	opts.Commands = []string{"dance"}
	assert.Error(t, replay(context.Background(), &bytes.Buffer{}, opts))

	opts = script()
	opts.HeroClass = "bard"
	assert.Error(t, replay(context.Background(), &bytes.Buffer{}, opts))
}
