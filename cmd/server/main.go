// Package main is the entry point for the dungeon server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dungeon/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "rpg-dungeon",
	Short: "Turn-based dungeon combat server",
	Long:  `rpg-dungeon resolves turn-based dungeon fights and serves them over gRPC and WebSocket.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
