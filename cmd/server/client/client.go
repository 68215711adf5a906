// Package client provides commands for driving a running dungeon server
package client

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/KirkDiggler/rpg-dungeon/internal/handlers/dungeon/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration

	// Dungeon key flags shared by most commands
	namespace string
	name      string

	jsonOutput bool
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client commands for the dungeon service",
	Long:  `Client commands drive a running dungeon server over gRPC.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	ClientCmd.PersistentFlags().StringVar(&namespace, "namespace", "", "Dungeon namespace (server default when empty)")
	ClientCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print raw JSON")

	ClientCmd.AddCommand(createCmd)
	ClientCmd.AddCommand(getCmd)
	ClientCmd.AddCommand(listCmd)
	ClientCmd.AddCommand(submitCmd)
	ClientCmd.AddCommand(deleteCmd)
}

// nameFlag registers the required --name flag on a command
func nameFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&name, "name", "", "Dungeon name (required)")
	_ = cmd.MarkFlagRequired("name") // nolint:errcheck // safe to ignore in init
}

// createClient dials the server and returns a dungeon client
func createClient() (*v1alpha1.Client, func(), error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}
	return v1alpha1.NewClient(conn), cleanup, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
