package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nathfavour/agentpesa/pkg/channel"
	"github.com/nathfavour/agentpesa/pkg/config"
	"github.com/nathfavour/agentpesa/pkg/vault"
)

func init() {
	botCmd.AddCommand(botAddCmd)
	botCmd.AddCommand(botListCmd)
	botCmd.AddCommand(botRemoveCmd)
	rootCmd.AddCommand(botCmd)
}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Manage bot credentials",
}

var botAddCmd = &cobra.Command{
	Use:   "add <name> <platform> <token>",
	Short: "Provision a bot. Use --shared for a pairing-code bot, --agent for a dedicated one",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, platform, token := args[0], args[1], args[2]
		shared, _ := cmd.Flags().GetBool("shared")
		agent, _ := cmd.Flags().GetString("agent")

		v, err := vault.Open()
		if err != nil {
			return err
		}
		tokenKey := "bot-token-" + name
		if err := v.Set(tokenKey, token); err != nil {
			return err
		}

		bots := channel.NewBotManager(filepath.Join(config.BaseDataDir(), "bots.json"), nil, v, nil)
		cfg, err := bots.AddBot(channel.BotConfig{
			Name:     name,
			Platform: platform,
			TokenKey: tokenKey,
			Agent:    agent,
			Shared:   shared,
		})
		if err != nil {
			return err
		}
		mode := "dedicated to @" + agent
		if shared {
			mode = "shared (pairing codes)"
		}
		fmt.Printf("✅ Bot %s added on %s, %s (id %s)\n", name, platform, mode, cfg.ID)
		return nil
	},
}

var botListCmd = &cobra.Command{
	Use:   "list",
	Short: "List provisioned bots",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := vault.Open()
		if err != nil {
			return err
		}
		bots := channel.NewBotManager(filepath.Join(config.BaseDataDir(), "bots.json"), nil, v, nil)
		for _, b := range bots.ListBots() {
			target := "@" + b.Agent
			if b.Shared {
				target = "shared"
			}
			fmt.Printf("%s  %s  %s  %s\n", b.ID, b.Name, b.Platform, target)
		}
		return nil
	},
}

var botRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a bot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := vault.Open()
		if err != nil {
			return err
		}
		bots := channel.NewBotManager(filepath.Join(config.BaseDataDir(), "bots.json"), nil, v, nil)
		if err := bots.RemoveBot(args[0]); err != nil {
			return err
		}
		fmt.Println("✅ Bot removed")
		return nil
	},
}

func init() {
	botAddCmd.Flags().Bool("shared", false, "shared bot serving many agents via pairing codes")
	botAddCmd.Flags().String("agent", "", "agent handle this bot is dedicated to")
}
