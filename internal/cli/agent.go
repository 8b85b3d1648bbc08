package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nathfavour/agentpesa/pkg/catalog"
	"github.com/nathfavour/agentpesa/pkg/channel"
	"github.com/nathfavour/agentpesa/pkg/config"
	"github.com/nathfavour/agentpesa/pkg/identity"
	"github.com/nathfavour/agentpesa/pkg/store"
)

func init() {
	agentCmd.AddCommand(agentCreateCmd)
	agentCmd.AddCommand(agentListCmd)
	agentCmd.AddCommand(agentCodeCmd)
	rootCmd.AddCommand(agentCmd)
}

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Manage hosted agents",
}

var agentCreateCmd = &cobra.Command{
	Use:   "create <handle> <display name>",
	Short: "Create a new agent",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		template, _ := cmd.Flags().GetString("template")
		agents, err := identity.NewRegistry(config.RegistryPath())
		if err != nil {
			return err
		}
		agent, err := agents.Create(args[0], strings.Join(args[1:], " "), template)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Created agent @%s (%s) with template %q\n", agent.Handle, agent.ID, agent.Template)
		return nil
	},
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		agents, err := identity.NewRegistry(config.RegistryPath())
		if err != nil {
			return err
		}
		for _, a := range agents.List() {
			wallet := a.WalletAddress
			if wallet == "" {
				wallet = "no wallet"
			}
			fmt.Printf("@%s  %s  template=%s  %s\n", a.Handle, a.DisplayName, a.Template, wallet)
		}
		return nil
	},
}

var agentCodeCmd = &cobra.Command{
	Use:   "code <handle>",
	Short: "Mint a one-time pairing code for an agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		agents, err := identity.NewRegistry(config.RegistryPath())
		if err != nil {
			return err
		}
		agent, ok := agents.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown agent %q", args[0])
		}
		st, err := store.Open(config.StorePath())
		if err != nil {
			return err
		}
		defer st.Close()
		resolver := channel.NewResolver(st, agents, nil)
		code, err := resolver.NewPairingCode(agent.ID)
		if err != nil {
			return err
		}
		fmt.Printf("🔑 Pairing code for @%s: %s (valid 15 minutes, single use)\n", agent.Handle, code)
		return nil
	},
}

func init() {
	agentCreateCmd.Flags().String("template", catalog.DefaultTemplate,
		fmt.Sprintf("agent template (%s)", strings.Join(catalog.Templates(), ", ")))
}
