package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nathfavour/agentpesa/pkg/config"
	"github.com/nathfavour/agentpesa/pkg/identity"
	"github.com/nathfavour/agentpesa/pkg/schedule"
	"github.com/nathfavour/agentpesa/pkg/store"
)

func init() {
	scheduleCmd.AddCommand(scheduleAddCmd)
	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleToggleCmd)
	scheduleCmd.AddCommand(scheduleDeleteCmd)
	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage recurring agent prompts",
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add <agent> <name> <expression> <prompt>",
	Short: "Add a recurring prompt, e.g. '@every 1h' or '0 9 * * *'",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		handle, name, expr, prompt := args[0], args[1], args[2], args[3]
		if err := schedule.ValidateExpression(expr); err != nil {
			return err
		}
		agents, err := identity.NewRegistry(config.RegistryPath())
		if err != nil {
			return err
		}
		agent, ok := agents.Get(handle)
		if !ok {
			return fmt.Errorf("unknown agent %q", handle)
		}
		st, err := store.Open(config.StorePath())
		if err != nil {
			return err
		}
		defer st.Close()
		sc := store.Schedule{
			ID:         uuid.New().String(),
			AgentID:    agent.ID,
			Name:       name,
			Expression: expr,
			Prompt:     prompt,
			Enabled:    true,
		}
		if err := st.PutSchedule(sc); err != nil {
			return err
		}
		next, _ := schedule.NextRun(sc, time.Now())
		fmt.Printf("✅ Schedule %q added for @%s, next run %s\n", name, handle, next.Format(time.RFC3339))
		return nil
	},
}

var scheduleListCmd = &cobra.Command{
	Use:   "list [agent]",
	Short: "List schedules",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(config.StorePath())
		if err != nil {
			return err
		}
		defer st.Close()
		agents, err := identity.NewRegistry(config.RegistryPath())
		if err != nil {
			return err
		}
		agentID := ""
		if len(args) == 1 {
			agent, ok := agents.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown agent %q", args[0])
			}
			agentID = agent.ID
		}
		schedules, err := st.ListSchedules(agentID)
		if err != nil {
			return err
		}
		for _, sc := range schedules {
			state := "enabled"
			if !sc.Enabled {
				state = "disabled"
			}
			lastRun := "never"
			if !sc.LastRun.IsZero() {
				lastRun = sc.LastRun.Format(time.RFC3339)
			}
			next := "-"
			if sc.Enabled {
				if n, err := schedule.NextRun(sc, time.Now()); err == nil {
					next = n.Format(time.RFC3339)
				}
			}
			fmt.Printf("%s  %-20s %-12s %s  last=%s  next=%s\n", sc.ID, sc.Name, state, sc.Expression, lastRun, next)
			if sc.LastResult != "" {
				fmt.Printf("    last result: %s\n", sc.LastResult)
			}
		}
		return nil
	},
}

var scheduleToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Enable or disable a schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(config.StorePath())
		if err != nil {
			return err
		}
		defer st.Close()
		sc, err := st.GetSchedule(args[0])
		if err != nil {
			return err
		}
		sc.Enabled = !sc.Enabled
		if err := st.PutSchedule(sc); err != nil {
			return err
		}
		state := "enabled"
		if !sc.Enabled {
			state = "disabled"
		}
		fmt.Printf("✅ Schedule %q is now %s\n", sc.Name, state)
		return nil
	},
}

var scheduleDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(config.StorePath())
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.DeleteSchedule(args[0]); err != nil {
			return err
		}
		fmt.Println("✅ Schedule deleted")
		return nil
	},
}
