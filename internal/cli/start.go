package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nathfavour/agentpesa/pkg/chain"
	"github.com/nathfavour/agentpesa/pkg/channel"
	"github.com/nathfavour/agentpesa/pkg/config"
	"github.com/nathfavour/agentpesa/pkg/engine"
	"github.com/nathfavour/agentpesa/pkg/identity"
	"github.com/nathfavour/agentpesa/pkg/model"
	"github.com/nathfavour/agentpesa/pkg/schedule"
	"github.com/nathfavour/agentpesa/pkg/skills"
	"github.com/nathfavour/agentpesa/pkg/store"
	"github.com/nathfavour/agentpesa/pkg/vault"
)

func init() {
	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the agent daemon: bots, web chat and the scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer log.Sync()

		settings, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		agents, err := identity.NewRegistry(config.RegistryPath())
		if err != nil {
			return fmt.Errorf("open agent registry: %w", err)
		}
		st, err := store.Open(config.StorePath())
		if err != nil {
			return err
		}
		defer st.Close()
		v, err := vault.Open()
		if err != nil {
			return err
		}

		ledger, err := chain.Dial(ctx, settings.RPCURL)
		if err != nil {
			return err
		}
		defer ledger.Close()
		oracle := chain.NewHTTPOracle(settings.OracleURL)
		registry, err := skills.Build(skills.Deps{
			Ledger:    ledger,
			Tokens:    ledger,
			Oracle:    oracle,
			Exchange:  chain.NewMentoClient(oracle, settings.BrokerURL),
			Registrar: chain.NewHTTPRegistrar(settings.WalletSvcURL),
			Sponsor:   chain.NewHTTPSponsor(settings.SponsorURL),
			Agents:    agents,
			Log:       log.Named("skills"),
		})
		if err != nil {
			return fmt.Errorf("capability registry: %w", err)
		}

		orchestrator := engine.NewOrchestrator(registry, log.Named("engine"))
		generator := model.NewClient(settings.ModelURL, registry)

		bots := channel.NewBotManager(
			filepath.Join(config.BaseDataDir(), "bots.json"),
			nil, v, log.Named("bots"))
		resolver := channel.NewResolver(st, agents, bots)
		gateway := channel.NewGateway(resolver, generator, orchestrator, log.Named("gateway"))
		bots.SetGateway(gateway)

		tick, err := time.ParseDuration(settings.CronTick)
		if err != nil {
			tick = 30 * time.Second
		}
		scheduler := schedule.New(st, agents, gateway, tick, log.Named("cron"))

		log.Info("agentpesa starting",
			zap.String("rpc", settings.RPCURL),
			zap.Int("agents", len(agents.List())),
			zap.Int("bots", len(bots.ListBots())))

		bots.StartAll(ctx)
		go scheduler.Start(ctx)

		webchat := channel.NewWebChat(gateway, log.Named("webchat"))
		if err := webchat.Serve(ctx, settings.WebChatListen); err != nil {
			return err
		}
		log.Info("agentpesa stopped")
		return nil
	},
}
