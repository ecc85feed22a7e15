package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"leveling-bot/bot"
	"leveling-bot/config"
	"leveling-bot/handlers"
	"leveling-bot/leveling"
	"leveling-bot/model"
	"leveling-bot/utils"
	"leveling-bot/utils/database/levels"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "leveling-bot",
		Short:         "Discord XP and level role bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
	root.AddCommand(newServeCommand(), newCurveCommand(), newTopCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to Discord and start awarding XP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.LogFile != "" {
		closer, err := utils.TeeLogFile(cfg.LogFile)
		if err != nil {
			return err
		}
		defer closer.Close()
	}

	settings, err := config.NewLevelingStore(cfg.LevelingConfigPath)
	if err != nil {
		return fmt.Errorf("error loading leveling settings: %w", err)
	}

	ledger, err := levels.Init(cfg.LevelingDBPath)
	if err != nil {
		log.Printf("[Database] Failed to open %s, XP will not be recorded: %v", cfg.LevelingDBPath, err)
		ledger = nil
	}

	b, err := bot.New(cfg, settings, ledger)
	if err != nil {
		return fmt.Errorf("error creating bot: %w", err)
	}
	defer b.Close()

	handlers.Register(b)
	return b.Run()
}

func newCurveCommand() *cobra.Command {
	var maxLevel int
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Print the XP needed for each level",
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxLevel < 1 {
				return fmt.Errorf("--levels must be at least 1")
			}
			return writeCurve(cmd.OutOrStdout(), maxLevel)
		},
	}
	cmd.Flags().IntVar(&maxLevel, "levels", 20, "number of levels to print")
	return cmd
}

func writeCurve(w io.Writer, levelCount int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LEVEL\tXP TO NEXT\tTOTAL XP")
	for level := 0; level < levelCount; level++ {
		fmt.Fprintf(tw, "%d\t%d\t%d\n", level, leveling.XPRequiredForLevel(level), leveling.CumulativeXPForLevel(level))
	}
	return tw.Flush()
}

func newTopCommand() *cobra.Command {
	var (
		guildID string
		limit   int
		dbPath  string
	)
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Print a guild's leaderboard straight from the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if guildID == "" {
				return fmt.Errorf("--guild is required")
			}
			if dbPath == "" {
				_ = godotenv.Load()
				dbPath = os.Getenv("LEVELING_DB_PATH")
				if dbPath == "" {
					dbPath = config.DefaultLevelingDBPath
				}
			}
			if _, err := os.Stat(dbPath); err != nil {
				return fmt.Errorf("cannot open ledger: %w", err)
			}
			store, err := levels.Init(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.Top(context.Background(), guildID, limit, 0)
			if err != nil {
				return err
			}
			return writeTop(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().StringVar(&guildID, "guild", "", "guild id")
	cmd.Flags().IntVar(&limit, "limit", 10, "number of rows")
	cmd.Flags().StringVar(&dbPath, "db", "", "ledger path (defaults to LEVELING_DB_PATH)")
	return cmd
}

func writeTop(w io.Writer, rows []model.RankedUser) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No ranked members.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tUSER\tLEVEL\tTOTAL XP")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", r.Rank, r.UserID, r.Level, r.TotalXP)
	}
	return tw.Flush()
}
