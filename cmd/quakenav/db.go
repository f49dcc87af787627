package main

import (
	"fmt"

	"quakenav/internal/adapter/baseline/file"
	gormrepo "quakenav/internal/adapter/repo/gorm"
	"quakenav/internal/app/baseline"
	"quakenav/internal/app/ports"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply SQL migrations to the baseline database",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = gormrepo.Close(db) }()

		applied, err := gormrepo.ApplyMigrations(cmd.Context(), db, cfg.DB.MigrationsDir)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", zap.Strings("versions", applied), zap.String("dir", cfg.DB.MigrationsDir))
		return nil
	},
}

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage stored baseline grids",
}

var baselineImportCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Store every baseline found in YAML/JSON files, all or nothing",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBaselineImport,
}

func init() {
	baselineCmd.AddCommand(baselineImportCmd)
}

func runBaselineImport(cmd *cobra.Command, args []string) error {
	var all []ports.Baseline
	for _, path := range args {
		bs, err := file.Read(path)
		if err != nil {
			return err
		}
		all = append(all, bs...)
	}

	db, err := openDB(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = gormrepo.Close(db) }()

	resp, err := baseline.ImportUseCase{
		TxManager: gormrepo.NewTxManager(db),
		Repo:      gormrepo.NewBaselineRepo(db),
	}.Execute(cmd.Context(), baseline.ImportRequest{Baselines: all})
	if err != nil {
		return fmt.Errorf("import baselines: %w", err)
	}
	logger.Info("baselines stored", zap.Strings("names", resp.Saved))
	return nil
}
