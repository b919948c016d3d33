package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"schemareport/internal/analyzer"
	"schemareport/internal/db"
	"schemareport/internal/logger"
	"schemareport/internal/report"
	"schemareport/pkg/config"
)

// Version is set at build time.
var Version = "dev"

var cfgPath string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		logger.Fatal("%v", err)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "schemareport",
		Short: "SQL Server schema and usage reports",
		Long: `Connects to a SQL Server database and writes five Markdown reports
about its tables, stored procedures, indexes, foreign keys and
which procedures use which tables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate the reports",
		Long:  `Run the table, stored procedure, index, relationship and table usage reports in that order.`,
		Args:  cobra.NoArgs,
		RunE:  runReports,
	}

	f := cmd.Flags()
	f.StringVar(&cfgPath, "config", "", "path to config YAML")
	f.String("server", "", "database server host")
	f.String("instance", "", "named instance on the server")
	f.Int("port", config.DefaultPort, "database server port (0 to leave it out)")
	f.String("database", "", "database name")
	f.String("auth", config.AuthSQL, "authentication mode (sql|windows)")
	f.String("user", "", "login for sql authentication")
	f.String("password", "", "password for sql authentication")
	f.String("dsn", "", "explicit sqlserver:// DSN, overrides the connection flags")
	f.Bool("trust-server-certificate", false, "skip server certificate validation")
	f.Int("timeout", config.DefaultTimeout, "db connect timeout seconds")
	f.String("out", config.DefaultOutputDir, "output directory for the reports")
	f.String("date-layout", config.DefaultDateLayout, "Go time layout for procedure dates")
	f.Bool("fail-fast", true, "stop at the first failing report")
	f.BoolP("verbose", "v", false, "debug logging")

	cobra.CheckErr(cmd.RegisterFlagCompletionFunc("auth", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.AuthSQL, config.AuthWindows}, cobra.ShellCompDirectiveNoFileComp
	}))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "schemareport %s\n", Version)
		},
	}
}

func runReports(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgPath, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Verbose {
		logger.SetLevel(logger.LevelDebug)
	}

	driver, dsn, err := config.BuildDriverAndDSN(cfg.Database)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger.Info("connecting to %s/%s", cfg.Database.Host, cfg.Database.DatabaseName)
	dbConn, err := db.Connect(ctx, driver, dsn, cfg.Database.TimeoutSeconds)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	a := analyzer.New(analyzer.Options{
		OutputDir: cfg.Output.Dir,
		FailFast:  cfg.Report.FailFast,
		Report:    report.Options{DateLayout: cfg.Report.DateLayout},
	})
	sum, runErr := a.Run(ctx, dbConn)

	renderSummary(cmd.OutOrStdout(), sum)
	if runErr != nil {
		return runErr
	}
	logger.Info("analysis complete, reports in %s", cfg.Output.Dir)
	return nil
}
