package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/0xdavidjansen/crewtax/internal/calculation"
	"github.com/0xdavidjansen/crewtax/internal/config"
	"github.com/0xdavidjansen/crewtax/internal/domain"
	"github.com/0xdavidjansen/crewtax/internal/output"
	"github.com/0xdavidjansen/crewtax/internal/rates"
	"github.com/0xdavidjansen/crewtax/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// zapLogger adapts a zap SugaredLogger to the engine's Logger interface.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (z zapLogger) Debugf(format string, args ...any) { z.s.Debugf(format, args...) }
func (z zapLogger) Infof(format string, args ...any)  { z.s.Infof(format, args...) }
func (z zapLogger) Warnf(format string, args ...any)  { z.s.Warnf(format, args...) }
func (z zapLogger) Errorf(format string, args ...any) { z.s.Errorf(format, args...) }

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

var rootCmd = &cobra.Command{
	Use:   "crewtax",
	Short: "Wage-tax deduction calculator for flight crew",
	Long:  "Computes German wage-tax deductions (Verpflegungsmehraufwand, Entfernungspauschale, cleaning, tips) from parsed duty-roster data",
}

func runCalculation(rosterFile string, verbose bool) (*domain.TaxCalculation, error) {
	logger, err := newLogger(verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	parser := config.NewInputParser()
	input, parseDiags, err := parser.LoadFromFile(rosterFile)
	if err != nil {
		return nil, err
	}
	input.CurrentDate = time.Now().UTC()

	resolver, err := rates.NewResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to load rate tables: %w", err)
	}

	engine := calculation.NewEngine(resolver)
	engine.SetLogger(zapLogger{s: logger.Sugar()})

	calc, err := engine.Calculate(input)
	if err != nil {
		return nil, err
	}
	// Parser findings (malformed clock strings) belong on the result
	// alongside the engine's own diagnostics.
	calc.Diagnostics = append(parseDiags, calc.Diagnostics...)
	return calc, nil
}

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [roster-file]",
		Short: "Calculate deductions from a roster file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			verbose, _ := cmd.Flags().GetBool("verbose")
			year, _ := cmd.Flags().GetInt("year")

			calc, err := runCalculation(args[0], verbose)
			if err != nil {
				return err
			}
			return output.GenerateReport(cmd.OutOrStdout(), calculation.FilterYear(calc, year), format)
		},
	}
	cmd.Flags().String("format", "console", "output format: console, json, or csv")
	cmd.Flags().Bool("verbose", false, "enable debug logging")
	cmd.Flags().Int("year", 0, "restrict the report to one calendar year (0 = all)")
	return cmd
}

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui [roster-file]",
		Short: "Browse calculated months interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			calc, err := runCalculation(args[0], verbose)
			if err != nil {
				return err
			}
			program := tea.NewProgram(tui.NewModel(calc), tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}
	cmd.Flags().Bool("verbose", false, "enable debug logging")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "crewtax %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Version)
			}
		},
	}
}

func main() {
	rootCmd.AddCommand(calculateCmd(), tuiCmd(), versionCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
