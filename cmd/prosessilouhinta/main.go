package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/sthagen/prosessilouhinta/internal/config"
	"github.com/sthagen/prosessilouhinta/internal/cpm"
	"github.com/sthagen/prosessilouhinta/internal/diagram"
	"github.com/sthagen/prosessilouhinta/internal/reporter"
	"github.com/sthagen/prosessilouhinta/internal/ui"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	flagConfig string
	flagJSON   bool
	flagExit   bool
	flagLag    float64
	flagColor  bool
	flagName   string
	flagFormat string
)

var (
	cfg    = config.Default()
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "prosessilouhinta",
		Short: "Critical path analysis of activity networks",
		Long: `Prosessilouhinta loads an activity network from a JSON document, computes
earliest and latest start and finish times of every activity and reports the
critical path as activity-on-node diagrams.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default $"+config.EnvConfig+")")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVar(&flagExit, "exit", false, "Join all leaves into a zero duration "+cpm.ExitName+" activity")
	rootCmd.PersistentFlags().Float64Var(&flagLag, "lag", 0, "Network lag added to the start of every source activity")
	rootCmd.PersistentFlags().BoolVar(&flagColor, "color", true, "Colored terminal output")
	rootCmd.PersistentFlags().StringVar(&flagName, "name", "", "Network name (default is the name in the document)")

	rootCmd.AddCommand(cpaCmd())
	rootCmd.AddCommand(describeCmd())
	rootCmd.AddCommand(nodeCmd())
	rootCmd.AddCommand(wavesCmd())
	rootCmd.AddCommand(vizCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// setup loads the configuration, applies explicit flags on top and
// configures logging and color.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	cfg = loaded

	flags := cmd.Flags()
	if flags.Changed("lag") {
		cfg.Lag = flagLag
	}
	if flags.Changed("exit") {
		cfg.CommonExit = flagExit
	}
	if flags.Changed("color") {
		cfg.Color = flagColor
	} else if os.Getenv(config.EnvColor) == "" && !isatty.IsTerminal(os.Stdout.Fd()) {
		cfg.Color = false
	}
	if flagJSON {
		cfg.Format = config.FormatJSON
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	ui.SetColor(cfg.Color)
	return nil
}

// loadNetwork is shared logic for every command reading a network file.
func loadNetwork(path string) (*cpm.Network, error) {
	name := flagName
	if name == "" {
		name = documentName(path)
	}

	n := cpm.NewNetwork(name)
	n.Lag = cfg.Lag
	n.SetLogger(logger)

	if err := n.LoadNetwork(path); err != nil {
		return nil, fmt.Errorf("load network: %w", err)
	}

	if cfg.CommonExit {
		if _, err := n.AddExit(); err != nil {
			return nil, fmt.Errorf("add common exit: %w", err)
		}
		if err := n.Update(); err != nil {
			return nil, fmt.Errorf("update network: %w", err)
		}
	}

	logger.Info("network loaded", "path", path, "network", n.Name, "activities", n.Len())
	return n, nil
}

// documentName peeks at the name of the network document. Unreadable files
// yield "" and are reported by the loader.
func documentName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return gjson.GetBytes(data, "name").String()
}

func cpaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cpa <file>",
		Short: "Print the critical path as chained activity-on-node diagrams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNetwork(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cfg.Format == config.FormatJSON {
				return outputJSON(out, n.CriticalPathSnapshots())
			}

			fmt.Fprint(out, diagram.Text(n.NetworkSnapshot()))
			fmt.Fprintln(out)
			fmt.Fprint(out, diagram.Chain(n.CriticalPathSnapshots()))
			return nil
		},
	}
}

func describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <file>",
		Short: "Print the schedule of every activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNetwork(args[0])
			if err != nil {
				return err
			}
			rpt := reporter.New(n)
			logger.Debug("schedule", "report", rpt.ID, "summary", rpt.Summary())

			out := cmd.OutOrStdout()
			if cfg.Format == config.FormatJSON {
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			ui.PrintBanner(out, n.Name)
			rpt.PrintSchedule(out)
			return nil
		},
	}
}

func nodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "node <file> <activity>",
		Short: "Print the activity-on-node diagram of one activity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNetwork(args[0])
			if err != nil {
				return err
			}
			h, err := n.Lookup(args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cfg.Format == config.FormatJSON {
				return outputJSON(out, n.Snapshot(h))
			}
			fmt.Fprint(out, diagram.Text(n.Snapshot(h)))
			return nil
		},
	}
}

func wavesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "waves <file>",
		Short: "Group activities by earliest start",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNetwork(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cfg.Format == config.FormatJSON {
				return outputJSON(out, cpm.Waves(n))
			}
			reporter.New(n).PrintWaves(out)
			return nil
		},
	}
}

func vizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viz <file>",
		Short: "Print the network graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNetwork(args[0])
			if err != nil {
				return err
			}

			format := cfg.Format
			if cmd.Flags().Changed("format") {
				format = strings.ToLower(flagFormat)
			}
			out := cmd.OutOrStdout()
			switch format {
			case config.FormatDOT:
				reporter.New(n).PrintDOT(out)
				return nil
			case config.FormatJSON:
				return outputJSON(out, n.Adjacency())
			default:
				printASCII(out, n)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format (text, dot, json)")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "prosessilouhinta version %s\n", version)
		},
	}
}

// --- Output helpers ---

func outputJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printASCII(w io.Writer, n *cpm.Network) {
	fmt.Fprintf(w, "🔗 %s\n", ui.BoldCyan("Activity Dependency Graph"))
	fmt.Fprintln(w, ui.Cyan("═══════════════════════════"))
	fmt.Fprintln(w)

	path, _ := n.CriticalPath()
	critical := make(map[cpm.Handle]bool, len(path))
	for _, h := range path {
		critical[h] = true
	}

	for _, h := range n.Handles() {
		node := n.Node(h)
		fmt.Fprintf(w, "  %s %s %s\n", ui.CriticalMark(critical[h]), ui.Activity(node.Name),
			ui.Dim("DUR="+diagram.Value(&node.Duration)))
		for _, succ := range node.Succ {
			fmt.Fprintf(w, "      %s %s\n", ui.Dim("└──→"), n.Node(succ).Name)
		}
	}
}
