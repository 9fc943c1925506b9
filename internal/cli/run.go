package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dynobench/dynobench/internal/benchmark/engine"
	"github.com/dynobench/dynobench/internal/benchmark/report"
	"github.com/dynobench/dynobench/internal/config"
	"github.com/dynobench/dynobench/internal/dynamo"
	"github.com/dynobench/dynobench/internal/logging"
)

var runCmd = newRunCmd()

// newRunCmd builds the run subcommand with fresh flag state.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark",
		Long: `Execute the benchmark: a warmup phase whose results are discarded,
then a measured phase whose per-query latencies feed the final report.

Flag mode:
  dynobench run --table orders -p customer_id -s order_ts \
    -P cust-1042 -S 2026-01-01 -E 2026-02-01 \
    --qps 50 --parallelism 8 --num-queries 1000

Config file mode:
  dynobench run --config bench.yaml`,
		RunE: runBenchmark,
	}

	cmd.Flags().StringP("config", "c", "", "YAML config file (flags override file values)")

	cmd.Flags().StringP("table", "t", "", "DynamoDB table name")
	cmd.Flags().StringP("partition-key", "p", "", "Partition key name")
	cmd.Flags().StringP("sort-key", "s", "", "Sort key name")
	cmd.Flags().StringP("partition-value", "P", "", "Partition key value")
	cmd.Flags().StringP("sort-start", "S", "", "Sort key range start")
	cmd.Flags().StringP("sort-end", "E", "", "Sort key range end")
	cmd.Flags().StringP("region", "r", config.DefaultRegion, "AWS region")

	cmd.Flags().IntP("num-queries", "n", config.DefaultQueries, "Number of measured queries")
	cmd.Flags().Float64("qps", config.DefaultRate, "Target queries per second")
	cmd.Flags().IntP("parallelism", "k", 1, "Maximum concurrent queries")
	cmd.Flags().IntP("warmup", "w", config.DefaultWarmup, "Number of warmup queries")

	cmd.Flags().Bool("verbose", false, "Include run ID and mean/stddev in the report")
	cmd.Flags().Bool("debug", false, "Enable debug logging")

	return cmd
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	// Errors from here on are run failures, not usage mistakes.
	cmd.SilenceUsage = true

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		logging.SetDebug()
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := dynamo.NewClient(ctx, cfg.Region)
	if err != nil {
		return err
	}
	op, err := dynamo.NewRangeQuery(client, cfg)
	if err != nil {
		return err
	}

	logging.Infof("Table: %s, Partition Key: %s = %s", cfg.Table, cfg.PartitionKey, cfg.PartitionValue)
	logging.Infof("Sort Key: %s, Range: %s to %s", cfg.SortKey, cfg.SortStart, cfg.SortEnd)

	eng, err := engine.New(cfg, op)
	if err != nil {
		return err
	}
	result, err := eng.Run(ctx)
	if err != nil {
		return err
	}

	return report.NewRenderer(os.Stdout, verbose).Render(result)
}

// buildConfig assembles the benchmark configuration from a config file
// or from flags. Flags explicitly set on the command line override
// file values.
func buildConfig(cmd *cobra.Command) (*config.BenchmarkConfig, error) {
	configFile, _ := cmd.Flags().GetString("config")

	var cfg *config.BenchmarkConfig
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &config.BenchmarkConfig{}
	}

	flagged := func(name string) bool {
		return configFile == "" || cmd.Flags().Changed(name)
	}

	if flagged("qps") {
		cfg.Rate, _ = cmd.Flags().GetFloat64("qps")
	}
	if flagged("parallelism") {
		cfg.Concurrency, _ = cmd.Flags().GetInt("parallelism")
	}
	if flagged("warmup") {
		cfg.Warmup, _ = cmd.Flags().GetInt("warmup")
	}
	if flagged("num-queries") {
		cfg.Queries, _ = cmd.Flags().GetInt("num-queries")
	}
	if flagged("table") {
		cfg.Table, _ = cmd.Flags().GetString("table")
	}
	if flagged("partition-key") {
		cfg.PartitionKey, _ = cmd.Flags().GetString("partition-key")
	}
	if flagged("sort-key") {
		cfg.SortKey, _ = cmd.Flags().GetString("sort-key")
	}
	if flagged("partition-value") {
		cfg.PartitionValue, _ = cmd.Flags().GetString("partition-value")
	}
	if flagged("sort-start") {
		cfg.SortStart, _ = cmd.Flags().GetString("sort-start")
	}
	if flagged("sort-end") {
		cfg.SortEnd, _ = cmd.Flags().GetString("sort-end")
	}
	if flagged("region") {
		cfg.Region, _ = cmd.Flags().GetString("region")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
