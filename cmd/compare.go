package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"data-recon/internal/audit"
	"data-recon/internal/engine"
)

var (
	compareTable     string
	joinKey          string
	sampleSize       int
	excludeCols      []string
	sourceWatermark  string
	targetWatermark  string
	compareMode      string
	noSampleSource   bool
	noSampleTarget   bool
	mismatchLimit    int
	orphanLimit      int
	outputPath       string
	strictExit       bool
	queryTimeoutSecs int
)

const pipelineStages = 6

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a table between the source and target databases",
	RunE: func(cmd *cobra.Command, args []string) error {
		srcCfg, err := GetEndpointConfig("source")
		if err != nil {
			return err
		}
		tgtCfg, err := GetEndpointConfig("target")
		if err != nil {
			return err
		}

		// Fetch settings from Viper (Flag > Config > Default)
		timeout := viper.GetInt("settings.query_timeout")
		if queryTimeoutSecs > 0 {
			timeout = queryTimeoutSecs
		}
		ctx := cmd.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
			defer cancel()
		}

		srcDB, srcDialect, err := openEndpoint(ctx, srcCfg)
		if err != nil {
			return err
		}
		defer srcDB.Close()
		tgtDB, tgtDialect, err := openEndpoint(ctx, tgtCfg)
		if err != nil {
			return err
		}
		defer tgtDB.Close()

		fmt.Printf("🦅 Source: %s via %s | Target: %s via %s\n",
			srcCfg.Name, srcCfg.Driver, tgtCfg.Name, tgtCfg.Driver)

		source := tableFor(srcDB, srcDialect, srcCfg, compareTable)
		target := tableFor(tgtDB, tgtDialect, tgtCfg, compareTable)

		mode, err := engine.ParseCompareMode(compareMode)
		if err != nil {
			return err
		}

		n := viper.GetInt("settings.sample_size")
		if sampleSize > 0 { // Flag override
			n = sampleSize
		}
		key := viper.GetString("settings.join_key")
		if joinKey != "" {
			key = joinKey
		}
		exclude := viper.GetStringSlice("settings.exclude_columns")
		if len(excludeCols) > 0 {
			exclude = excludeCols
		}

		cfg := &engine.Config{
			TableName:       compareTable,
			ComparisonType:  fmt.Sprintf("%s vs %s", srcCfg.Name, tgtCfg.Name),
			SourceRef:       source.Ref().String(),
			TargetRef:       target.Ref().String(),
			SampleSize:      n,
			JoinKey:         key,
			ExcludeColumns:  exclude,
			SourceWatermark: sourceWatermark,
			TargetWatermark: targetWatermark,
			Mode:            mode,
			Sampling: engine.SamplingPolicy{
				SampleSourceKeys: !noSampleSource,
				SampleTargetKeys: !noSampleTarget,
			},
			MismatchLimit: mismatchLimit,
			OrphanLimit:   orphanLimit,
		}

		log.Printf("Comparing %s (sample=%d, key=%s)", compareTable, n, key)
		start := time.Now()

		uiprogress.Start()
		stage := "starting"
		bar := uiprogress.AddBar(pipelineStages).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return fmt.Sprintf("%-22s", stage)
		})

		res, err := engine.Run(ctx, cfg, source, target, func(s string) {
			stage = s
			bar.Incr()
		})
		uiprogress.Stop()
		if err != nil {
			return err
		}

		printReport(cfg, res)
		log.Printf("Comparison Done! Time Elapsed: %s", time.Since(start))

		if outputPath != "" {
			if err := writeSummary(outputPath, res.Summary); err != nil {
				return err
			}
			fmt.Printf("Summary written to %s\n", outputPath)
		}

		if viper.GetBool("audit.enabled") {
			recorder := audit.NewRecorder(tgtDB, tgtDialect, viper.GetString("audit.table_prefix"))
			if err := recorder.EnsureTables(ctx); err != nil {
				return err
			}
			runID := uuid.NewString()
			if err := recorder.RecordRun(ctx, runID, "data-recon", cfg, res); err != nil {
				return err
			}
			log.Printf("Audit run recorded: %s", runID)
		}

		if strictExit && !res.Summary.Passed() {
			return fmt.Errorf("comparison failed: %s", res.Summary.OverallStatus)
		}
		return nil
	},
}

func printReport(cfg *engine.Config, res *engine.ComparisonResult) {
	fmt.Println("\n📋 Column Inventory:")
	for i, s := range res.Inventory {
		fmt.Printf("[%02d] %-30s %-20s %-20s %s\n",
			i+1, s.Name, orDash(s.SourceType), orDash(s.TargetType), s.Action)
	}

	fmt.Println("\n📊 Row Counts:")
	fmt.Printf("  Source: %d rows", res.Totals.SourceRows)
	if !res.Totals.SourceWatermark.Null {
		fmt.Printf(" (high watermark: %s)", res.Totals.SourceWatermark.Str)
	}
	fmt.Println()
	fmt.Printf("  Target: %d rows", res.Totals.TargetRows)
	if !res.Totals.TargetWatermark.Null {
		fmt.Printf(" (high watermark: %s)", res.Totals.TargetWatermark.Str)
	}
	fmt.Println()

	diff := res.Diff
	fmt.Println("\n📊 Sampled Row Summary:")
	fmt.Printf("  Sampled:          %d\n", diff.Sampled)
	fmt.Printf("  Found in target:  %d\n", diff.FoundInTarget)
	fmt.Printf("  Missing:          %d\n", diff.MissingInTarget)
	fmt.Printf("  Fully matched:    %d\n", diff.FullyMatched)
	fmt.Printf("  With differences: %d\n", diff.WithDifferences)
	if diff.NullKeyRows > 0 {
		fmt.Printf("  ! Skipped %d rows with a NULL join key\n", diff.NullKeyRows)
	}

	if len(diff.ColumnStats) > 0 && diff.Sampled > 0 {
		fmt.Println("\n📊 Column Match Stats:")
		for _, st := range diff.ColumnStats {
			icon := "✓"
			if st.Mismatches > 0 {
				icon = "!"
			}
			pct := "n/a"
			if st.MatchPct != nil {
				pct = fmt.Sprintf("%.2f%%", *st.MatchPct)
			}
			fmt.Printf("[%s] %-30s matches=%d mismatches=%d row_missing=%d match=%s\n",
				icon, st.Column, st.Matches, st.Mismatches, st.RowMissing, pct)
		}
	}

	if diff.MismatchTotal > 0 {
		fmt.Printf("\n🔍 Mismatch Details (%d of %d):\n", len(diff.Mismatches), diff.MismatchTotal)
		for _, m := range diff.Mismatches {
			fmt.Printf("  %s [%s]: source=%s target=%s (%s)\n",
				m.Column, m.JoinKey, m.Source, m.Target, m.Status)
		}
	}

	orph := res.Orphans
	if orph.MissingInTargetTotal > 0 || orph.MissingInSourceTotal > 0 {
		fmt.Println("\n🔍 Orphan Keys:")
		fmt.Printf("  Missing in target: %d %v\n", orph.MissingInTargetTotal, orph.MissingInTarget)
		fmt.Printf("  Missing in source: %d %v\n", orph.MissingInSourceTotal, orph.MissingInSource)
	}

	fmt.Println("\n--------------------------------------------------")
	icon := "✓"
	if !res.Summary.Passed() {
		icon = "✗"
	}
	fmt.Printf("[%s] %s\n", icon, res.Summary.OverallStatus)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func writeSummary(path string, summary *engine.Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func init() {
	RootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVarP(&compareTable, "table", "t", "", "Table to compare (required)")
	compareCmd.MarkFlagRequired("table")
	compareCmd.Flags().StringVarP(&joinKey, "join-key", "k", "", "Join key column (overrides config)")
	compareCmd.Flags().IntVarP(&sampleSize, "sample-size", "n", 0, "Number of source rows to sample (overrides config)")
	compareCmd.Flags().StringSliceVarP(&excludeCols, "exclude", "x", []string{}, "Columns to exclude (comma-separated)")
	compareCmd.Flags().StringVar(&sourceWatermark, "source-watermark", "", "Source high-watermark column")
	compareCmd.Flags().StringVar(&targetWatermark, "target-watermark", "", "Target high-watermark column")
	compareCmd.Flags().StringVar(&compareMode, "compare-mode", "", "Value comparison mode: strings (default) or numeric-aware")
	compareCmd.Flags().BoolVar(&noSampleSource, "no-sample-source", false, "Check all source keys for orphans, not a sample")
	compareCmd.Flags().BoolVar(&noSampleTarget, "no-sample-target", false, "Check all target keys for orphans, not a sample")
	compareCmd.Flags().IntVar(&mismatchLimit, "mismatch-limit", 0, "Cap on mismatch details (default 100)")
	compareCmd.Flags().IntVar(&orphanLimit, "orphan-limit", 0, "Cap on orphan keys per direction (default 100)")
	compareCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the JSON summary to this file")
	compareCmd.Flags().BoolVar(&strictExit, "strict", false, "Exit non-zero when the comparison fails")
	compareCmd.Flags().IntVar(&queryTimeoutSecs, "timeout", 0, "Query timeout in seconds (overrides config)")

	viper.BindPFlag("settings.sample_size", compareCmd.Flags().Lookup("sample-size"))
	viper.SetDefault("settings.sample_size", 1000)
	viper.SetDefault("settings.query_timeout", 300)
	viper.SetDefault("audit.enabled", false)
}
