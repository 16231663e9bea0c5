package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"data-recon/internal/engine"
	"data-recon/internal/schema"
)

var (
	orphansTable   string
	orphansJoinKey string
	orphansFormat  string
	orphansOutput  string
)

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "Dump every source row missing from the target (no sampling)",
	RunE: func(cmd *cobra.Command, args []string) error {
		srcCfg, err := GetEndpointConfig("source")
		if err != nil {
			return err
		}
		tgtCfg, err := GetEndpointConfig("target")
		if err != nil {
			return err
		}

		timeout := viper.GetInt("settings.query_timeout")
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

		source := tableFor(srcDB, srcDialect, srcCfg, orphansTable)
		target := tableFor(tgtDB, tgtDialect, tgtCfg, orphansTable)

		key := viper.GetString("settings.join_key")
		if orphansJoinKey != "" {
			key = orphansJoinKey
		}
		if key == "" {
			return fmt.Errorf("join key is required (--join-key or settings.join_key)")
		}

		srcCols, err := source.Columns(ctx)
		if err != nil {
			return err
		}
		tgtCols, err := target.Columns(ctx)
		if err != nil {
			return err
		}
		inv := schema.BuildInventory(srcCols, tgtCols, key, nil)
		srcKeyCol, tgtKeyCol, ok := schema.JoinKeyNames(inv, key)
		if !ok {
			return fmt.Errorf("%w: join key %q not present in both tables", engine.ErrInvalidConfig, key)
		}
		columns := schema.SourceColumns(inv)

		log.Printf("Scanning %s for rows missing from target...", source.FQ())
		rows, nullKeys, err := engine.FullOrphanRows(ctx, source, target, srcKeyCol, tgtKeyCol, columns)
		if err != nil {
			return err
		}
		if nullKeys > 0 {
			fmt.Printf("! Skipped %d rows with a NULL join key\n", nullKeys)
		}

		out := os.Stdout
		if orphansOutput != "" {
			f, err := os.Create(orphansOutput)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		switch strings.ToLower(orphansFormat) {
		case "csv":
			err = writeOrphansCSV(out, columns, rows)
		case "jsonl", "json":
			err = writeOrphansJSONL(out, columns, rows)
		default:
			return fmt.Errorf("unknown format %q (use csv or jsonl)", orphansFormat)
		}
		if err != nil {
			return err
		}

		log.Printf("Done: %d orphan rows", len(rows))
		return nil
	},
}

func writeOrphansCSV(out *os.File, columns []string, rows []engine.RowRecord) error {
	w := csv.NewWriter(out)
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = strings.ToUpper(col)
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(header))
		for i, col := range header {
			if v, ok := row.Columns[col]; ok && !v.Null {
				record[i] = v.Str
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeOrphansJSONL(out *os.File, columns []string, rows []engine.RowRecord) error {
	enc := json.NewEncoder(out)
	for _, row := range rows {
		doc := make(map[string]interface{}, len(columns))
		for _, col := range columns {
			upper := strings.ToUpper(col)
			if v, ok := row.Columns[upper]; ok && !v.Null {
				doc[upper] = v.Str
			} else {
				doc[upper] = nil
			}
		}
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	RootCmd.AddCommand(orphansCmd)

	orphansCmd.Flags().StringVarP(&orphansTable, "table", "t", "", "Table to scan (required)")
	orphansCmd.MarkFlagRequired("table")
	orphansCmd.Flags().StringVarP(&orphansJoinKey, "join-key", "k", "", "Join key column (overrides config)")
	orphansCmd.Flags().StringVarP(&orphansFormat, "format", "f", "csv", "Output format: csv or jsonl")
	orphansCmd.Flags().StringVarP(&orphansOutput, "output", "o", "", "Output file (default stdout)")
}
