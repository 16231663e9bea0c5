package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"time"

	gofakeit "github.com/brianvoe/gofakeit/v6"
	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"

	"data-recon/internal/dialect"
)

var (
	seedTable    string
	seedRows     int
	seedDriftPct int
	seedMissPct  int
	seedExtra    int
	seedSeed     int64
)

// demoRow is one generated record for the seed demo tables.
type demoRow struct {
	id        int
	customer  string
	email     string
	amount    float64
	status    string
	updatedAt time.Time
}

var demoColumns = []string{"id", "customer", "email", "amount", "status", "updated_at"}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo table pair with injected drift for testing comparisons",
	RunE: func(cmd *cobra.Command, args []string) error {
		srcCfg, err := GetEndpointConfig("source")
		if err != nil {
			return err
		}
		tgtCfg, err := GetEndpointConfig("target")
		if err != nil {
			return err
		}

		ctx := cmd.Context()
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

		gofakeit.Seed(seedSeed)
		rng := rand.New(rand.NewSource(seedSeed))

		log.Printf("Generating %d demo rows for %s...", seedRows, seedTable)
		rows := make([]demoRow, seedRows)
		base := time.Now().UTC().Add(-30 * 24 * time.Hour).Truncate(time.Second)
		for i := range rows {
			rows[i] = demoRow{
				id:        i + 1,
				customer:  gofakeit.Name(),
				email:     gofakeit.Email(),
				amount:    gofakeit.Price(1, 10000),
				status:    gofakeit.RandomString([]string{"NEW", "PAID", "SHIPPED", "CLOSED"}),
				updatedAt: base.Add(time.Duration(i) * time.Minute),
			}
		}

		// Target drift: drop rows, mutate values, add rows the source never had.
		targetRows := make([]demoRow, 0, len(rows)+seedExtra)
		dropped, mutated := 0, 0
		for _, r := range rows {
			roll := rng.Intn(100)
			switch {
			case roll < seedMissPct:
				dropped++
				continue
			case roll < seedMissPct+seedDriftPct:
				r.amount = gofakeit.Price(1, 10000)
				mutated++
			}
			targetRows = append(targetRows, r)
		}
		for i := 0; i < seedExtra; i++ {
			targetRows = append(targetRows, demoRow{
				id:        seedRows + i + 1,
				customer:  gofakeit.Name(),
				email:     gofakeit.Email(),
				amount:    gofakeit.Price(1, 10000),
				status:    "NEW",
				updatedAt: time.Now().UTC().Truncate(time.Second),
			})
		}

		uiprogress.Start()
		bar := uiprogress.AddBar(len(rows) + len(targetRows)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Seeding: "
		})

		if err := seedEndpoint(ctx, srcDB, srcDialect, srcCfg, rows, bar.Incr); err != nil {
			uiprogress.Stop()
			return fmt.Errorf("seed source: %w", err)
		}
		if err := seedEndpoint(ctx, tgtDB, tgtDialect, tgtCfg, targetRows, bar.Incr); err != nil {
			uiprogress.Stop()
			return fmt.Errorf("seed target: %w", err)
		}
		uiprogress.Stop()

		fmt.Println("\n📊 Seed Report:")
		fmt.Printf("  Source rows:   %d\n", len(rows))
		fmt.Printf("  Target rows:   %d (dropped %d, mutated %d, added %d)\n",
			len(targetRows), dropped, mutated, seedExtra)
		fmt.Printf("\nTry: data-recon compare -t %s -k id -n %d\n", seedTable, seedRows)
		return nil
	},
}

func seedEndpoint(ctx context.Context, db *sql.DB, d dialect.Dialect, ep *EndpointConfig, rows []demoRow, onInsert func() bool) error {
	fq := d.QualifyTable(ep.Database, ep.Schema, seedTable)
	if _, err := db.ExecContext(ctx, d.CreateIfNotExists(fq, demoTableBody(d))); err != nil {
		return fmt.Errorf("create %s: %w", fq, err)
	}

	insert := d.InsertQuery(fq, demoColumns)
	for _, r := range rows {
		_, err := db.ExecContext(ctx, insert,
			r.id, r.customer, r.email, r.amount, r.status, r.updatedAt)
		if err != nil {
			return fmt.Errorf("insert into %s: %w", fq, err)
		}
		onInsert()
	}
	return nil
}

func demoTableBody(d dialect.Dialect) string {
	// TIMESTAMP means rowversion on SQL Server.
	ts := "TIMESTAMP"
	switch d.(type) {
	case *dialect.MSSQLDialect:
		ts = "DATETIME2"
	case *dialect.MysqlDialect:
		ts = "DATETIME"
	}
	return fmt.Sprintf(`id INT NOT NULL,
	customer VARCHAR(100),
	email VARCHAR(255),
	amount DECIMAL(12,2),
	status VARCHAR(20),
	updated_at %s`, ts)
}

func init() {
	RootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVarP(&seedTable, "table", "t", "recon_demo", "Demo table name")
	seedCmd.Flags().IntVarP(&seedRows, "rows", "n", 1000, "Number of source rows to generate")
	seedCmd.Flags().IntVar(&seedDriftPct, "drift-pct", 5, "Percent of target rows with a mutated amount")
	seedCmd.Flags().IntVar(&seedMissPct, "missing-pct", 2, "Percent of source rows dropped from the target")
	seedCmd.Flags().IntVar(&seedExtra, "extra-rows", 10, "Extra rows only the target has")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 1, "Random seed for reproducible demo data")
}
