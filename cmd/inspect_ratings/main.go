package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charleschow/opp-adjust/internal/config"
	"github.com/charleschow/opp-adjust/internal/report"
	"github.com/charleschow/opp-adjust/internal/store"
)

func main() {
	cfg := config.Load()
	dbPath := flag.String("db", cfg.StorePath, "path to the ratings database")
	runID := flag.String("run", "", "run id to print (default: latest)")
	n := flag.Int("n", 10, "number of recent runs to list")
	csvOut := flag.Bool("csv", false, "print the run as CSV")
	flag.Parse()

	st, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open %s: %v\n", *dbPath, err)
		os.Exit(1)
	}
	defer st.Close()

	runs, err := st.Runs(*n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot list runs: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("(no runs)")
		return
	}

	if !*csvOut {
		fmt.Printf("=== Runs (last %d) ===\n", len(runs))
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "id\tseason\tstat\tcreated")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", r.ID, r.Season, r.Stat, r.CreatedAt.Local().Format("2006-01-02 3:04 PM"))
		}
		w.Flush()
		fmt.Println()
	}

	id := *runID
	if id == "" {
		id = runs[0].ID
	}
	table, err := st.LoadRun(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load run: %v\n", err)
		os.Exit(1)
	}

	if *csvOut {
		if err := report.WriteCSV(os.Stdout, table); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Printf("=== Run %s ===\n", id)
	report.PrintSummaries(os.Stdout, table)
	fmt.Println()
	report.Print(os.Stdout, table)
}
