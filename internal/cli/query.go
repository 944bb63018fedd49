package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xtding233/enhance-backend/internal/catalog"
	"github.com/xtding233/enhance-backend/internal/enhance"
)

func newChanceCmd(a *app) *cobra.Command {
	var fs int
	cmd := &cobra.Command{
		Use:   "chance FAMILY LEVEL",
		Short: "Show the success chance and expected attempts at a failstack",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, level := args[0], catalog.Level(args[1])
			if !cmd.Flags().Changed("fs") {
				fs = enhance.Model{Catalog: a.calc.Catalog()}.RecommendedFS(family, level)
			}
			q, err := a.calc.Chance(family, level, fs)
			if err != nil {
				return err
			}
			if a.output == "json" {
				return a.writeJSON(q)
			}
			w := a.table()
			fprintf(w, "family\t%s\n", q.Family)
			fprintf(w, "level\t%s\n", q.Level)
			fprintf(w, "failstack\t%d (recommended %d)\n", q.Failstack, q.RecommendedFS)
			fprintf(w, "chance\t%s (max %s)\n", pct(q.Chance), pct(q.MaxChance))
			fprintf(w, "attempts protected\t%.2f\n", q.AttemptsProtected)
			fprintf(w, "attempts unprotected\t%.2f\n", q.AttemptsUnprotected)
			if q.UsedDefault {
				fprintf(w, "note\tno rate data, default curve used\n")
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&fs, "fs", 0, "failstack (default: recommended for the level)")
	return cmd
}

func newAttemptsCmd(a *app) *cobra.Command {
	var (
		base     float64
		fs       int
		feedback bool
		fixed    bool
		trials   int
		seed     uint64
	)
	cmd := &cobra.Command{
		Use:   "attempts",
		Short: "Expected attempts until success for a base chance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if base <= 0 || base > 100 {
				return fmt.Errorf("--base must be in (0, 100], got %v", base)
			}
			if fs < 0 {
				return fmt.Errorf("--fs must not be negative, got %d", fs)
			}
			n := enhance.ExpectedAttempts(base, fs, feedback, fixed)
			if trials <= 0 {
				if a.output == "json" {
					return a.writeJSON(map[string]float64{"attempts": n})
				}
				fprintf(a.stdout, "%.4f\n", n)
				return nil
			}

			curve := catalog.Curve{Policy: catalog.PolicyCappedLinear, Base: base}
			if fixed {
				curve.Policy = catalog.PolicyFixed
			}
			rng := enhance.DefaultRNG()
			if cmd.Flags().Changed("seed") {
				rng = enhance.NewSeededRNG(seed)
			}
			st, err := enhance.RunMonteCarlo(enhance.TrialParams{Curve: curve, StartFS: fs, Feedback: feedback}, trials, rng)
			if err != nil {
				return err
			}
			if a.output == "json" {
				return a.writeJSON(struct {
					Attempts  float64              `json:"attempts"`
					Simulated enhance.AttemptStats `json:"simulated"`
				}{n, st})
			}
			w := a.table()
			fprintf(w, "expected\t%.4f\n", n)
			fprintf(w, "simulated mean\t%.4f over %d trials\n", st.Mean, st.Trials)
			fprintf(w, "stddev\t%.4f\n", st.StdDev)
			fprintf(w, "p50 / p90 / p99\t%.0f / %.0f / %.0f\n", st.P50, st.P90, st.P99)
			fprintf(w, "worst\t%d\n", st.Worst)
			return w.Flush()
		},
	}
	cmd.Flags().Float64Var(&base, "base", 0, "base chance in percent")
	cmd.Flags().IntVar(&fs, "fs", 0, "starting failstack")
	cmd.Flags().BoolVar(&feedback, "feedback", false, "failures add one failstack")
	cmd.Flags().BoolVar(&fixed, "fixed", false, "chance ignores failstack")
	cmd.Flags().IntVar(&trials, "trials", 0, "also estimate by Monte Carlo over this many trials")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for the Monte Carlo estimate")
	_ = cmd.MarkFlagRequired("base")
	return cmd
}

func newFamiliesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "families",
		Short: "List gear families and their ladders",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			fams := a.calc.Catalog().Families()
			if a.output == "json" {
				type row struct {
					Key    string          `json:"key"`
					Name   string          `json:"name"`
					Policy catalog.Policy  `json:"policy"`
					Ladder []catalog.Level `json:"ladder"`
				}
				rows := make([]row, 0, len(fams))
				for _, f := range fams {
					rows = append(rows, row{Key: f.Key, Name: f.Name, Policy: f.Policy, Ladder: f.Ladder})
				}
				return a.writeJSON(rows)
			}
			w := a.table()
			fprintf(w, "KEY\tNAME\tPOLICY\tLADDER\n")
			for _, f := range fams {
				ladder := make([]string, len(f.Ladder))
				for i, l := range f.Ladder {
					ladder[i] = string(l)
				}
				fprintf(w, "%s\t%s\t%s\t%s\n", f.Key, f.Name, f.Policy, strings.Join(ladder, " "))
			}
			return w.Flush()
		},
	}
}
