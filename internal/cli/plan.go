package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xtding233/enhance-backend/internal/cascade"
	"github.com/xtding233/enhance-backend/internal/catalog"
	"github.com/xtding233/enhance-backend/internal/enhance"
	"github.com/xtding233/enhance-backend/internal/pricing"
)

func protectionKind(premium bool) catalog.ProtectionKind {
	if premium {
		return catalog.ProtectionPremium
	}
	return catalog.ProtectionStandard
}

func newCascadeCmd(a *app) *cobra.Command {
	var (
		fs           []int
		protectAll   bool
		protectSteps []bool
		premium      bool
		repair       bool
		efficient    bool
		buildFS      bool
		damping      float64
	)
	cmd := &cobra.Command{
		Use:   "cascade FAMILY START TARGET",
		Short: "Price climbing from START to TARGET",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.backend()
			if err != nil {
				return err
			}
			req := cascade.Request{
				Family:     args[0],
				Start:      catalog.Level(args[1]),
				Target:     catalog.Level(args[2]),
				Failstacks: fs,
				Region:     catalog.Region(a.region),
				Options: cascade.Options{
					Protection:                cascade.ProtectionPlan{All: protectAll, PerStep: protectSteps},
					ProtectionKind:            protectionKind(premium),
					IncludeRepair:             repair,
					EfficientRepair:           efficient,
					IncludeFailstackBuildCost: buildFS,
					RecoveryDamping:           damping,
				},
			}
			res, err := b.Cascade(cmd.Context(), req)
			if err != nil {
				return err
			}
			if a.output == "json" {
				return a.writeJSON(res)
			}
			return a.printCascade(res)
		},
	}
	cmd.Flags().IntSliceVar(&fs, "fs", nil, "failstack per step, comma separated (default: recommended)")
	cmd.Flags().BoolVar(&protectAll, "protect", false, "protect every step")
	cmd.Flags().BoolSliceVar(&protectSteps, "protect-steps", nil, "protection per step, comma separated")
	cmd.Flags().BoolVar(&premium, "premium", false, "use premium protection stones")
	cmd.Flags().BoolVar(&repair, "repair", false, "charge durability repair")
	cmd.Flags().BoolVar(&efficient, "efficient-repair", false, "repair with the bundled consumable rate")
	cmd.Flags().BoolVar(&buildFS, "build-fs", false, "charge building each step's failstack")
	cmd.Flags().Float64Var(&damping, "damping", 0, "recovery damping in (0, 1] (default 0.5)")
	return cmd
}

func (a *app) printCascade(res cascade.Result) error {
	w := a.table()
	fprintf(w, "STEP\tFS\tCHANCE\tATTEMPTS\tPROTECTED\tSTEP COST\tRUNNING\n")
	for _, s := range res.Steps {
		prot := strconv.FormatBool(s.Protected)
		if s.ImplicitProtection {
			prot += " (implicit)"
		}
		fprintf(w, "%s -> %s\t%d\t%s\t%.2f\t%s\t%s\t%s\n",
			s.From, s.To, s.Failstack, pct(s.Chance), s.Attempts, prot, silver(s.StepTotal), silver(s.RunningTotal))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	t := res.Totals
	fprintf(a.stdout, "\nmaterials %s  protection %s  repair %s  failstack %s  recovery %s\n",
		silver(t.Materials), silver(t.Protection), silver(t.Repair), silver(t.Failstack), silver(t.Recovery))
	fprintf(a.stdout, "total %s silver over %.1f attempts (%.1f direct)\n", silver(res.TotalCost), res.TotalAttempts, res.DirectAttempts)
	if res.UsedDefault {
		fprintf(a.stdout, "note: some levels have no rate data, default curve used\n")
	}
	return nil
}

func newSimulateCmd(a *app) *cobra.Command {
	var (
		attempts  int
		fs        int
		seed      uint64
		protected bool
		premium   bool
		repair    bool
		efficient bool
	)
	cmd := &cobra.Command{
		Use:   "simulate FAMILY LEVEL",
		Short: "Roll attempts at one level and log each outcome",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.backend()
			if err != nil {
				return err
			}
			req := cascade.SimRequest{
				Family:          args[0],
				Level:           catalog.Level(args[1]),
				Attempts:        attempts,
				Region:          catalog.Region(a.region),
				Protected:       protected,
				ProtectionKind:  protectionKind(premium),
				IncludeRepair:   repair,
				EfficientRepair: efficient,
			}
			if cmd.Flags().Changed("fs") {
				req.StartingFS = &fs
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}
			out, err := b.Simulate(cmd.Context(), req)
			if err != nil {
				return err
			}
			if a.output == "json" {
				return a.writeJSON(out)
			}
			return a.printSimulation(out)
		},
	}
	cmd.Flags().IntVarP(&attempts, "attempts", "n", 10, fmt.Sprintf("attempts to roll (1..%d)", enhance.MaxSimAttempts))
	cmd.Flags().IntVar(&fs, "fs", 0, "starting failstack (default: recommended)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for a reproducible run")
	cmd.Flags().BoolVar(&protected, "protect", false, "use protection stones")
	cmd.Flags().BoolVar(&premium, "premium", false, "use premium protection stones")
	cmd.Flags().BoolVar(&repair, "repair", false, "charge durability repair")
	cmd.Flags().BoolVar(&efficient, "efficient-repair", false, "repair with the bundled consumable rate")
	return cmd
}

func (a *app) printSimulation(out enhance.SimulationLog) error {
	w := a.table()
	fprintf(w, "#\tFS\tCHANCE\tOUTCOME\tCOST\n")
	for _, r := range out.Log {
		outcome := string(r.Outcome)
		if r.Downgraded {
			outcome += " (downgraded)"
		}
		fprintf(w, "%d\t%d\t%s\t%s\t%s\n", r.Attempt, r.Failstack, pct(r.Chance), outcome, silver(r.Cost))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fprintf(a.stdout, "\n%d successes, %d failures, %d downgrades, final failstack %d\n",
		out.Successes, out.Failures, out.Downgrades, out.FinalFS)
	fprintf(a.stdout, "total %s silver\n", silver(out.Costs.Total))
	return nil
}

func newFailstackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "failstack TARGET",
		Short: "Price building a fresh failstack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid target %q", args[0])
			}
			b, err := a.backend()
			if err != nil {
				return err
			}
			plan, err := b.FailstackCost(cmd.Context(), catalog.Region(a.region), target)
			if err != nil {
				return err
			}
			if a.output == "json" {
				return a.writeJSON(plan)
			}
			return a.printFailstack(plan)
		},
	}
}

func (a *app) printFailstack(plan pricing.FailstackPlan) error {
	w := a.table()
	fprintf(w, "SOURCE\tITEM\tQTY\tUNIT\tFS\tSUBTOTAL\n")
	for _, l := range plan.Lines {
		fprintf(w, "%s\t%s\t%d\t%s\t%d -> %d\t%s\n",
			l.Source, l.Name, l.Quantity, silver(float64(l.UnitPrice)), l.FromFS, l.ToFS, silver(l.Subtotal))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fprintf(a.stdout, "\nfailstack %d (requested %d): %s silver\n", plan.Reached, plan.Target, silver(plan.Total))
	return nil
}

var _ backend = localBackend{}
