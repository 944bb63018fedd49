package cli

import (
	"bytes"
	"encoding/json"
	"math"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xtding233/enhance-backend/internal/apperr"
	"github.com/xtding233/enhance-backend/internal/cascade"
	"github.com/xtding233/enhance-backend/internal/catalog"
	"github.com/xtding233/enhance-backend/internal/enhance"
	"github.com/xtding233/enhance-backend/internal/pricing"
	"github.com/xtding233/enhance-backend/internal/transport/grpcapi"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommandWithIO(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func TestFamiliesJSON(t *testing.T) {
	var rows []struct {
		Key    string   `json:"key"`
		Ladder []string `json:"ladder"`
	}
	if err := json.Unmarshal([]byte(mustRun(t, "families", "-o", "json")), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 families, got %d", len(rows))
	}
	if rows[0].Key != "fallen_gods_armor" {
		t.Errorf("families not sorted: first is %q", rows[0].Key)
	}
}

func TestChanceCommand(t *testing.T) {
	var q cascade.ChanceQuote
	if err := json.Unmarshal([]byte(mustRun(t, "chance", "kharazad", "BASE", "--fs", "10", "-o", "json")), &q); err != nil {
		t.Fatal(err)
	}
	if q.Chance < 32.59 || q.Chance > 32.61 {
		t.Errorf("chance = %v, want 32.6", q.Chance)
	}

	text := mustRun(t, "chance", "kharazad", "I")
	if !strings.Contains(text, "recommended 66") {
		t.Errorf("text output missing recommended failstack:\n%s", text)
	}
}

func TestAttemptsCommand(t *testing.T) {
	if got := strings.TrimSpace(mustRun(t, "attempts", "--base", "25", "--fixed")); got != "4.0000" {
		t.Errorf("attempts = %q, want 4.0000", got)
	}
	if _, err := run(t, "attempts", "--base", "0"); err == nil {
		t.Error("expected error for zero base")
	}
	if _, err := run(t, "attempts"); err == nil {
		t.Error("expected error for missing --base")
	}
}

func TestCascadeCommand(t *testing.T) {
	var res cascade.Result
	out := mustRun(t, "cascade", "kharazad", "BASE", "II", "--fs", "0,0", "-o", "json")
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(res.Steps))
	}
	if res.Steps[1].Cost.Recovery <= 0 {
		t.Error("unprotected second step should carry recovery cost")
	}

	text := mustRun(t, "cascade", "kharazad", "BASE", "II", "--protect")
	if !strings.Contains(text, "BASE -> I") || !strings.Contains(text, "total ") {
		t.Errorf("unexpected table:\n%s", text)
	}

	_, err := run(t, "cascade", "kharazad", "II", "I")
	if !apperr.IsCode(err, apperr.CodeInvalidLadder) {
		t.Errorf("expected INVALID_LADDER, got %v", err)
	}
}

func TestSimulateCommand(t *testing.T) {
	var log enhance.SimulationLog
	out := mustRun(t, "simulate", "kharazad", "BASE", "-n", "5", "--seed", "7", "-o", "json")
	if err := json.Unmarshal([]byte(out), &log); err != nil {
		t.Fatal(err)
	}
	if len(log.Log) != 5 || log.Successes+log.Failures != 5 {
		t.Errorf("unexpected log: %+v", log)
	}
	if again := mustRun(t, "simulate", "kharazad", "BASE", "-n", "5", "--seed", "7", "-o", "json"); again != out {
		t.Error("seeded runs differ")
	}
	if _, err := run(t, "simulate", "kharazad", "X"); err == nil {
		t.Error("expected error for terminal level")
	}
}

func TestFailstackCommand(t *testing.T) {
	var plan pricing.FailstackPlan
	if err := json.Unmarshal([]byte(mustRun(t, "failstack", "30", "-o", "json")), &plan); err != nil {
		t.Fatal(err)
	}
	if plan.Reached != 30 || plan.Total <= 0 {
		t.Errorf("unexpected plan: %+v", plan)
	}
	if _, err := run(t, "failstack", "abc"); err == nil {
		t.Error("expected error for non-numeric target")
	}
}

func TestPricesExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.json")
	mustRun(t, "prices", "--out", path)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]map[string]int64
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	cat, err := catalog.LoadDefault()
	if err != nil {
		t.Fatal(err)
	}
	want, _ := cat.DefaultPrice(catalog.RegionEU, 820979)
	if doc["820979"]["price"] != want {
		t.Errorf("price = %d, want %d", doc["820979"]["price"], want)
	}
}

func TestUnknownOutputFormat(t *testing.T) {
	if _, err := run(t, "families", "-o", "yaml"); err == nil {
		t.Error("expected error for unknown output format")
	}
}

func TestRemoteBackend(t *testing.T) {
	cat, err := catalog.LoadDefault()
	if err != nil {
		t.Fatal(err)
	}
	calc := cascade.NewCalculator(catalog.Static(cat), pricing.DefaultPrices{Catalog: cat}, nil)
	srv := grpcapi.NewServer(calc, nil)
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	local := mustRun(t, "cascade", "kharazad", "BASE", "III", "-o", "json")
	remote := mustRun(t, "--remote", lis.Addr().String(), "cascade", "kharazad", "BASE", "III", "-o", "json")
	var a, b cascade.Result
	if err := json.Unmarshal([]byte(local), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(remote), &b); err != nil {
		t.Fatal(err)
	}
	if len(a.Steps) != len(b.Steps) || math.Abs(a.TotalCost-b.TotalCost) > a.TotalCost*1e-9 {
		t.Errorf("remote result differs: %v vs %v", a.TotalCost, b.TotalCost)
	}

	_, err = run(t, "--remote", lis.Addr().String(), "cascade", "kharazad", "II", "I")
	if !apperr.IsCode(err, apperr.CodeInvalidLadder) {
		t.Errorf("expected INVALID_LADDER over gRPC, got %v", err)
	}
}

func TestAttemptsMonteCarlo(t *testing.T) {
	var out struct {
		Attempts  float64              `json:"attempts"`
		Simulated enhance.AttemptStats `json:"simulated"`
	}
	raw := mustRun(t, "attempts", "--base", "20", "--fixed", "--trials", "20000", "--seed", "5", "-o", "json")
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatal(err)
	}
	if out.Attempts != 5 {
		t.Errorf("attempts = %v, want 5", out.Attempts)
	}
	if math.Abs(out.Simulated.Mean-5) > 0.25 || out.Simulated.Trials != 20000 {
		t.Errorf("unexpected simulated stats: %+v", out.Simulated)
	}
}
