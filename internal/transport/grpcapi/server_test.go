package grpcapi

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	enhancev1 "github.com/xtding233/enhance-backend/api/gen/go/enhance/v1"
	"github.com/xtding233/enhance-backend/internal/apperr"
	"github.com/xtding233/enhance-backend/internal/cascade"
	"github.com/xtding233/enhance-backend/internal/catalog"
	"github.com/xtding233/enhance-backend/internal/pricing"
)

func startServer(t *testing.T) *Client {
	t.Helper()
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	calc := cascade.NewCalculator(catalog.Static(cat), pricing.DefaultPrices{Catalog: cat}, nil)

	lis := bufconn.Listen(1 << 20)
	srv := NewServer(calc, nil)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	client, err := Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCascadeRoundTrip(t *testing.T) {
	client := startServer(t)
	req := cascade.Request{
		Family: "kharazad", Start: "BASE", Target: "III", Failstacks: []int{20, 40, 60},
		Options: cascade.Options{IncludeRepair: true},
	}
	res, err := client.Cascade(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Steps, 3)
	assert.Equal(t, catalog.Level("III"), res.Target)
	assert.Equal(t, 40, res.Steps[1].Failstack)

	cat, _ := catalog.LoadDefault()
	sheet, err := pricing.Collect(context.Background(), pricing.DefaultPrices{Catalog: cat}, catalog.RegionEU, cat.ItemIDs())
	require.NoError(t, err)
	local, err := cascade.Evaluate(cat, req, sheet)
	require.NoError(t, err)
	assert.InDelta(t, local.TotalCost, res.TotalCost, local.TotalCost*1e-9)
}

func TestCascadeErrorCodes(t *testing.T) {
	client := startServer(t)
	_, err := client.Cascade(context.Background(), cascade.Request{Family: "kharazad", Start: "III", Target: "I"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidLadder, apperr.GetCode(err))

	_, err = client.Cascade(context.Background(), cascade.Request{Family: "nope", Start: "BASE", Target: "I"})
	assert.Equal(t, apperr.CodeConfigurationMissing, apperr.GetCode(err))
}

func TestStatusCodeOnWire(t *testing.T) {
	client := startServer(t)
	in, err := structpb.NewStruct(map[string]any{"family": "kharazad", "start": "II", "target": "I"})
	require.NoError(t, err)
	_, err = enhancev1.NewCalculatorClient(client.conn).Cascade(context.Background(), in)
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, st.Code())
}

func TestServiceRegistered(t *testing.T) {
	srv := NewServer(nil, nil)
	info, ok := srv.server.GetServiceInfo()[ServiceName]
	require.True(t, ok)
	assert.Equal(t, "enhance/v1/calculator.proto", info.Metadata)

	var methods []string
	for _, m := range info.Methods {
		methods = append(methods, m.Name)
	}
	assert.ElementsMatch(t, []string{"Cascade", "Simulate", "FailstackCost"}, methods)
}

func TestSimulateAndFailstack(t *testing.T) {
	client := startServer(t)
	seed := uint64(5)
	log, err := client.Simulate(context.Background(), cascade.SimRequest{Family: "sovereign", Level: "I", Attempts: 25, Seed: &seed})
	require.NoError(t, err)
	assert.Len(t, log.Log, 25)
	assert.Equal(t, 25, log.Successes+log.Failures)

	plan, err := client.FailstackCost(context.Background(), catalog.RegionEU, 30)
	require.NoError(t, err)
	assert.InDelta(t, 7_500_000.0, plan.Total, 1e-6)

	_, err = client.FailstackCost(context.Background(), catalog.RegionEU, -3)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.GetCode(err))
}

func TestHealth(t *testing.T) {
	client := startServer(t)
	resp, err := grpc_health_v1.NewHealthClient(client.conn).Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
}
