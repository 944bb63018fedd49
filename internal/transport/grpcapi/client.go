package grpcapi

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	enhancev1 "github.com/xtding233/enhance-backend/api/gen/go/enhance/v1"
	"github.com/xtding233/enhance-backend/internal/apperr"
	"github.com/xtding233/enhance-backend/internal/cascade"
	"github.com/xtding233/enhance-backend/internal/catalog"
	"github.com/xtding233/enhance-backend/internal/enhance"
	"github.com/xtding233/enhance-backend/internal/pricing"
)

// Client calls a remote enhance.v1.Calculator.
type Client struct {
	conn *grpc.ClientConn
	rpc  enhancev1.CalculatorClient
}

// Dial connects to addr without TLS. Extra options are appended.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Client{conn: conn, rpc: enhancev1.NewCalculatorClient(conn)}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

type unaryCall func(context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error)

func invoke(ctx context.Context, call unaryCall, req, resp any) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out, err := call(ctx, in)
	if err != nil {
		return apperr.FromGRPC(err)
	}
	return fromStruct(out, resp)
}

func (c *Client) Cascade(ctx context.Context, req cascade.Request) (cascade.Result, error) {
	var res cascade.Result
	err := invoke(ctx, c.rpc.Cascade, req, &res)
	return res, err
}

func (c *Client) Simulate(ctx context.Context, req cascade.SimRequest) (enhance.SimulationLog, error) {
	var out enhance.SimulationLog
	err := invoke(ctx, c.rpc.Simulate, req, &out)
	return out, err
}

func (c *Client) FailstackCost(ctx context.Context, region catalog.Region, target int) (pricing.FailstackPlan, error) {
	var plan pricing.FailstackPlan
	err := invoke(ctx, c.rpc.FailstackCost, FailstackRequest{Region: region, Target: target}, &plan)
	return plan, err
}
