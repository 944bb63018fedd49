// Package grpcapi exposes the calculator over gRPC. Messages are
// google.protobuf.Struct values carrying the same JSON documents as the
// HTTP API.
package grpcapi

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"

	enhancev1 "github.com/xtding233/enhance-backend/api/gen/go/enhance/v1"
	"github.com/xtding233/enhance-backend/internal/apperr"
	"github.com/xtding233/enhance-backend/internal/cascade"
	"github.com/xtding233/enhance-backend/internal/catalog"
)

// ServiceName is the fully qualified gRPC service name.
var ServiceName = enhancev1.Calculator_ServiceDesc.ServiceName

// FailstackRequest is the FailstackCost message.
type FailstackRequest struct {
	Region catalog.Region `json:"region,omitempty"`
	Target int            `json:"target"`
}

type calculatorService struct {
	enhancev1.UnimplementedCalculatorServer
	calc *cascade.Calculator
	log  *zap.Logger
}

func (s *calculatorService) Cascade(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req cascade.Request
	if err := fromStruct(in, &req); err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidArgument, "malformed cascade request", err)
	}
	res, err := s.calc.Compute(ctx, req)
	if err != nil {
		return nil, err
	}
	return toStruct(res)
}

func (s *calculatorService) Simulate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req cascade.SimRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidArgument, "malformed simulate request", err)
	}
	out, err := s.calc.Simulate(ctx, req)
	if err != nil {
		return nil, err
	}
	return toStruct(out)
}

func (s *calculatorService) FailstackCost(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req FailstackRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidArgument, "malformed failstack request", err)
	}
	plan, err := s.calc.FailstackCost(ctx, req.Region, req.Target)
	if err != nil {
		return nil, err
	}
	return toStruct(plan)
}
