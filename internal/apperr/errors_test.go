package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("compute: %w", WithMetadata(CodeInvalidLadder, "II -> I is not upward", map[string]string{"from": "II", "to": "I"}))
	assert.True(t, errors.Is(err, New(CodeInvalidLadder, "")))
	assert.False(t, errors.Is(err, New(CodeInvalidArgument, "")))
	assert.Equal(t, CodeInvalidLadder, GetCode(err))
	assert.True(t, IsCode(err, CodeInvalidLadder))
	assert.Equal(t, CodeUnknown, GetCode(errors.New("plain")))
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("disk")
	err := Wrap(CodeConfigurationMissing, "load catalog", cause)
	assert.ErrorIs(t, err, cause)
}

func TestCodeMappings(t *testing.T) {
	cases := []struct {
		code Code
		grpc codes.Code
		http int
	}{
		{CodeInvalidLadder, codes.InvalidArgument, http.StatusBadRequest},
		{CodeInvalidArgument, codes.InvalidArgument, http.StatusBadRequest},
		{CodeConfigurationMissing, codes.NotFound, http.StatusNotFound},
		{CodePriceUnavailable, codes.Unavailable, http.StatusServiceUnavailable},
		{CodeUnknown, codes.Internal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.grpc, tc.code.GRPCCode(), tc.code)
		assert.Equal(t, tc.http, tc.code.HTTPStatus(), tc.code)
	}
}

func TestGRPCRoundTrip(t *testing.T) {
	orig := WithMetadata(CodeConfigurationMissing, "unknown family", map[string]string{"family": "nope"})
	gerr := ToGRPC(orig)
	st, ok := status.FromError(gerr)
	require.True(t, ok)
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Equal(t, "unknown family", st.Message())

	back := FromGRPC(gerr)
	var e *Error
	require.ErrorAs(t, back, &e)
	assert.Equal(t, CodeConfigurationMissing, e.Code)
	assert.Equal(t, "nope", e.Metadata["family"])
}

func TestToGRPCPlainError(t *testing.T) {
	assert.Nil(t, ToGRPC(nil))
	st, _ := status.FromError(ToGRPC(errors.New("boom")))
	assert.Equal(t, codes.Internal, st.Code())

	already := status.Error(codes.Canceled, "gone")
	assert.Equal(t, already, ToGRPC(already))
}
