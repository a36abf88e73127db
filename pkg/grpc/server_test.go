package grpc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

func TestHealthReflectsChecker(t *testing.T) {
	var fail error
	h := NewHealth(func(context.Context) error { return fail })

	resp, err := h.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())

	fail = errors.New("database is down")
	resp, err = h.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "catalogue"})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestHealthUnknownService(t *testing.T) {
	_, err := NewHealth(nil).Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "billing"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
