// Package grpc runs the side-channel gRPC server. It only carries the
// standard grpc.health.v1 service, reporting SERVING while the database
// answers a ping, so orchestrators can probe the catalogue without HTTP.
//
//	srv, err := grpc.Start(config.GRPCPort(), func(ctx context.Context) error {
//	    return database.Ping(ctx, db)
//	})
//	defer grpc.Stop(srv)
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/shashiranjanraj/catalogue/pkg/logger"
	"github.com/shashiranjanraj/catalogue/pkg/metrics"
)

var (
	handled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogue",
		Subsystem: "grpc",
		Name:      "handled_total",
		Help:      "gRPC calls completed by method and code.",
	}, []string{"method", "code"})

	handling = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalogue",
		Subsystem: "grpc",
		Name:      "handling_seconds",
		Help:      "gRPC call latency in seconds.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"method"})
)

func init() {
	metrics.DefaultRegistry.MustRegister(handled, handling)
}

// Checker reports whether the service can do useful work.
type Checker func(ctx context.Context) error

const checkTimeout = 2 * time.Second

// Health implements grpc.health.v1 on top of a Checker.
type Health struct {
	grpc_health_v1.UnimplementedHealthServer
	check Checker
}

func NewHealth(check Checker) *Health { return &Health{check: check} }

func (h *Health) status(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	if h.check == nil {
		return grpc_health_v1.HealthCheckResponse_SERVING
	}
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := h.check(ctx); err != nil {
		logger.WarnContext(ctx, "grpc: health check failed", "error", err)
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

// Check answers for the whole server ("") or the "catalogue" service.
func (h *Health) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	switch req.GetService() {
	case "", "catalogue":
	default:
		return nil, status.Errorf(codes.NotFound, "unknown service %q", req.GetService())
	}
	return &grpc_health_v1.HealthCheckResponse{Status: h.status(ctx)}, nil
}

// Watch sends the current status once. Streaming updates are not supported.
func (h *Health) Watch(req *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	return stream.Send(&grpc_health_v1.HealthCheckResponse{Status: h.status(stream.Context())})
}

func recoverUnary(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "grpc: panic recovered",
				"method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
			err = status.Error(codes.Internal, "internal server error")
		}
	}()
	return next(ctx, req)
}

func observeUnary(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := next(ctx, req)
	code := status.Code(err)

	handled.WithLabelValues(info.FullMethod, code.String()).Inc()
	handling.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
	logger.DebugContext(ctx, "grpc: request",
		"method", info.FullMethod, "code", code.String(), "duration", time.Since(start).String())
	return resp, err
}

// NewServer builds the server with recovery and metrics interceptors and the
// health service registered.
func NewServer(check Checker) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(recoverUnary, observeUnary),
		grpc.MaxRecvMsgSize(1<<20),
	)
	grpc_health_v1.RegisterHealthServer(srv, NewHealth(check))
	reflection.Register(srv)
	return srv
}

// Start listens on port and serves in the background.
func Start(port string, check Checker) (*grpc.Server, error) {
	addr := ":" + port
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("grpc: listen on %s: %w", addr, err)
	}

	srv := NewServer(check)
	logger.Info("gRPC server starting", "addr", addr)
	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Error("grpc: serve error", "error", err)
		}
	}()
	return srv, nil
}

// Stop waits for in-flight calls and shuts the server down.
func Stop(srv *grpc.Server) {
	if srv == nil {
		return
	}
	logger.Info("gRPC server shutting down")
	srv.GracefulStop()
}
