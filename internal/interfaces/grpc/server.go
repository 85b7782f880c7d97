// Package grpc hosts the gRPC listener of the decision engine.  It serves the
// standard health service, whose status follows snapshot readiness, and
// reflection in debug mode.
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/turtacn/JurisCompare/internal/config"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// ServiceName is the health service name reported for the decision engine.
const ServiceName = "juriscompare.v1.DecisionEngine"

const (
	defaultMaxRecvMsgSize  = 4 * 1024 * 1024
	defaultMaxSendMsgSize  = 16 * 1024 * 1024
	defaultGracefulTimeout = 10 * time.Second
	defaultReadyInterval   = 5 * time.Second
)

var defaultKeepaliveParams = keepalive.ServerParameters{
	MaxConnectionIdle:     15 * time.Minute,
	MaxConnectionAge:      30 * time.Minute,
	MaxConnectionAgeGrace: 5 * time.Second,
	Time:                  5 * time.Minute,
	Timeout:               1 * time.Second,
}

var defaultKeepalivePolicy = keepalive.EnforcementPolicy{
	MinTime:             5 * time.Second,
	PermitWithoutStream: true,
}

// Option configures the Server.
type Option func(*serverOptions)

type serverOptions struct {
	logger          logging.Logger
	metrics         *prometheus.AppMetrics
	maxRecvMsgSize  int
	maxSendMsgSize  int
	gracefulTimeout time.Duration
	listener        net.Listener
}

// WithLogger sets the server logger.
func WithLogger(l logging.Logger) Option {
	return func(o *serverOptions) { o.logger = l }
}

// WithMetrics records per-method request metrics.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(o *serverOptions) { o.metrics = m }
}

// WithMaxRecvMsgSize sets the maximum receive message size in bytes.
func WithMaxRecvMsgSize(size int) Option {
	return func(o *serverOptions) {
		if size > 0 {
			o.maxRecvMsgSize = size
		}
	}
}

// WithGracefulTimeout bounds GracefulStop before a forced stop.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *serverOptions) {
		if d > 0 {
			o.gracefulTimeout = d
		}
	}
}

// WithListener serves on ln instead of binding cfg.GRPCPort.
func WithListener(ln net.Listener) Option {
	return func(o *serverOptions) { o.listener = ln }
}

// Server wraps a grpc.Server with lifecycle management and a health service.
type Server struct {
	grpcServer   *grpc.Server
	listener     net.Listener
	opts         *serverOptions
	healthServer *health.Server
	mu           sync.Mutex
	started      bool
}

// NewServer binds the listener, assembles the interceptor chain and registers
// the health service.  Reflection is registered when cfg.Mode is "debug".
func NewServer(cfg config.ServerConfig, opts ...Option) (*Server, error) {
	sopts := &serverOptions{
		maxRecvMsgSize:  defaultMaxRecvMsgSize,
		maxSendMsgSize:  defaultMaxSendMsgSize,
		gracefulTimeout: defaultGracefulTimeout,
	}
	for _, o := range opts {
		o(sopts)
	}
	if sopts.logger == nil {
		sopts.logger = logging.NewNopLogger()
	}
	if cfg.MaxBodySize > 0 && int(cfg.MaxBodySize) < sopts.maxRecvMsgSize {
		sopts.maxRecvMsgSize = int(cfg.MaxBodySize)
	}

	lis := sopts.listener
	if lis == nil {
		addr := fmt.Sprintf(":%d", cfg.GRPCPort)
		var err error
		if lis, err = net.Listen("tcp", addr); err != nil {
			return nil, errors.Wrapf(err, errors.ErrCodeServiceUnavailable, "failed to listen on %s", addr)
		}
	}

	gs := grpc.NewServer(
		grpc.MaxRecvMsgSize(sopts.maxRecvMsgSize),
		grpc.MaxSendMsgSize(sopts.maxSendMsgSize),
		grpc.KeepaliveParams(defaultKeepaliveParams),
		grpc.KeepaliveEnforcementPolicy(defaultKeepalivePolicy),
		grpc.ChainUnaryInterceptor(
			recoveryUnaryInterceptor(sopts.logger),
			loggingUnaryInterceptor(sopts.logger),
			metricsUnaryInterceptor(sopts.metrics),
			errorUnaryInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			recoveryStreamInterceptor(sopts.logger),
			metricsStreamInterceptor(sopts.metrics),
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	if cfg.Mode == "debug" {
		reflection.Register(gs)
		sopts.logger.Info("grpc reflection service registered (debug mode)")
	}

	return &Server{
		grpcServer:   gs,
		listener:     lis,
		opts:         sopts,
		healthServer: hs,
	}, nil
}

// SetReady flips the ServiceName health status.
func (s *Server) SetReady(ready bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.healthServer.SetServingStatus(ServiceName, st)
}

// TrackReadiness polls ready every interval and mirrors it into the health
// service until ctx ends.  A non-positive interval uses five seconds.
func (s *Server) TrackReadiness(ctx context.Context, ready func() bool, interval time.Duration) {
	if interval <= 0 {
		interval = defaultReadyInterval
	}
	s.SetReady(ready())
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SetReady(ready())
			}
		}
	}()
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("server already started")
	}
	s.started = true
	s.mu.Unlock()

	s.opts.logger.Info("grpc server starting", logging.String("address", s.listener.Addr().String()))
	return s.grpcServer.Serve(s.listener)
}

// Stop drains connections, forcing a stop once the graceful timeout or ctx
// expires.  Stop before Start only releases the listener.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return s.listener.Close()
	}

	s.opts.logger.Info("grpc server stopping")
	s.healthServer.Shutdown()

	gracefulCtx, cancel := context.WithTimeout(ctx, s.opts.gracefulTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		s.opts.logger.Info("grpc server stopped gracefully")
	case <-gracefulCtx.Done():
		s.opts.logger.Warn("grpc graceful stop timed out, forcing stop")
		s.grpcServer.Stop()
	}
	return nil
}

// Addr returns the listen address, useful with port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// GRPCServer returns the underlying grpc.Server for service registration.
func (s *Server) GRPCServer() *grpc.Server {
	return s.grpcServer
}

// ─────────────────────────────────────────────────────────────────────────────
// Interceptors
// ─────────────────────────────────────────────────────────────────────────────

func recoveryUnaryInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("grpc panic recovered",
					logging.String("method", info.FullMethod),
					logging.String("panic", fmt.Sprintf("%v", r)),
					logging.String("stack", string(debug.Stack())),
				)
				err = status.Errorf(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

func recoveryStreamInterceptor(logger logging.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("grpc stream panic recovered",
					logging.String("method", info.FullMethod),
					logging.String("panic", fmt.Sprintf("%v", r)),
					logging.String("stack", string(debug.Stack())),
				)
				err = status.Errorf(codes.Internal, "internal server error")
			}
		}()
		return handler(srv, ss)
	}
}

func isHealthCheck(method string) bool {
	return strings.HasPrefix(method, "/grpc.health.v1.Health/")
}

func loggingUnaryInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if isHealthCheck(info.FullMethod) {
			return handler(ctx, req)
		}
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("grpc request",
			logging.String("method", info.FullMethod),
			logging.Duration("duration", time.Since(start)),
			logging.String("code", status.Code(err).String()),
		)
		return resp, err
	}
}

func metricsUnaryInterceptor(m *prometheus.AppMetrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if m == nil {
			return handler(ctx, req)
		}
		start := time.Now()
		resp, err := handler(ctx, req)
		service, method := splitMethodName(info.FullMethod)
		prometheus.RecordGRPCRequest(m, service, method, status.Code(err).String(), time.Since(start))
		return resp, err
	}
}

func metricsStreamInterceptor(m *prometheus.AppMetrics) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if m == nil {
			return handler(srv, ss)
		}
		start := time.Now()
		err := handler(srv, ss)
		service, method := splitMethodName(info.FullMethod)
		prometheus.RecordGRPCRequest(m, service, method, status.Code(err).String(), time.Since(start))
		return err
	}
}

// errorUnaryInterceptor converts AppErrors returned by handlers into gRPC
// statuses.
func errorUnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		return resp, ToStatus(err)
	}
}

// ToStatus maps err to a gRPC status error.  Errors that already carry a
// status pass through unchanged.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	var appErr *errors.AppError
	if !errors.As(err, &appErr) {
		return status.Error(codes.Internal, "internal server error")
	}
	return status.Error(codeForHTTP(appErr.HTTPStatus()), appErr.Message)
}

func codeForHTTP(httpStatus int) codes.Code {
	switch httpStatus {
	case 400:
		return codes.InvalidArgument
	case 404:
		return codes.NotFound
	case 409:
		return codes.AlreadyExists
	case 422:
		return codes.FailedPrecondition
	case 423:
		return codes.Aborted
	case 501:
		return codes.Unimplemented
	case 503:
		return codes.Unavailable
	case 504:
		return codes.DeadlineExceeded
	default:
		return codes.Internal
	}
}

// splitMethodName splits "/package.Service/Method" into its two parts.
func splitMethodName(fullMethod string) (string, string) {
	fullMethod = strings.TrimPrefix(fullMethod, "/")
	idx := strings.LastIndex(fullMethod, "/")
	if idx < 0 {
		return "unknown", fullMethod
	}
	return fullMethod[:idx], fullMethod[idx+1:]
}

//Personal.AI order the ending
