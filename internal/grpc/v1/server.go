// Package v1 реализует gRPC-сервис tinylink.v1.Shortener.
//
// Запрос и ответ сервиса передаются как google.protobuf.StringValue,
// описание сервиса задано вручную, без сгенерированного кода.
package v1

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Totarae/tinylink/internal/tinyurl"
)

// ServiceName задаёт полное имя gRPC-сервиса.
const ServiceName = "tinylink.v1.Shortener"

const shortenMethod = "/" + ServiceName + "/Shorten"

// Validator проверяет URL перед запросом во внешний сервис.
type Validator interface {
	IsValid(raw string) bool
}

// Shortener получает короткую ссылку.
type Shortener interface {
	Shorten(ctx context.Context, target string) (string, error)
}

// ShortenerServer реализуется сервером сервиса.
type ShortenerServer interface {
	Shorten(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

// GRPCServer сокращает ссылки без состояния сессии: каждый вызов независим.
type GRPCServer struct {
	validator Validator
	shortener Shortener
}

// NewGRPCServer создаёт реализацию сервиса.
func NewGRPCServer(v Validator, s Shortener) *GRPCServer {
	return &GRPCServer{validator: v, shortener: s}
}

// Shorten возвращает короткую ссылку для req.Value.
func (s *GRPCServer) Shorten(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	target := strings.TrimSpace(req.GetValue())
	if target == "" {
		return nil, status.Error(codes.InvalidArgument, "URL is empty")
	}
	if !s.validator.IsValid(target) {
		return nil, status.Error(codes.InvalidArgument, "invalid URL")
	}

	short, err := s.shortener.Shorten(ctx, target)
	if err != nil {
		if errors.Is(err, tinyurl.ErrShortenFailed) {
			return nil, status.Error(codes.Unavailable, err.Error())
		}
		return nil, status.Errorf(codes.Internal, "shorten: %v", err)
	}

	return wrapperspb.String(short), nil
}

// ShortenerServiceDesc описывает сервис для grpc.Server.RegisterService.
var ShortenerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ShortenerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Shorten",
			Handler:    shortenHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tinylink/v1/shortener.proto",
}

func shortenHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ShortenerServer).Shorten(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: shortenMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ShortenerServer).Shorten(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterShortenerServer регистрирует сервис на s.
func RegisterShortenerServer(s grpc.ServiceRegistrar, srv ShortenerServer) {
	s.RegisterService(&ShortenerServiceDesc, srv)
}

// Client вызывает сервис tinylink.v1.Shortener.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient создаёт клиента поверх соединения cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Shorten вызывает удалённый метод Shorten.
func (c *Client) Shorten(ctx context.Context, target string, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, shortenMethod, wrapperspb.String(target), out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

// NewServer собирает grpc.Server с сервисом сокращения, health-сервисом и журналированием вызовов.
func NewServer(srv ShortenerServer, logger *zap.Logger) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(LoggingInterceptor(logger)))
	RegisterShortenerServer(s, srv)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	return s
}

// LoggingInterceptor пишет в журнал метод, код ответа и длительность каждого вызова.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("gRPC Request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}
