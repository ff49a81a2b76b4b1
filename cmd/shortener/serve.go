package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/Totarae/tinylink/internal/auth"
	"github.com/Totarae/tinylink/internal/config"
	grpcv1 "github.com/Totarae/tinylink/internal/grpc/v1"
	"github.com/Totarae/tinylink/internal/handlers"
	"github.com/Totarae/tinylink/internal/router"
	"github.com/Totarae/tinylink/internal/session"
)

const shutdownTimeout = 10 * time.Second

// serve запускает HTTP- и gRPC-серверы и очистку сессий, пока не отменён ctx.
func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting server", cfg.Fields()...)

	c := newComponents(cfg, logger)
	sessions := session.NewRegistry(c.newForm, cfg.SessionIdleTTL, logger)
	h := handlers.NewHandler(auth.New(cfg.SessionSecret), sessions, logger)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router.NewRouter(h, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	ln, err := net.Listen("tcp", cfg.ServerAddress)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.ServerAddress, err)
	}

	var (
		grpcSrv *grpc.Server
		grpcLn  net.Listener
	)
	if cfg.GRPCAddress != "" {
		grpcLn, err = net.Listen("tcp", cfg.GRPCAddress)
		if err != nil {
			ln.Close()
			return fmt.Errorf("listen %s: %w", cfg.GRPCAddress, err)
		}
		grpcSrv = grpcv1.NewServer(grpcv1.NewGRPCServer(c.validator, c.client), logger)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sessions.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("address", ln.Addr().String()), zap.Bool("https", cfg.EnableHTTPS))
		var err error
		if cfg.EnableHTTPS {
			err = srv.ServeTLS(ln, cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			err = srv.Serve(ln)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if grpcSrv != nil {
		g.Go(func() error {
			logger.Info("gRPC server listening", zap.String("address", grpcLn.Addr().String()))
			if err := grpcSrv.Serve(grpcLn); !errors.Is(err, grpc.ErrServerStopped) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("Shutting down gRPC server")
			grpcSrv.GracefulStop()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}
