/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package router

import (
	"context"
	"net"
	"net/http"
	"time"

	"cropadvisor/common/config"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Server runs an http.Server until its context is cancelled, then drains
// in-flight requests for at most the configured shutdown timeout.
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	lc              logger.LoggingClient
}

func NewServer(handler http.Handler, cfg *config.CropAdvisorConfig, lc logger.LoggingClient) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.ListenAddress(),
			Handler:           handler,
			ReadTimeout:       cfg.Service.ReadTimeoutDuration(),
			ReadHeaderTimeout: cfg.Service.ReadTimeoutDuration(),
			WriteTimeout:      cfg.Service.WriteTimeoutDuration(),
		},
		shutdownTimeout: cfg.Service.ShutdownTimeoutDuration(),
		lc:              lc,
	}
}

func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.srv.Addr)
	}
	return s.Serve(ctx, listener)
}

// Serve takes ownership of listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.lc.Infof("%s listening on %s", ServiceName, listener.Addr().String())
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server stopped")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.lc.Infof("Shutting down %s", ServiceName)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "graceful shutdown failed")
		}
		return nil
	})

	return g.Wait()
}
