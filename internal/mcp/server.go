package mcp

import (
	"context"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"prefset/internal/merge"
	"prefset/internal/share"
	"prefset/internal/store"
)

type Server struct {
	db        store.Store
	codec     *share.Codec
	logger    *slog.Logger
	mergeOpts []merge.Option
	mcp       *sdk.Server
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMergeOptions sets the options every merge_sets call runs with.
func WithMergeOptions(opts ...merge.Option) Option {
	return func(s *Server) {
		s.mergeOpts = append(s.mergeOpts, opts...)
	}
}

func NewServer(db store.Store, codec *share.Codec, version string, opts ...Option) *Server {
	s := &Server{
		db:     db,
		codec:  codec,
		logger: slog.New(slog.DiscardHandler),
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "prefset",
			Version: version,
		}, nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	s.logger.Info("mcp server starting", "pack", s.codec.PackID())
	return s.mcp.Run(ctx, transport)
}
