package server

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"stock-checker-api/internal/config"
	"stock-checker-api/internal/handlers"
	"stock-checker-api/internal/logging"
	"stock-checker-api/internal/pricing"
)

// Container holds all application dependencies. It is built once per process
// and shared by every invocation.
type Container struct {
	Config       *config.Config
	Logger       *logrus.Logger
	PriceSource  pricing.PriceSource
	StockHandler *handlers.StockHandler
}

// NewContainer creates a container backed by the random price source
func NewContainer(cfg *config.Config) (*Container, error) {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return NewContainerWith(cfg, log, pricing.NewRandomSource())
}

// NewContainerWith creates a container from explicit dependencies
func NewContainerWith(cfg *config.Config, log *logrus.Logger, prices pricing.PriceSource) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if prices == nil {
		return nil, fmt.Errorf("price source is required")
	}

	return &Container{
		Config:       cfg,
		Logger:       log,
		PriceSource:  prices,
		StockHandler: handlers.NewStockHandler(prices, log),
	}, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	c.Logger.Debug("Container closed")
	return nil
}
