package service

import (
	"github.com/revboard/revboard/internal/config"
	"github.com/revboard/revboard/internal/domain/payment"
	"github.com/revboard/revboard/internal/integration/exchangerate"
	"github.com/revboard/revboard/internal/logger"
)

// ServiceParams carries the shared dependencies injected into every service
type ServiceParams struct {
	Logger          *logger.Logger
	Config          *config.Configuration
	ProviderFactory payment.ProviderFactory
	RateProvider    exchangerate.RateProvider
}
