package business

import (
	"github.com/smallbiznis/gstbilling/internal/business/domain"
	"github.com/smallbiznis/gstbilling/internal/business/service"
	"github.com/smallbiznis/gstbilling/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("business.service",
	fx.Provide(repository.ProvideStore[domain.Business]),
	fx.Provide(service.New),
)
