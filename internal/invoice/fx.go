package invoice

import (
	"github.com/smallbiznis/gstbilling/internal/invoice/domain"
	"github.com/smallbiznis/gstbilling/internal/invoice/lock"
	"github.com/smallbiznis/gstbilling/internal/invoice/render"
	"github.com/smallbiznis/gstbilling/internal/invoice/repository"
	"github.com/smallbiznis/gstbilling/internal/invoice/service"
	pkgrepository "github.com/smallbiznis/gstbilling/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	lock.Module,
	fx.Provide(repository.Provide),
	fx.Provide(pkgrepository.ProvideStore[domain.InvoiceItem]),
	fx.Provide(render.NewRenderer),
	fx.Provide(service.New),
)
