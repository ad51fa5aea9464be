package providers

import (
	"github.com/smallbiznis/gstbilling/internal/providers/pdf"
	"github.com/smallbiznis/gstbilling/internal/providers/spreadsheet"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	pdf.Module,
	spreadsheet.Module,
)
