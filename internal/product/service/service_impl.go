package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/internal/clock"
	"github.com/smallbiznis/gstbilling/internal/config"
	"github.com/smallbiznis/gstbilling/internal/product/domain"
	"github.com/smallbiznis/gstbilling/internal/providers/spreadsheet"
	"github.com/smallbiznis/gstbilling/pkg/db"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultUOM = "pcs"

var hundred = decimal.NewFromInt(100)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Config      config.Config
	Repo        domain.Repository
	Spreadsheet spreadsheet.Provider
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	repo        domain.Repository
	genID       *snowflake.Node
	clock       clock.Clock
	defaultGST  decimal.Decimal
	spreadsheet spreadsheet.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("product.service"),
		repo:        p.Repo,
		genID:       p.GenID,
		clock:       p.Clock,
		defaultGST:  p.Config.Invoice.DefaultGSTPercent,
		spreadsheet: p.Spreadsheet,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	items, err := s.repo.List(ctx, s.db, domain.ListRequest{Search: strings.TrimSpace(req.Search)}, page)
	if err != nil {
		return nil, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, page.Size(), func(p *domain.Product) pagination.Cursor {
		return pagination.Cursor{ID: strconv.FormatInt(p.ID, 10), Key: p.Name}
	})

	resp := &domain.ListResponse{PageInfo: pageInfo, Products: make([]domain.Response, 0, len(items))}
	for _, item := range items {
		resp.Products = append(resp.Products, s.toResponse(item))
	}

	return resp, nil
}

// Upsert matches products by name, case-insensitively. An existing product
// keeps its ID and creation time.
func (s *Service) Upsert(ctx context.Context, req domain.UpsertRequest) (*domain.Response, error) {
	return s.upsert(ctx, req, true)
}

func (s *Service) upsert(ctx context.Context, req domain.UpsertRequest, retry bool) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	if req.DefaultRate.IsNegative() {
		return nil, domain.ErrInvalidRate
	}

	gst := s.defaultGST
	if req.GSTPercent != nil {
		gst = *req.GSTPercent
	}
	if gst.IsNegative() || gst.GreaterThan(hundred) {
		return nil, domain.ErrInvalidGSTPercent
	}

	uom := strings.TrimSpace(req.UOM)
	if uom == "" {
		uom = defaultUOM
	}

	description := strings.TrimSpace(ptrToString(req.Description))
	var descriptionPtr *string
	if description != "" {
		descriptionPtr = &description
	}

	now := s.clock.Now()
	var saved *domain.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByName(ctx, tx, name)
		if err != nil {
			return err
		}

		if existing == nil {
			p := &domain.Product{
				ID:        s.genID.Generate().Int64(),
				CreatedAt: now,
			}
			fill(p, name, descriptionPtr, req.HSN, uom, req.DefaultRate, gst, now)
			if err := s.repo.Create(ctx, tx, p); err != nil {
				return err
			}
			saved = p
			return nil
		}

		fill(existing, name, descriptionPtr, req.HSN, uom, req.DefaultRate, gst, now)
		if err := s.repo.Update(ctx, tx, existing); err != nil {
			return err
		}
		saved = existing
		return nil
	})
	if err != nil {
		if retry && db.IsDuplicateKeyErr(err) {
			// A concurrent upsert inserted the same name first; apply ours as an update.
			return s.upsert(ctx, req, false)
		}
		return nil, err
	}

	s.log.Debug("product upserted", zap.Int64("product_id", saved.ID), zap.String("name", saved.Name))
	resp := s.toResponse(saved)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	productID, err := parseID(id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, s.db, productID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) ExportSpreadsheet(ctx context.Context) ([]byte, error) {
	table := spreadsheet.Table{
		Sheet:   "Products",
		Headers: []string{"name", "description", "hsn", "uom", "default_rate", "gst_percent"},
	}

	req := domain.ListRequest{PageSize: pagination.MaxPageSize}
	for {
		resp, err := s.List(ctx, req)
		if err != nil {
			return nil, err
		}
		for _, p := range resp.Products {
			table.Rows = append(table.Rows, []any{
				p.Name, ptrToString(p.Description), p.HSN, p.UOM,
				p.DefaultRate.StringFixed(2), p.GSTPercent.String(),
			})
		}
		if !resp.HasMore {
			break
		}
		req.PageToken = resp.NextPageToken
	}

	return s.spreadsheet.Write(table)
}

func fill(p *domain.Product, name string, description *string, hsn, uom string, rate, gst decimal.Decimal, now time.Time) {
	p.Name = name
	p.Description = description
	p.HSN = strings.TrimSpace(hsn)
	p.UOM = uom
	p.DefaultRate = rate
	p.GSTPercent = gst
	p.UpdatedAt = now
}

func (s *Service) toResponse(p *domain.Product) domain.Response {
	return domain.Response{
		ID:          snowflake.ID(p.ID).String(),
		Name:        p.Name,
		Description: p.Description,
		HSN:         p.HSN,
		UOM:         p.UOM,
		DefaultRate: p.DefaultRate,
		GSTPercent:  p.GSTPercent,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func parseID(value string) (int64, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id.Int64(), nil
}

func ptrToString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
