package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gstbilling/internal/clock"
	"github.com/smallbiznis/gstbilling/internal/customer/domain"
	"github.com/smallbiznis/gstbilling/internal/providers/spreadsheet"
	"github.com/smallbiznis/gstbilling/internal/reference"
	refdomain "github.com/smallbiznis/gstbilling/internal/reference/domain"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	Reference   refdomain.Service
	Spreadsheet spreadsheet.Provider
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	reference   refdomain.Service
	spreadsheet spreadsheet.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("customer.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		reference:   p.Reference,
		spreadsheet: p.Spreadsheet,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CustomerRequest) (domain.Customer, error) {
	req, err := s.normalize(req)
	if err != nil {
		return domain.Customer{}, err
	}

	now := s.clock.Now()
	customer := domain.Customer{
		ID:        s.genID.Generate(),
		CreatedAt: now,
	}
	apply(&customer, req)
	customer.UpdatedAt = now

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}

	s.log.Info("customer created", zap.String("customer_id", customer.ID.String()))
	return customer, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.CustomerRequest) (domain.Customer, error) {
	customerID, err := s.parseID(id)
	if err != nil {
		return domain.Customer{}, err
	}

	req, err = s.normalize(req)
	if err != nil {
		return domain.Customer{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if existing == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	apply(existing, req)
	existing.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return domain.Customer{}, err
	}

	return *existing, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	customerID, err := s.parseID(id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, s.db, customerID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}

	s.log.Info("customer deleted", zap.String("customer_id", customerID.String()))
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	items, err := s.repo.List(ctx, s.db, domain.ListCustomerFilter{
		Search: strings.TrimSpace(req.Search),
	}, page)
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, page.Size(), func(customer *domain.Customer) pagination.Cursor {
		return pagination.Cursor{ID: customer.ID.String()}
	})

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}

	return domain.ListCustomerResponse{PageInfo: pageInfo, Customers: customers}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	customerID, err := s.parseID(id)
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) ExportSpreadsheet(ctx context.Context) ([]byte, error) {
	table := spreadsheet.Table{
		Sheet: "Customers",
		Headers: []string{
			"name", "nickname", "gstin", "state_code", "state", "city",
			"phone_1", "phone_2", "email_1", "email_2", "address_1", "address_2",
		},
	}

	page := pagination.Pagination{PageSize: pagination.MaxPageSize}
	for {
		resp, err := s.List(ctx, domain.ListCustomerRequest{PageToken: page.PageToken, PageSize: page.PageSize})
		if err != nil {
			return nil, err
		}
		for _, c := range resp.Customers {
			table.Rows = append(table.Rows, []any{
				c.Name, c.Nickname, c.GSTIN, c.StateCode, c.State, c.City,
				c.Phone1, c.Phone2, c.Email1, c.Email2, c.Address1, c.Address2,
			})
		}
		if !resp.HasMore {
			break
		}
		page.PageToken = resp.NextPageToken
	}

	return s.spreadsheet.Write(table)
}

func (s *Service) normalize(req domain.CustomerRequest) (domain.CustomerRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return req, domain.ErrInvalidName
	}

	for _, email := range []*string{&req.Email1, &req.Email2} {
		*email = strings.TrimSpace(*email)
		if *email != "" && !strings.Contains(*email, "@") {
			return req, domain.ErrInvalidEmail
		}
	}

	req.GSTIN = reference.NormalizeGSTIN(req.GSTIN)
	if req.GSTIN != "" && !reference.ValidGSTIN(req.GSTIN) {
		return req, domain.ErrInvalidGSTIN
	}

	req.StateCode = strings.TrimSpace(req.StateCode)
	req.State = strings.TrimSpace(req.State)
	switch {
	case req.StateCode != "":
		state, ok := s.reference.StateByCode(req.StateCode)
		if !ok {
			return req, domain.ErrInvalidStateCode
		}
		req.State = state.Name
	case req.State != "":
		// Free-text states are kept as entered when not in the code table.
		if state, ok := s.reference.StateByName(req.State); ok {
			req.StateCode, req.State = state.Code, state.Name
		}
	case req.GSTIN != "":
		if state, ok := s.reference.StateFromGSTIN(req.GSTIN); ok {
			req.StateCode, req.State = state.Code, state.Name
		}
	}

	return req, nil
}

func apply(c *domain.Customer, req domain.CustomerRequest) {
	c.Name = req.Name
	c.Nickname = strings.TrimSpace(req.Nickname)
	c.GSTIN = req.GSTIN
	c.StateCode = req.StateCode
	c.State = req.State
	c.City = strings.TrimSpace(req.City)
	c.Phone1 = strings.TrimSpace(req.Phone1)
	c.Phone2 = strings.TrimSpace(req.Phone2)
	c.Email1 = req.Email1
	c.Email2 = req.Email2
	c.Address1 = strings.TrimSpace(req.Address1)
	c.Address2 = strings.TrimSpace(req.Address2)
	if req.Metadata != nil {
		c.Metadata = datatypes.JSONMap(req.Metadata)
	}
	if c.Metadata == nil {
		c.Metadata = datatypes.JSONMap{}
	}
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
