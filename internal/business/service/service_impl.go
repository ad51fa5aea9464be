package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gstbilling/internal/business/domain"
	"github.com/smallbiznis/gstbilling/internal/clock"
	"github.com/smallbiznis/gstbilling/internal/providers/spreadsheet"
	"github.com/smallbiznis/gstbilling/internal/reference"
	refdomain "github.com/smallbiznis/gstbilling/internal/reference/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const sheetName = "Business"

var sheetHeaders = []string{
	"legal_name", "nickname", "gstin", "pan", "state_code", "state",
	"phone_1", "phone_2", "email_1", "email_2", "address_1", "address_2", "others",
}

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
		log:         p.Log.Named("business.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		reference:   p.Reference,
		spreadsheet: p.Spreadsheet,
	}
}

func (s *Service) Upsert(ctx context.Context, req domain.UpsertBusinessRequest) (domain.Business, error) {
	req, err := s.normalize(req)
	if err != nil {
		return domain.Business{}, err
	}

	var result domain.Business
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTrx(tx)

		existing, err := repo.FindOne(ctx, &domain.Business{})
		if err != nil {
			return err
		}

		now := s.clock.Now()
		if existing == nil {
			business := domain.Business{ID: s.genID.Generate(), CreatedAt: now}
			apply(&business, req, now)
			if err := repo.Create(ctx, &business); err != nil {
				return err
			}
			result = business
			return nil
		}

		apply(existing, req, now)
		if err := repo.Save(ctx, existing); err != nil {
			return err
		}
		result = *existing
		return nil
	})
	if err != nil {
		return domain.Business{}, err
	}

	s.log.Info("business profile saved",
		zap.String("business_id", result.ID.String()),
		zap.String("state_code", result.StateCode),
	)
	return result, nil
}

func (s *Service) Get(ctx context.Context) (domain.Business, error) {
	item, err := s.repo.FindOne(ctx, &domain.Business{})
	if err != nil {
		return domain.Business{}, err
	}
	if item == nil {
		return domain.Business{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) ExportSpreadsheet(ctx context.Context) ([]byte, error) {
	b, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	return s.spreadsheet.Write(spreadsheet.Table{
		Sheet:   sheetName,
		Headers: sheetHeaders,
		Rows: [][]any{{
			b.LegalName, b.Nickname, b.GSTIN, b.PAN, b.StateCode, b.State,
			b.Phone1, b.Phone2, b.Email1, b.Email2, b.Address1, b.Address2, b.Others,
		}},
	})
}

// ImportSpreadsheet upserts the profile from the first data row of an
// exported business sheet.
func (s *Service) ImportSpreadsheet(ctx context.Context, r io.Reader) (domain.Business, error) {
	records, err := s.spreadsheet.ReadRecords(r, sheetName)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrEmptyWorkbook) || errors.Is(err, spreadsheet.ErrSheetNotFound) {
			return domain.Business{}, domain.ErrInvalidImport
		}
		return domain.Business{}, err
	}

	rec := records[0]
	return s.Upsert(ctx, domain.UpsertBusinessRequest{
		LegalName: rec["legal_name"],
		Nickname:  rec["nickname"],
		GSTIN:     rec["gstin"],
		PAN:       rec["pan"],
		StateCode: rec["state_code"],
		State:     rec["state"],
		Phone1:    rec["phone_1"],
		Phone2:    rec["phone_2"],
		Email1:    rec["email_1"],
		Email2:    rec["email_2"],
		Address1:  rec["address_1"],
		Address2:  rec["address_2"],
		Others:    rec["others"],
	})
}

func (s *Service) normalize(req domain.UpsertBusinessRequest) (domain.UpsertBusinessRequest, error) {
	req.LegalName = strings.TrimSpace(req.LegalName)
	if req.LegalName == "" {
		return req, domain.ErrInvalidLegalName
	}

	req.Nickname = strings.TrimSpace(req.Nickname)
	req.GSTIN = reference.NormalizeGSTIN(req.GSTIN)
	if req.GSTIN != "" && !reference.ValidGSTIN(req.GSTIN) {
		return req, domain.ErrInvalidGSTIN
	}
	req.PAN = strings.ToUpper(strings.TrimSpace(req.PAN))
	if req.PAN != "" && !reference.ValidPAN(req.PAN) {
		return req, domain.ErrInvalidPAN
	}

	for _, email := range []*string{&req.Email1, &req.Email2} {
		*email = strings.TrimSpace(*email)
		if *email != "" && !strings.Contains(*email, "@") {
			return req, domain.ErrInvalidEmail
		}
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
	case req.GSTIN != "":
		if state, ok := s.reference.StateFromGSTIN(req.GSTIN); ok {
			req.StateCode, req.State = state.Code, state.Name
		}
	case req.State != "":
		if state, ok := s.reference.StateByName(req.State); ok {
			req.StateCode, req.State = state.Code, state.Name
		}
	}

	req.Phone1 = strings.TrimSpace(req.Phone1)
	req.Phone2 = strings.TrimSpace(req.Phone2)
	req.Address1 = strings.TrimSpace(req.Address1)
	req.Address2 = strings.TrimSpace(req.Address2)
	req.Others = strings.TrimSpace(req.Others)
	return req, nil
}

func apply(b *domain.Business, req domain.UpsertBusinessRequest, now time.Time) {
	b.LegalName = req.LegalName
	b.Nickname = req.Nickname
	b.GSTIN = req.GSTIN
	b.PAN = req.PAN
	b.StateCode = req.StateCode
	b.State = req.State
	b.Phone1 = req.Phone1
	b.Phone2 = req.Phone2
	b.Email1 = req.Email1
	b.Email2 = req.Email2
	b.Address1 = req.Address1
	b.Address2 = req.Address2
	b.Others = req.Others
	if req.Metadata != nil {
		b.Metadata = datatypes.JSONMap(req.Metadata)
	}
	if b.Metadata == nil {
		b.Metadata = datatypes.JSONMap{}
	}
	b.UpdatedAt = now
}
