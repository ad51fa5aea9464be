package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gstbilling/internal/customer/domain"
	"github.com/smallbiznis/gstbilling/pkg/db/option"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, name, nickname, gstin, state_code, state, city, phone_1, phone_2,
		 email_1, email_2, address_1, address_2, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.Name,
		customer.Nickname,
		customer.GSTIN,
		customer.StateCode,
		customer.State,
		customer.City,
		customer.Phone1,
		customer.Phone2,
		customer.Email1,
		customer.Email2,
		customer.Address1,
		customer.Address2,
		customer.Metadata,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`UPDATE customers SET name = ?, nickname = ?, gstin = ?, state_code = ?, state = ?, city = ?,
		 phone_1 = ?, phone_2 = ?, email_1 = ?, email_2 = ?, address_1 = ?, address_2 = ?,
		 metadata = ?, updated_at = ?
		 WHERE id = ?`,
		customer.Name,
		customer.Nickname,
		customer.GSTIN,
		customer.StateCode,
		customer.State,
		customer.City,
		customer.Phone1,
		customer.Phone2,
		customer.Email1,
		customer.Email2,
		customer.Address1,
		customer.Address2,
		customer.Metadata,
		customer.UpdatedAt,
		customer.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM customers WHERE id = ?`, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, nickname, gstin, state_code, state, city, phone_1, phone_2,
		 email_1, email_2, address_1, address_2, metadata, created_at, updated_at
		 FROM customers WHERE id = ?`,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListCustomerFilter, page pagination.Pagination) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	stmt := db.WithContext(ctx).Model(&domain.Customer{})
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		like := "%" + search + "%"
		stmt = stmt.Where(
			"(LOWER(name) LIKE ? OR LOWER(nickname) LIKE ? OR LOWER(gstin) LIKE ? OR LOWER(city) LIKE ?)",
			like, like, like, like,
		)
	}
	stmt = option.ApplyPagination(page, "id", true).Apply(stmt)
	if err := stmt.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}
