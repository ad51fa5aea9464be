package domain

import "github.com/smallbiznis/gstbilling/pkg/repository"

type Repository = repository.Repository[Business]
