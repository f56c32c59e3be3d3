package service

import (
	"context"

	"posmorales/internal/dto"
	"posmorales/internal/model"
	"posmorales/internal/upstream"
)

// CustomerBackend is the slice of the upstream client the customer views need.
type CustomerBackend interface {
	SearchCustomers(ctx context.Context, search string) ([]model.Customer, error)
	CustomerByID(ctx context.Context, id int64) (*model.Customer, error)
	CreateCustomer(ctx context.Context, req upstream.CreateCustomerRequest) (*model.Customer, error)
}

// CustomerService is a thin pass-through: the customer ledger lives upstream,
// the terminal only searches and registers.
type CustomerService interface {
	Search(ctx context.Context, search string) ([]model.Customer, error)
	CustomerByID(ctx context.Context, id int64) (*model.Customer, error)
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*model.Customer, error)
}

type customerService struct {
	backend CustomerBackend
}

func NewCustomerService(backend CustomerBackend) CustomerService {
	return &customerService{backend: backend}
}

func (s *customerService) Search(ctx context.Context, search string) ([]model.Customer, error) {
	return s.backend.SearchCustomers(ctx, search)
}

func (s *customerService) CustomerByID(ctx context.Context, id int64) (*model.Customer, error) {
	return s.backend.CustomerByID(ctx, id)
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*model.Customer, error) {
	return s.backend.CreateCustomer(ctx, upstream.CreateCustomerRequest{
		Name:           req.Name,
		DocumentNumber: req.DocumentNumber,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
	})
}
