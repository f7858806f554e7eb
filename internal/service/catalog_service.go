package service

import (
	"context"
	"fmt"
	"time"

	"servizo-backend/internal/models"
	"servizo-backend/internal/repository"
)

type CatalogService struct {
	services *repository.ServiceRepository
	users    *repository.UserRepository
}

func NewCatalogService(services *repository.ServiceRepository, users *repository.UserRepository) *CatalogService {
	return &CatalogService{services: services, users: users}
}

type CreateServiceData struct {
	Title       string
	Description string
	Category    string
	Subcategory string
	Price       float64
	PriceType   string
	Duration    int
	City        string
	Tags        []string
}

// Create da de alta un servicio para un proveedor.
func (s *CatalogService) Create(ctx context.Context, providerID int, data CreateServiceData) (*models.ServiceDoc, error) {
	provider, err := s.users.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if provider == nil || provider.Role != models.RoleProvider {
		return nil, fmt.Errorf("only providers can create services")
	}

	if data.Title == "" || data.Description == "" {
		return nil, fmt.Errorf("title and description are required")
	}
	if !models.IsValidCategory(data.Category) {
		return nil, fmt.Errorf("invalid category %q", data.Category)
	}
	if data.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}

	nextID, err := s.services.GetNextServiceID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	doc := &models.ServiceDoc{
		ServiceID:   nextID,
		Title:       data.Title,
		Description: data.Description,
		Category:    data.Category,
		Subcategory: data.Subcategory,
		Price:       data.Price,
		PriceType:   data.PriceType,
		Duration:    data.Duration,
		ProviderID:  providerID,
		City:        data.City,
		IsActive:    true,
		Tags:        data.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.services.Insert(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

type UpdateServiceData struct {
	Title       *string
	Description *string
	Category    *string
	Price       *float64
	Duration    *int
	City        *string
	IsActive    *bool
	Tags        *[]string
}

// Update modifica un servicio existente. Solo el proveedor dueño puede
// tocarlo.
func (s *CatalogService) Update(ctx context.Context, providerID, serviceID int, data UpdateServiceData) (*models.ServiceDoc, error) {
	doc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("service %d not found", serviceID)
	}
	if doc.ProviderID != providerID {
		return nil, fmt.Errorf("service %d does not belong to provider %d", serviceID, providerID)
	}

	if data.Title != nil {
		doc.Title = *data.Title
	}
	if data.Description != nil {
		doc.Description = *data.Description
	}
	if data.Category != nil {
		if !models.IsValidCategory(*data.Category) {
			return nil, fmt.Errorf("invalid category %q", *data.Category)
		}
		doc.Category = *data.Category
	}
	if data.Price != nil {
		if *data.Price < 0 {
			return nil, fmt.Errorf("price cannot be negative")
		}
		doc.Price = *data.Price
	}
	if data.Duration != nil {
		doc.Duration = *data.Duration
	}
	if data.City != nil {
		doc.City = *data.City
	}
	if data.IsActive != nil {
		doc.IsActive = *data.IsActive
	}
	if data.Tags != nil {
		doc.Tags = *data.Tags
	}

	doc.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	// el join de proveedor no se persiste
	doc.Provider = nil

	if err := s.services.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *CatalogService) GetByID(ctx context.Context, serviceID int) (*models.ServiceDoc, error) {
	return s.services.GetByID(ctx, serviceID)
}

func (s *CatalogService) Search(ctx context.Context, q, category, city string, minPrice, maxPrice float64, limit, offset int) ([]models.ServiceDoc, error) {
	if category != "" && !models.IsValidCategory(category) {
		return nil, fmt.Errorf("invalid category %q", category)
	}
	return s.services.Search(ctx, q, category, city, minPrice, maxPrice, limit, offset)
}

func (s *CatalogService) Top(ctx context.Context, metric string, limit int) ([]models.ServiceDoc, error) {
	return s.services.Top(ctx, metric, limit)
}

func (s *CatalogService) ListByProvider(ctx context.Context, providerID int) ([]models.ServiceDoc, error) {
	return s.services.ListByProvider(ctx, providerID)
}
