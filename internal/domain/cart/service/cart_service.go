package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"course_mall/internal/domain/cart/model"
	"course_mall/internal/domain/cart/repository"
	catalogRepo "course_mall/internal/domain/catalog/repository"
	"course_mall/pkg/bizerr"
	"course_mall/pkg/response"
	"course_mall/pkg/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AddItemInput 加入购物车
type AddItemInput struct {
	CartID   string
	CourseID string
	UserID   string
	Price    decimal.Decimal
	Country  string
}

type CartService interface {
	AddItem(ctx context.Context, in AddItemInput) (*model.CartItem, bool, error)
	List(ctx context.Context, cartID string) ([]model.CartItem, error)
	Count(ctx context.Context, cartID string) (int64, error)
	DeleteItem(ctx context.Context, cartID, itemID string) error
	Stats(ctx context.Context, cartID string) (*model.Stats, error)
}

type cartService struct {
	repo           repository.CartRepository
	catalog        catalogRepo.CatalogRepository
	defaultCountry string
}

func NewCartService(repo repository.CartRepository, catalog catalogRepo.CatalogRepository, defaultCountry string) CartService {
	return &cartService{repo: repo, catalog: catalog, defaultCountry: defaultCountry}
}

// AddItem 按 (cart_id, course) 新增或覆盖，返回值 created 区分两种情况
func (s *cartService) AddItem(ctx context.Context, in AddItemInput) (*model.CartItem, bool, error) {
	if in.Price.IsNegative() {
		return nil, false, bizerr.Validation(response.ErrInvalidParam, "price must not be negative")
	}

	course, err := s.catalog.GetByID(ctx, in.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, bizerr.NotFound(response.ErrCourseNotFound, "course not found")
		}
		return nil, false, err
	}

	country, rate, err := s.taxRate(ctx, in.Country)
	if err != nil {
		return nil, false, err
	}

	item, err := s.repo.FindItem(ctx, in.CartID, course.ID)
	created := false
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = &model.CartItem{CartID: in.CartID, CourseID: course.ID}
		created = true
	case err != nil:
		return nil, false, err
	}

	item.UserID = utils.OptionalID(in.UserID)
	item.Price = in.Price
	item.TaxFee = utils.TaxFee(in.Price, rate)
	item.Total = item.Price.Add(item.TaxFee)
	item.Country = country

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, false, fmt.Errorf("save cart item: %w", err)
	}
	return item, created, nil
}

// taxRate 未知国家税率为 0，国家名回落到默认国家
func (s *cartService) taxRate(ctx context.Context, name string) (string, int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultCountry
	}
	country, err := s.catalog.GetActiveCountry(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.defaultCountry, 0, nil
		}
		return "", 0, err
	}
	return country.Name, country.TaxRate, nil
}

func (s *cartService) List(ctx context.Context, cartID string) ([]model.CartItem, error) {
	return s.repo.ListByCart(ctx, cartID)
}

func (s *cartService) Count(ctx context.Context, cartID string) (int64, error) {
	return s.repo.CountByCart(ctx, cartID)
}

func (s *cartService) DeleteItem(ctx context.Context, cartID, itemID string) error {
	n, err := s.repo.DeleteItem(ctx, cartID, itemID)
	if err != nil {
		return err
	}
	if n == 0 {
		return bizerr.NotFound(response.ErrCartItemNotFound, "cart item not found")
	}
	return nil
}

func (s *cartService) Stats(ctx context.Context, cartID string) (*model.Stats, error) {
	items, err := s.repo.ListByCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	stats := &model.Stats{Price: decimal.Zero, Tax: decimal.Zero, Total: decimal.Zero}
	for _, item := range items {
		stats.Price = stats.Price.Add(item.Price)
		stats.Tax = stats.Tax.Add(item.TaxFee)
		stats.Total = stats.Total.Add(item.Total)
	}
	return stats, nil
}
