package service

import (
	"context"
	"testing"
	"course_mall/internal/domain/cart/model"
	"course_mall/internal/domain/cart/repository"
	catalogModel "course_mall/internal/domain/catalog/model"
	catalogRepo "course_mall/internal/domain/catalog/repository"
	"course_mall/pkg/bizerr"
	"course_mall/pkg/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCart(t *testing.T) (CartService, []*catalogModel.Course) {
	db := testutil.NewSQLiteDB(t, &catalogModel.Course{}, &catalogModel.Country{}, &model.CartItem{})
	cRepo := catalogRepo.NewCatalogRepository(db)
	ctx := context.Background()

	var courses []*catalogModel.Course
	for _, title := range []string{"Go", "Rust"} {
		c := &catalogModel.Course{Title: title, TeacherID: "t1", Slug: title, Price: decimal.NewFromInt(100)}
		require.NoError(t, cRepo.CreateCourse(ctx, c))
		courses = append(courses, c)
	}
	require.NoError(t, cRepo.UpsertCountry(ctx, &catalogModel.Country{Name: "Canada", TaxRate: 13, Active: true}))
	require.NoError(t, cRepo.UpsertCountry(ctx, &catalogModel.Country{Name: "Nowhere", TaxRate: 50, Active: false}))

	return NewCartService(repository.NewCartRepository(db), cRepo, "China"), courses
}

func TestAddItem(t *testing.T) {
	svc, courses := setupCart(t)
	ctx := context.Background()

	item, created, err := svc.AddItem(ctx, AddItemInput{
		CartID: "c1", CourseID: courses[0].ID, UserID: "undefined",
		Price: decimal.NewFromInt(100), Country: "Canada",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Nil(t, item.UserID)
	assert.Equal(t, "13.00", item.TaxFee.StringFixed(2))
	assert.Equal(t, "113.00", item.Total.StringFixed(2))

	t.Run("same course updates in place", func(t *testing.T) {
		again, created, err := svc.AddItem(ctx, AddItemInput{
			CartID: "c1", CourseID: courses[0].ID, UserID: "u1",
			Price: decimal.NewFromInt(50), Country: "Canada",
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, item.ID, again.ID)
		require.NotNil(t, again.UserID)
		assert.Equal(t, "56.50", again.Total.StringFixed(2))

		n, err := svc.Count(ctx, "c1")
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("unknown or inactive country has no tax", func(t *testing.T) {
		it, _, err := svc.AddItem(ctx, AddItemInput{
			CartID: "c2", CourseID: courses[1].ID, Price: decimal.NewFromInt(40), Country: "Nowhere",
		})
		require.NoError(t, err)
		assert.True(t, it.TaxFee.IsZero())
		assert.Equal(t, "China", it.Country)
	})

	t.Run("missing course", func(t *testing.T) {
		_, _, err := svc.AddItem(ctx, AddItemInput{CartID: "c1", CourseID: "nope", Price: decimal.NewFromInt(1)})
		assert.True(t, bizerr.IsKind(err, bizerr.KindNotFound))
	})

	t.Run("negative price", func(t *testing.T) {
		_, _, err := svc.AddItem(ctx, AddItemInput{CartID: "c1", CourseID: courses[0].ID, Price: decimal.NewFromInt(-1)})
		assert.True(t, bizerr.IsKind(err, bizerr.KindValidation))
	})
}

func TestStatsAndDelete(t *testing.T) {
	svc, courses := setupCart(t)
	ctx := context.Background()

	for i, price := range []string{"19.99", "0.01"} {
		_, _, err := svc.AddItem(ctx, AddItemInput{
			CartID: "c1", CourseID: courses[i].ID, Price: decimal.RequireFromString(price), Country: "China",
		})
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "20.00", stats.Price.StringFixed(2))
	assert.True(t, stats.Tax.IsZero())
	assert.True(t, stats.Total.Equal(stats.Price))

	items, err := svc.List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Course)

	require.NoError(t, svc.DeleteItem(ctx, "c1", items[0].ID))
	err = svc.DeleteItem(ctx, "c1", items[0].ID)
	assert.True(t, bizerr.IsKind(err, bizerr.KindNotFound))

	err = svc.DeleteItem(ctx, "other-cart", items[1].ID)
	assert.True(t, bizerr.IsKind(err, bizerr.KindNotFound))

	empty, err := svc.Stats(ctx, "missing")
	require.NoError(t, err)
	assert.True(t, empty.Total.IsZero())
}
