package service

import (
	"context"
	"testing"
	"course_mall/internal/domain/catalog/model"
	"course_mall/internal/domain/catalog/repository"
	notificationModel "course_mall/internal/domain/notification/model"
	notificationRepo "course_mall/internal/domain/notification/repository"
	userModel "course_mall/internal/domain/user/model"
	"course_mall/pkg/bizerr"
	"course_mall/pkg/database"
	"course_mall/pkg/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestCatalog(t *testing.T) (CatalogService, *gorm.DB) {
	db := testutil.NewSQLiteDB(t,
		&userModel.Teacher{},
		&model.Category{}, &model.Course{}, &model.Variant{}, &model.VariantItem{},
		&model.Country{}, &model.Review{},
		&notificationModel.Notification{},
	)
	svc := NewCatalogService(
		repository.NewCatalogRepository(db),
		notificationRepo.NewNotificationRepository(db),
		database.NewTransactor(db),
		nil,
		zap.NewNop(),
	)
	return svc, db
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Go Basics":          "go-basics",
		"  Hello,   World!! ": "hello-world",
		"C++ & Rust":         "c-rust",
		"---":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, slugify(in), in)
	}
}

func TestCreateAndUpdateCourse(t *testing.T) {
	svc, db := newTestCatalog(t)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, "t1", CreateCourseInput{
		Basics: CourseBasics{Title: "Go Basics", Language: "English", Level: "Beginner"},
		Price:  decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, model.PlatformPublished, course.PlatformStatus)
	assert.Equal(t, model.TeacherDraft, course.TeacherStatus)
	assert.Contains(t, course.Slug, "go-basics-")

	t.Run("draft course is hidden", func(t *testing.T) {
		_, err := svc.GetCourse(ctx, course.Slug)
		assert.True(t, bizerr.IsKind(err, bizerr.KindNotFound))
	})

	t.Run("other teacher cannot update", func(t *testing.T) {
		_, err := svc.UpdateCourse(ctx, "t2", course.ID, CourseUpdateRequest{
			Pricing: &CoursePricing{Price: decimal.NewFromInt(1)},
		})
		assert.True(t, bizerr.IsKind(err, bizerr.KindNotFound))
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		_, err := svc.UpdateCourse(ctx, "t1", course.ID, CourseUpdateRequest{})
		assert.True(t, bizerr.IsKind(err, bizerr.KindValidation))
	})

	t.Run("pricing, status and curriculum in one request", func(t *testing.T) {
		updated, err := svc.UpdateCourse(ctx, "t1", course.ID, CourseUpdateRequest{
			Pricing: &CoursePricing{Price: decimal.RequireFromString("49.90")},
			Status:  &CourseStatus{TeacherStatus: model.TeacherPublished},
			Curriculum: []CurriculumVariant{{
				Title: "Intro",
				Items: []CurriculumItem{{Title: "Setup", Duration: 120}, {Title: "Hello", Preview: true}},
			}},
		})
		require.NoError(t, err)
		assert.Equal(t, "49.90", updated.Price.StringFixed(2))
		assert.True(t, updated.IsPublished())
		require.Len(t, updated.Variants, 1)
		assert.Len(t, updated.Variants[0].Items, 2)

		var notis []notificationModel.Notification
		require.NoError(t, db.Where("type = ?", notificationModel.TypeCoursePublished).Find(&notis).Error)
		assert.Len(t, notis, 1)

		got, err := svc.GetCourse(ctx, course.Slug)
		require.NoError(t, err)
		assert.Equal(t, course.ID, got.ID)
	})

	t.Run("existing variant is renamed in place", func(t *testing.T) {
		current, err := svc.GetCourse(ctx, course.Slug)
		require.NoError(t, err)
		variant := current.Variants[0]

		updated, err := svc.UpdateCourse(ctx, "t1", course.ID, CourseUpdateRequest{
			Curriculum: []CurriculumVariant{{ID: variant.ID, Title: "Getting Started"}},
		})
		require.NoError(t, err)
		require.Len(t, updated.Variants, 1)
		assert.Equal(t, "Getting Started", updated.Variants[0].Title)
		assert.Len(t, updated.Variants[0].Items, 2)
	})

	t.Run("unknown variant id", func(t *testing.T) {
		_, err := svc.UpdateCourse(ctx, "t1", course.ID, CourseUpdateRequest{
			Curriculum: []CurriculumVariant{{ID: "missing", Title: "x"}},
		})
		assert.True(t, bizerr.IsKind(err, bizerr.KindNotFound))
	})

	t.Run("search matches case-insensitively", func(t *testing.T) {
		list, err := svc.SearchCourses(ctx, "  GO ")
		require.NoError(t, err)
		assert.Len(t, list, 1)

		empty, err := svc.SearchCourses(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestCreateReview(t *testing.T) {
	svc, db := newTestCatalog(t)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, "t1", CreateCourseInput{
		Basics:  CourseBasics{Title: "Rust"},
		Price:   decimal.NewFromInt(10),
		Publish: true,
	})
	require.NoError(t, err)

	_, err = svc.CreateReview(ctx, "u1", ReviewInput{CourseID: course.ID, Rating: 6})
	assert.True(t, bizerr.IsKind(err, bizerr.KindValidation))

	review, err := svc.CreateReview(ctx, "u1", ReviewInput{CourseID: course.ID, Rating: 5, Review: "great"})
	require.NoError(t, err)
	assert.True(t, review.Active)

	_, err = svc.CreateReview(ctx, "u1", ReviewInput{CourseID: course.ID, Rating: 4})
	assert.True(t, bizerr.IsKind(err, bizerr.KindConflict))

	var noti notificationModel.Notification
	require.NoError(t, db.Where("type = ?", notificationModel.TypeNewReview).First(&noti).Error)
	require.NotNil(t, noti.TeacherID)
	assert.Equal(t, "t1", *noti.TeacherID)
	assert.Equal(t, review.ID, *noti.ReviewID)

	list, err := svc.ListReviews(ctx, course.Slug)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpsertCountry(t *testing.T) {
	svc, db := newTestCatalog(t)
	ctx := context.Background()

	_, err := svc.UpsertCountry(ctx, "Canada", 101, true)
	assert.True(t, bizerr.IsKind(err, bizerr.KindValidation))

	_, err = svc.UpsertCountry(ctx, "Canada", 5, true)
	require.NoError(t, err)
	_, err = svc.UpsertCountry(ctx, "Canada", 13, false)
	require.NoError(t, err)

	var countries []model.Country
	require.NoError(t, db.Find(&countries).Error)
	require.Len(t, countries, 1)
	assert.Equal(t, 13, countries[0].TaxRate)
	assert.False(t, countries[0].Active)
}

func TestUploadWithoutStorage(t *testing.T) {
	svc, _ := newTestCatalog(t)
	_, err := svc.UploadCourseImage(context.Background(), "t1", "c1", nil)
	assert.True(t, bizerr.IsKind(err, bizerr.KindValidation))
}
