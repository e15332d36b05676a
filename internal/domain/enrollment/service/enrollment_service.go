package service

import (
	"context"
	"errors"
	"fmt"
	catalogRepo "course_mall/internal/domain/catalog/repository"
	"course_mall/internal/domain/enrollment/model"
	"course_mall/internal/domain/enrollment/repository"
	"course_mall/pkg/bizerr"
	"course_mall/pkg/database"
	"course_mall/pkg/response"

	"gorm.io/gorm"
)

type EnrollmentService interface {
	ListStudentCourses(ctx context.Context, userID string) ([]model.Enrollment, error)
	GetStudentCourse(ctx context.Context, userID, enrollmentID string) (*model.StudentCourse, error)
	ToggleCompletedLesson(ctx context.Context, userID, courseID, itemID string) (bool, error)
	SyncCompletedLessons(ctx context.Context, userID, courseID string, itemIDs []string) (*model.SyncResult, error)
	StudentSummary(ctx context.Context, userID string) (*model.Summary, error)
}

type enrollmentService struct {
	repo    repository.EnrollmentRepository
	catalog catalogRepo.CatalogRepository
	tx      database.TxRunner
}

func NewEnrollmentService(repo repository.EnrollmentRepository, catalog catalogRepo.CatalogRepository, tx database.TxRunner) EnrollmentService {
	return &enrollmentService{repo: repo, catalog: catalog, tx: tx}
}

func (s *enrollmentService) ListStudentCourses(ctx context.Context, userID string) ([]model.Enrollment, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *enrollmentService) GetStudentCourse(ctx context.Context, userID, enrollmentID string) (*model.StudentCourse, error) {
	e, err := s.repo.GetForUser(ctx, userID, enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerr.NotFound(response.ErrEnrollmentNotFound, "enrollment not found")
		}
		return nil, err
	}
	done, err := s.repo.CompletedItemIDs(ctx, userID, e.CourseID)
	if err != nil {
		return nil, err
	}
	certified, err := s.repo.HasCertificate(ctx, userID, e.CourseID)
	if err != nil {
		return nil, err
	}
	return &model.StudentCourse{Enrollment: *e, CompletedLessonIDs: done, Certified: certified}, nil
}

// ToggleCompletedLesson 已完成则取消，否则标记完成；返回操作后的状态
func (s *enrollmentService) ToggleCompletedLesson(ctx context.Context, userID, courseID, itemID string) (bool, error) {
	lessons, err := s.courseLessons(ctx, userID, courseID)
	if err != nil {
		return false, err
	}
	if _, ok := lessons[itemID]; !ok {
		return false, bizerr.NotFound(response.ErrLessonNotFound, "lesson not found")
	}

	completed := false
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		_, err := repo.FindCompleted(ctx, userID, itemID)
		switch {
		case err == nil:
			return repo.DeleteCompleted(ctx, userID, courseID, []string{itemID})
		case errors.Is(err, gorm.ErrRecordNotFound):
			completed = true
			if err := repo.CreateCompleted(ctx, []*model.CompletedLesson{{
				CourseID: courseID, UserID: userID, VariantItemID: itemID,
			}}); err != nil {
				return err
			}
			_, err = s.certifyIfDone(ctx, repo, userID, courseID, lessons)
			return err
		default:
			return err
		}
	})
	return completed, err
}

// SyncCompletedLessons 把完成状态同步为给定集合：多余的删除，缺少的补上
func (s *enrollmentService) SyncCompletedLessons(ctx context.Context, userID, courseID string, itemIDs []string) (*model.SyncResult, error) {
	lessons, err := s.courseLessons(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	target := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		if _, ok := lessons[id]; !ok {
			return nil, bizerr.NotFound(response.ErrLessonNotFound, fmt.Sprintf("lesson %s not found", id))
		}
		target[id] = struct{}{}
	}

	result := &model.SyncResult{TotalCompleted: len(target)}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		currentIDs, err := repo.CompletedItemIDs(ctx, userID, courseID)
		if err != nil {
			return err
		}
		current := make(map[string]struct{}, len(currentIDs))
		var toDelete []string
		for _, id := range currentIDs {
			current[id] = struct{}{}
			if _, keep := target[id]; !keep {
				toDelete = append(toDelete, id)
			}
		}
		var toCreate []*model.CompletedLesson
		for id := range target {
			if _, ok := current[id]; !ok {
				toCreate = append(toCreate, &model.CompletedLesson{CourseID: courseID, UserID: userID, VariantItemID: id})
			}
		}

		if err := repo.DeleteCompleted(ctx, userID, courseID, toDelete); err != nil {
			return fmt.Errorf("delete completed lessons: %w", err)
		}
		if err := repo.CreateCompleted(ctx, toCreate); err != nil {
			return fmt.Errorf("create completed lessons: %w", err)
		}
		result.Deleted = len(toDelete)
		result.Created = len(toCreate)

		result.Certified, err = s.certifyIfDone(ctx, repo, userID, courseID, lessons)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *enrollmentService) StudentSummary(ctx context.Context, userID string) (*model.Summary, error) {
	return s.repo.Summary(ctx, userID)
}

// courseLessons 校验已选课，返回课程下全部课时
func (s *enrollmentService) courseLessons(ctx context.Context, userID, courseID string) (map[string]struct{}, error) {
	enrolled, err := s.repo.IsEnrolled(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, bizerr.NotFound(response.ErrEnrollmentNotFound, "enrollment not found")
	}
	ids, err := s.catalog.CourseLessonIDs(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lessons := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		lessons[id] = struct{}{}
	}
	return lessons, nil
}

// certifyIfDone 全部课时完成时颁发证书，已有证书不重复发
func (s *enrollmentService) certifyIfDone(ctx context.Context, repo repository.EnrollmentRepository, userID, courseID string, lessons map[string]struct{}) (bool, error) {
	if len(lessons) == 0 {
		return false, nil
	}
	done, err := repo.CompletedItemIDs(ctx, userID, courseID)
	if err != nil {
		return false, err
	}
	count := 0
	for _, id := range done {
		if _, ok := lessons[id]; ok {
			count++
		}
	}
	if count < len(lessons) {
		return false, nil
	}
	if err := repo.CreateCertificate(ctx, &model.Certificate{CourseID: courseID, UserID: userID}); err != nil {
		return false, fmt.Errorf("create certificate: %w", err)
	}
	return true, nil
}
