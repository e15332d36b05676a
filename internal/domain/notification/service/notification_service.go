package service

import (
	"context"
	"course_mall/internal/domain/notification/model"
	"course_mall/internal/domain/notification/repository"
	"course_mall/pkg/bizerr"
	"course_mall/pkg/response"
)

const studentNotificationLimit = 50

type NotificationService interface {
	ListTeacherUnseen(ctx context.Context, teacherID string) ([]model.Notification, error)
	MarkSeen(ctx context.Context, teacherID, id string) error
	ListStudent(ctx context.Context, userID string) ([]model.Notification, error)
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) ListTeacherUnseen(ctx context.Context, teacherID string) ([]model.Notification, error) {
	return s.repo.ListUnseenByTeacher(ctx, teacherID)
}

func (s *notificationService) MarkSeen(ctx context.Context, teacherID, id string) error {
	n, err := s.repo.MarkSeen(ctx, teacherID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return bizerr.NotFound(response.ErrNotificationNotFound, "notification not found")
	}
	return nil
}

func (s *notificationService) ListStudent(ctx context.Context, userID string) ([]model.Notification, error) {
	return s.repo.ListByUser(ctx, userID, studentNotificationLimit)
}
