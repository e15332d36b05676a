package push

import (
	"encoding/json"
	"errors"
	"course_mall/internal/pkg/config"

	"github.com/aliyun/alibaba-cloud-sdk-go/sdk/requests"
	"github.com/aliyun/alibaba-cloud-sdk-go/services/push"
	"go.uber.org/zap"
)

// ErrPushNotConfigured 未配置推送
var ErrPushNotConfigured = errors.New("push config is missing")

// PushService 推送服务
type PushService interface {
	PushToAccount(accountID string, title, body string, extParameters map[string]string) error
}

type AliyunPushService struct {
	client *push.Client
	appKey int64
}

// NewAliyunPushService 创建阿里云移动推送客户端
func NewAliyunPushService(cfg config.PushConfig) (*AliyunPushService, error) {
	if cfg.AccessKeyID == "" || cfg.AppKey == 0 {
		return nil, ErrPushNotConfigured
	}

	client, err := push.NewClientWithAccessKey(
		cfg.RegionID,
		cfg.AccessKeyID,
		cfg.AccessKeySecret,
	)
	if err != nil {
		return nil, err
	}

	return &AliyunPushService{
		client: client,
		appKey: cfg.AppKey,
	}, nil
}

// PushToAccount 按账号推送，账号即用户ID
func (s *AliyunPushService) PushToAccount(accountID string, title, body string, extParameters map[string]string) error {
	request := buildRequest(s.appKey, accountID, title, body, extParameters)
	_, err := s.client.Push(request)
	return err
}

func buildRequest(appKey int64, accountID, title, body string, extParameters map[string]string) *push.PushRequest {
	request := push.CreatePushRequest()
	request.AppKey = requests.NewInteger(int(appKey))
	request.Target = "ACCOUNT"
	request.TargetValue = accountID
	request.Title = title
	request.Body = body
	request.DeviceType = "ALL"  // iOS & Android
	request.PushType = "NOTICE" // 通知

	// 扩展参数 (JSON 序列化)
	if len(extParameters) > 0 {
		extJSON, _ := json.Marshal(extParameters)
		request.AndroidExtParameters = string(extJSON)
		request.IOSExtParameters = string(extJSON)
	}
	return request
}

// LogPushService 未配置推送时使用，只记日志
type LogPushService struct {
	log *zap.Logger
}

func NewLogPushService(log *zap.Logger) *LogPushService {
	return &LogPushService{log: log}
}

func (s *LogPushService) PushToAccount(accountID string, title, body string, extParameters map[string]string) error {
	s.log.Info("push skipped (not configured)",
		zap.String("account", accountID),
		zap.String("title", title),
		zap.String("body", body),
		zap.Any("ext", extParameters))
	return nil
}

// New 根据配置选择推送实现
func New(cfg config.PushConfig, log *zap.Logger) PushService {
	svc, err := NewAliyunPushService(cfg)
	if err != nil {
		log.Warn("aliyun push disabled", zap.Error(err))
		return NewLogPushService(log)
	}
	return svc
}
