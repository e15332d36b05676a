package uploader

import (
	"strings"
	"testing"
	"time"
	"course_mall/internal/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	key := objectKey("course-images", "Cover.PNG", now)

	assert.True(t, strings.HasPrefix(key, "course-images/20260309/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
}

func TestPublicURL(t *testing.T) {
	cfg := config.OSSConfig{Endpoint: "https://oss-cn-hangzhou.aliyuncs.com", BucketName: "mall"}
	assert.Equal(t,
		"https://mall.oss-cn-hangzhou.aliyuncs.com/course-images/a.png",
		publicURL(cfg, "course-images/a.png"))
}
