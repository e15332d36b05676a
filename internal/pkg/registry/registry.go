package registry

import (
	"sort"
	"course_mall/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ModuleContext 模块初始化所需的上下文
type ModuleContext struct {
	DB       *gorm.DB
	ReportDB *sqlx.DB // 报表只读连接，可为 nil
	Redis    *redis.Client
	Router   *gin.Engine
	Logger   *zap.Logger
	Metrics  *metrics.MetricsCollector

	closers []func()
}

// OnShutdown 注册退出时的清理函数，按注册的逆序执行
func (c *ModuleContext) OnShutdown(fn func()) {
	c.closers = append(c.closers, fn)
}

// Shutdown 执行所有清理函数
func (c *ModuleContext) Shutdown() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Module 模块接口
type Module interface {
	// Name 返回模块名称
	Name() string

	// Init 初始化模块（依赖注入、路由注册等）
	Init(ctx *ModuleContext) error

	// Priority 返回初始化优先级（数字越小越先初始化）
	Priority() int
}

// moduleRegistry 全局模块注册表
var moduleRegistry = make(map[string]Module)

// Register 注册模块
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// GetModules 获取所有已注册的模块
func GetModules() map[string]Module {
	return moduleRegistry
}

// sortedModules 按优先级排序，优先级相同按名称排序保证顺序稳定
func sortedModules() []Module {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Priority() != modules[j].Priority() {
			return modules[i].Priority() < modules[j].Priority()
		}
		return modules[i].Name() < modules[j].Name()
	})
	return modules
}

// InitModules 按优先级初始化所有模块
func InitModules(ctx *ModuleContext) error {
	for _, module := range sortedModules() {
		if ctx.Logger != nil {
			ctx.Logger.Info("init module", zap.String("module", module.Name()), zap.Int("priority", module.Priority()))
		}
		if err := module.Init(ctx); err != nil {
			return err
		}
	}
	return nil
}
