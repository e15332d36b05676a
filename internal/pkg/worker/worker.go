package worker

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// PushTask 一条待发送的推送
type PushTask struct {
	AccountID string
	Title     string
	Body      string
	Ext       map[string]string
	Retry     int // 重试次数
}

// Sender 推送通道
type Sender interface {
	PushToAccount(accountID, title, body string, extParameters map[string]string) error
}

// WorkerPool 异步推送协程池，尽力而为，失败重试后丢弃
type WorkerPool struct {
	TaskQueue  chan PushTask
	RetryQueue chan PushTask // 重试队列
	Sender     Sender
	WorkerNum  int
	MaxRetry   int           // 最大重试次数
	RetryDelay time.Duration // 每次重试的基础延迟

	log     *zap.Logger
	wg      sync.WaitGroup
	stopped chan struct{}
	once    sync.Once
}

func NewWorkerPool(sender Sender, log *zap.Logger, workerNum int, bufferSize int) *WorkerPool {
	return &WorkerPool{
		TaskQueue:  make(chan PushTask, bufferSize),
		RetryQueue: make(chan PushTask, bufferSize/2+1),
		Sender:     sender,
		WorkerNum:  workerNum,
		MaxRetry:   3, // 最多重试3次
		RetryDelay: time.Second,
		log:        log,
		stopped:    make(chan struct{}),
	}
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	// 启动重试处理协程
	go p.retryWorker()
	p.log.Info("push worker pool started", zap.Int("workers", p.WorkerNum))
}

// Stop 停止接收新任务并等待队列中的任务处理完
func (p *WorkerPool) Stop() {
	p.once.Do(func() {
		close(p.stopped)
		close(p.TaskQueue)
	})
	p.wg.Wait()
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for task := range p.TaskQueue {
		err := p.Sender.PushToAccount(task.AccountID, task.Title, task.Body, task.Ext)
		if err == nil {
			continue
		}

		p.log.Warn("push failed",
			zap.Int("worker", id),
			zap.String("account", task.AccountID),
			zap.Int("retry", task.Retry),
			zap.Error(err))

		// 如果未达到最大重试次数，加入重试队列
		if task.Retry >= p.MaxRetry {
			p.logFailedTask(task, err)
			continue
		}
		task.Retry++
		select {
		case p.RetryQueue <- task:
		default:
			p.logFailedTask(task, err)
		}
	}
}

func (p *WorkerPool) retryWorker() {
	for {
		select {
		case <-p.stopped:
			return
		case task := <-p.RetryQueue:
			// 延迟重试，避免立即重试
			select {
			case <-time.After(time.Duration(task.Retry) * p.RetryDelay):
			case <-p.stopped:
				p.logFailedTask(task, nil)
				return
			}
			p.enqueue(task)
		}
	}
}

func (p *WorkerPool) logFailedTask(task PushTask, err error) {
	p.log.Error("push dropped",
		zap.String("account", task.AccountID),
		zap.String("title", task.Title),
		zap.Int("retry", task.Retry),
		zap.Error(err))
}

// enqueue 入队，队列已满或已停止时丢弃
func (p *WorkerPool) enqueue(task PushTask) (ok bool) {
	defer func() {
		// Stop 之后 TaskQueue 已关闭
		if recover() != nil {
			ok = false
		}
	}()

	select {
	case <-p.stopped:
		return false
	default:
	}

	select {
	case p.TaskQueue <- task:
		return true
	default:
		p.logFailedTask(task, nil)
		return false
	}
}

// AddTask 提交推送任务，不阻塞调用方
func (p *WorkerPool) AddTask(task PushTask) bool {
	return p.enqueue(task)
}
