package service

import (
	"sync"
	"time"
)

// Monitor 运行指标统计，管理端 /api/admin/stats 直接读取
type Monitor struct {
	mu sync.RWMutex

	// 错误统计
	DBErrors int64
	MQErrors int64

	// 结算统计
	CheckoutRequests  int64
	CheckoutSuccess   int64
	CheckoutConflicts int64

	LastDBError      time.Time
	LastMQError      time.Time
	LastCheckoutTime time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor 获取全局监控实例
func GetMonitor() *Monitor {
	return globalMonitor
}

// RecordDBError 记录数据库错误
func (m *Monitor) RecordDBError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DBErrors++
	m.LastDBError = time.Now()
}

// RecordMQError 记录 MQ 错误
func (m *Monitor) RecordMQError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MQErrors++
	m.LastMQError = time.Now()
}

// RecordCheckoutRequest 记录结算请求
func (m *Monitor) RecordCheckoutRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckoutRequests++
	m.LastCheckoutTime = time.Now()
}

// RecordCheckoutSuccess 记录结算成功
func (m *Monitor) RecordCheckoutSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckoutSuccess++
}

// RecordCheckoutConflict 记录库存冲突导致的结算失败
func (m *Monitor) RecordCheckoutConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckoutConflicts++
}

// Snapshot 只读快照
type MonitorSnapshot struct {
	DBErrors          int64     `json:"db_errors"`
	MQErrors          int64     `json:"mq_errors"`
	CheckoutRequests  int64     `json:"checkout_requests"`
	CheckoutSuccess   int64     `json:"checkout_success"`
	CheckoutConflicts int64     `json:"checkout_conflicts"`
	LastCheckoutTime  time.Time `json:"last_checkout_time"`
}

// Snapshot 导出当前计数
func (m *Monitor) Snapshot() MonitorSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MonitorSnapshot{
		DBErrors:          m.DBErrors,
		MQErrors:          m.MQErrors,
		CheckoutRequests:  m.CheckoutRequests,
		CheckoutSuccess:   m.CheckoutSuccess,
		CheckoutConflicts: m.CheckoutConflicts,
		LastCheckoutTime:  m.LastCheckoutTime,
	}
}
