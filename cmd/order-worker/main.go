package main

import (
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/config"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/infra/mq"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/logging"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/service"
)

const orderPaidQueue = "order_paid_queue"

// 订单事件消费端：模拟发货/通知环节。
// 库存与订单一致性在结算事务内已经完成，这里只做提交后的旁路处理。
func main() {
	logging.Init(false)

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("load config failed", zap.Error(err))
	}

	mqConn := mq.Init(&cfg.RabbitMQ)

	ch, err := mqConn.Channel()
	if err != nil {
		zap.L().Fatal("failed to open channel", zap.Error(err))
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(orderPaidQueue, true, false, false, false, nil); err != nil {
		zap.L().Fatal("failed to declare queue", zap.Error(err))
	}

	// 手动确认模式（auto-ack=false）
	msgs, err := ch.Consume(orderPaidQueue, "", false, false, false, false, nil)
	if err != nil {
		zap.L().Fatal("failed to consume", zap.Error(err))
	}

	zap.L().Info("order worker started, waiting for messages...")

	for d := range msgs {
		var m service.OrderPaidMessage
		if err := json.Unmarshal(d.Body, &m); err != nil {
			zap.L().Warn("invalid message", zap.Error(err))
			// 消息格式错误，拒绝并丢弃
			_ = d.Nack(false, false)
			continue
		}
		handleMessage(&m, d)
	}
}

func handleMessage(m *service.OrderPaidMessage, d amqp.Delivery) {
	// 模拟通知：真实系统在这里触发邮件/发货流程
	zap.L().Info("order paid notification",
		zap.Int64("order_id", m.OrderID),
		zap.Int64("user_id", m.UserID),
		zap.Int64("total_cents", m.TotalCents))

	if err := d.Ack(false); err != nil {
		zap.L().Warn("failed to ack message", zap.Error(err))
	}
}
