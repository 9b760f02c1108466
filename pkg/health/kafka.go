package health

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// KafkaChecker verifies the brokers the async webhook pipeline publishes to
// and consumes from. Registered only when webhook processing runs in kafka
// mode.
type KafkaChecker struct {
	brokers []string
}

func NewKafkaChecker(brokers []string) *KafkaChecker {
	return &KafkaChecker{brokers: brokers}
}

func (c *KafkaChecker) Name() string {
	return "kafka"
}

// Check dials the brokers in order; one reachable broker is enough.
func (c *KafkaChecker) Check(ctx context.Context) Result {
	for _, broker := range c.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			_ = conn.Close()
			return Result{Status: StatusUp}
		}
	}
	return Result{Status: StatusDown, Message: "all brokers unreachable"}
}
