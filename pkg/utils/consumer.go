package utils

import (
	"context"

	"github.com/nsqio/go-nsq"
)

// StartConsumer is a helper function that starts consuming a topic from NSQ.
// It discovers nsqd instances through the given nsqlookupd host and blocks
// until the context is done, at which point it gracefully stops the consumer.
func StartConsumer(ctx context.Context, topic, channel, lookup string, maxInFlight int, handler nsq.Handler) error {
	config := nsq.NewConfig()
	config.MaxInFlight = maxInFlight
	consumer, err := nsq.NewConsumer(topic, channel, config)
	if err != nil {
		return err
	}

	consumer.AddHandler(handler)

	if err := consumer.ConnectToNSQLookupd(lookup + ":4161"); err != nil {
		return err
	}

	<-ctx.Done()
	consumer.Stop()
	<-consumer.StopChan

	return nil
}
