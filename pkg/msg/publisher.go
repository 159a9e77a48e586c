// Package msg carries deploy requests over NSQ so captures dropped off in
// bulk can be queued from the field and worked through by a single worker
// against the tile repository checkout.
package msg

import (
	"encoding/json"
	"log"

	"padmap/pkg/ortho"

	"github.com/nsqio/go-nsq"
)

// DeployTopic is the NSQ topic queued deploy requests are published on.
const DeployTopic = "deploy-request"

// Publisher sends validated deploy requests to nsqd.
type Publisher struct {
	producer *nsq.Producer
}

// NewPublisher connects a producer to the given nsqd address.
func NewPublisher(nsqd string) (*Publisher, error) {
	config := nsq.NewConfig()
	p, err := nsq.NewProducer(nsqd, config)
	if err != nil {
		log.Println("[publisher] could not connect to nsqd: ", err)
		return nil, err
	}

	return &Publisher{producer: p}, nil
}

// Send publishes one request. The worker validates again on receipt, since
// the topic accepts messages from any producer.
func (p *Publisher) Send(req *ortho.DeployRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		log.Println("[publisher] failed to marshal request: ", err)
		return err
	}

	return p.producer.Publish(DeployTopic, body)
}

// Shutdown stops the producer.
func (p *Publisher) Shutdown() {
	p.producer.Stop()
}
