package msg

import (
	"encoding/json"
	"log"

	"padmap/pkg/ortho"
	"padmap/pkg/pipeline"
	"padmap/pkg/utils"

	"github.com/go-chi/valve"
	"github.com/nsqio/go-nsq"
)

// Worker consumes queued deploy requests and runs the deploy pipeline for
// each, one at a time. Deploys are not safe to run concurrently against the
// same checkout, so MaxInFlight stays at 1.
type Worker struct {
	valve    *valve.Valve
	deployer *pipeline.Deployer
	lookup   string
}

// NewWorker constructs a Worker around an existing Deployer.
func NewWorker(v *valve.Valve, d *pipeline.Deployer, lookup string) *Worker {
	return &Worker{
		valve:    v,
		deployer: d,
		lookup:   lookup,
	}
}

// Start begins consuming the deploy topic in the background.
func (w *Worker) Start() {
	log.Println("[worker] starting consumer on", DeployTopic)
	go utils.StartConsumer(w.valve.Context(), DeployTopic, "deploy", w.lookup, 1, w)
}

// HandleMessage runs one queued deploy. Malformed payloads are discarded.
// A failed deploy is logged and also FINished: there is no automatic retry,
// the operator resolves the failure and re-queues manually.
func (w *Worker) HandleMessage(m *nsq.Message) error {
	if len(m.Body) == 0 {
		return nil
	}

	if err := w.valve.Open(); err != nil {
		log.Println("[worker] failed to open valve: ", err)
		return err
	}
	defer w.valve.Close()

	req := &ortho.DeployRequest{}
	if err := json.Unmarshal(m.Body, req); err != nil {
		log.Println("[worker] failed to unmarshal request: ", err)
		return nil
	}

	if err := req.Validate(); err != nil {
		log.Println("[worker] rejecting queued request: ", err)
		return nil
	}

	log.Println("[worker] deploying", req.Layer())
	if _, err := w.deployer.Run(req); err != nil {
		log.Println("[worker] deploy failed: ", err)
		return nil
	}

	return nil
}
