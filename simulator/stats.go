// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simulator

import (
	"github.com/33cn/paraxcm/executor"
	"github.com/33cn/paraxcm/queue"
	gometrics "github.com/rcrowley/go-metrics"
)

// metric names
const (
	MetricDelivered          = "xcm.delivered"
	MetricExecutedComplete   = "xcm.executed.complete"
	MetricExecutedIncomplete = "xcm.executed.incomplete"
	MetricExecutedError      = "xcm.executed.error"
	MetricDecodeFailed       = "xcm.decode.failed"
	MetricWeightUsed         = "xcm.weight.used"
	MetricQueuePending       = "queue.pending"
)

// stats implements runtime.Observer over a go-metrics registry.
type stats struct {
	delivered  gometrics.Counter
	complete   gometrics.Counter
	incomplete gometrics.Counter
	failed     gometrics.Counter
	undecoded  gometrics.Counter
	weight     gometrics.Meter
	pending    gometrics.Gauge
}

func newStats(r gometrics.Registry) *stats {
	return &stats{
		delivered:  gometrics.GetOrRegisterCounter(MetricDelivered, r),
		complete:   gometrics.GetOrRegisterCounter(MetricExecutedComplete, r),
		incomplete: gometrics.GetOrRegisterCounter(MetricExecutedIncomplete, r),
		failed:     gometrics.GetOrRegisterCounter(MetricExecutedError, r),
		undecoded:  gometrics.GetOrRegisterCounter(MetricDecodeFailed, r),
		weight:     gometrics.GetOrRegisterMeter(MetricWeightUsed, r),
		pending:    gometrics.GetOrRegisterGauge(MetricQueuePending, r),
	}
}

func (s *stats) clear() {
	s.delivered.Clear()
	s.complete.Clear()
	s.incomplete.Clear()
	s.failed.Clear()
	s.undecoded.Clear()
	s.pending.Update(0)
}

func (s *stats) OnDelivered(queue.ChannelKey) {
	s.delivered.Inc(1)
}

func (s *stats) OnDecodeFailed(queue.ChannelKey, error) {
	s.undecoded.Inc(1)
}

func (s *stats) OnOutcome(_ queue.ChannelKey, o executor.Outcome) {
	switch o.Kind {
	case executor.Complete:
		s.complete.Inc(1)
	case executor.Incomplete:
		s.incomplete.Inc(1)
	default:
		s.failed.Inc(1)
	}
	s.weight.Mark(int64(o.Used.RefTime))
}
