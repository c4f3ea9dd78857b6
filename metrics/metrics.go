// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics 把模拟网络的指标上报到外部系统
package metrics

import (
	"time"

	"github.com/33cn/paraxcm/metrics/influxdb"
	"github.com/33cn/paraxcm/types"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	gometrics "github.com/rcrowley/go-metrics"
)

var mlog = log.New("module", "metrics")

// Namespace 上报指标名前缀
var Namespace = "paraxcm."

// emit modes
const (
	EmitInfluxdb = "influxdb"
)

const defaultDuration = 10 * time.Second

// StartMetrics 根据配置启动上报, 返回停止函数; 未开启时返回 nil
func StartMetrics(cfg *types.Metrics, r gometrics.Registry) (func(), error) {
	if cfg == nil || !cfg.EnableMetrics {
		mlog.Info("Metrics data is not enabled to emit")
		return nil, nil
	}
	switch cfg.DataEmitMode {
	case EmitInfluxdb:
		sub := cfg.Influxdb
		if sub == nil {
			return nil, errors.Wrap(types.ErrEmitMode, "nil parameter for influxdb")
		}
		d := time.Duration(sub.Duration)
		if d <= 0 {
			d = defaultDuration
		}
		ns := sub.Namespace
		if ns == "" {
			ns = Namespace
		}
		mlog.Info("StartMetrics with influxdb", "duration", d, "url", sub.URL, "database", sub.Database,
			"username", sub.Username, "namespace", ns)
		return influxdb.InfluxDB(r, d, sub.URL, sub.Database, sub.Username, sub.Password, ns)
	}
	mlog.Error("StartMetrics", "The dataEmitMode set is not supported now", cfg.DataEmitMode)
	return nil, errors.Wrapf(types.ErrEmitMode, "%q", cfg.DataEmitMode)
}
