// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package influxdb 定时把 go-metrics 注册表写入 influxdb
package influxdb

import (
	"net/url"
	"sort"
	"time"

	"github.com/influxdata/influxdb/client"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	gometrics "github.com/rcrowley/go-metrics"
)

var ilog = log.New("module", "metrics.influxdb")

const (
	pingInterval = 5 * time.Second
	writeTimeout = 5 * time.Second
)

type reporter struct {
	reg       gometrics.Registry
	interval  time.Duration
	url       url.URL
	database  string
	username  string
	password  string
	namespace string

	client *client.Client
	stop   chan struct{}
	done   chan struct{}
}

// InfluxDB reports r to the database at rawURL every interval until the
// returned stop func is called. Stop flushes once more before returning.
func InfluxDB(r gometrics.Registry, interval time.Duration, rawURL, database, username, password, namespace string) (func(), error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrapf(err, "influxdb url %q", rawURL)
	}
	rep := &reporter{
		reg:       r,
		interval:  interval,
		url:       *u,
		database:  database,
		username:  username,
		password:  password,
		namespace: namespace,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	if err := rep.makeClient(); err != nil {
		return nil, err
	}
	go rep.run()
	return rep.close, nil
}

func (r *reporter) makeClient() (err error) {
	r.client, err = client.NewClient(client.Config{
		URL:      r.url,
		Username: r.username,
		Password: r.password,
		Timeout:  writeTimeout,
	})
	return err
}

func (r *reporter) close() {
	close(r.stop)
	<-r.done
}

func (r *reporter) run() {
	defer close(r.done)
	intervalTicker := time.NewTicker(r.interval)
	pingTicker := time.NewTicker(pingInterval)
	defer intervalTicker.Stop()
	defer pingTicker.Stop()

	for {
		select {
		case <-intervalTicker.C:
			if err := r.send(); err != nil {
				ilog.Error("unable to send metrics to InfluxDB", "err", err)
			}
		case <-pingTicker.C:
			if _, _, err := r.client.Ping(); err != nil {
				ilog.Warn("got error while sending a ping to InfluxDB, trying to recreate client", "err", err)
				if err = r.makeClient(); err != nil {
					ilog.Error("unable to make InfluxDB client", "err", err)
				}
			}
		case <-r.stop:
			if err := r.send(); err != nil {
				ilog.Error("unable to send metrics to InfluxDB", "err", err)
			}
			return
		}
	}
}

func (r *reporter) send() error {
	bps := client.BatchPoints{
		Points:   Points(r.reg, r.namespace, time.Now()),
		Database: r.database,
	}
	_, err := r.client.Write(bps)
	return err
}

// Points snapshots every metric of reg, one point each, sorted by
// measurement name.
func Points(reg gometrics.Registry, namespace string, now time.Time) []client.Point {
	var pts []client.Point
	add := func(name string, fields map[string]interface{}) {
		pts = append(pts, client.Point{
			Measurement: namespace + name,
			Fields:      fields,
			Time:        now,
		})
	}
	reg.Each(func(name string, i interface{}) {
		switch m := i.(type) {
		case gometrics.Counter:
			add(name+".count", map[string]interface{}{"value": m.Count()})
		case gometrics.Gauge:
			add(name+".gauge", map[string]interface{}{"value": m.Value()})
		case gometrics.GaugeFloat64:
			add(name+".gauge", map[string]interface{}{"value": m.Value()})
		case gometrics.Histogram:
			h := m.Snapshot()
			ps := h.Percentiles([]float64{0.5, 0.75, 0.95, 0.99})
			add(name+".histogram", map[string]interface{}{
				"count":  h.Count(),
				"max":    h.Max(),
				"mean":   h.Mean(),
				"min":    h.Min(),
				"stddev": h.StdDev(),
				"p50":    ps[0],
				"p75":    ps[1],
				"p95":    ps[2],
				"p99":    ps[3],
			})
		case gometrics.Meter:
			ms := m.Snapshot()
			add(name+".meter", map[string]interface{}{
				"count": ms.Count(),
				"m1":    ms.Rate1(),
				"m5":    ms.Rate5(),
				"m15":   ms.Rate15(),
				"mean":  ms.RateMean(),
			})
		case gometrics.Timer:
			ms := m.Snapshot()
			ps := ms.Percentiles([]float64{0.5, 0.95, 0.99})
			add(name+".timer", map[string]interface{}{
				"count": ms.Count(),
				"max":   ms.Max(),
				"mean":  ms.Mean(),
				"min":   ms.Min(),
				"p50":   ps[0],
				"p95":   ps[1],
				"p99":   ps[2],
				"m1":    ms.Rate1(),
			})
		}
	})
	sort.Slice(pts, func(i, j int) bool { return pts[i].Measurement < pts[j].Measurement })
	return pts
}
