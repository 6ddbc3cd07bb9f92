/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package telemetry

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/hashicorp/go-multierror"
	gometrics "github.com/rcrowley/go-metrics"
)

type MetricsReporter interface {
	Report(registry gometrics.Registry, tags map[string]string) error
}

// LogReporter writes changed metric values to the logging client.
type LogReporter struct {
	lc                logger.LoggingClient
	serviceName       string
	mu                sync.Mutex
	lastReportedValue map[string]int64
}

func NewLogReporter(lc logger.LoggingClient, serviceName string) *LogReporter {
	return &LogReporter{
		lc:                lc,
		serviceName:       serviceName,
		lastReportedValue: make(map[string]int64),
	}
}

func (r *LogReporter) Report(registry gometrics.Registry, tags map[string]string) error {
	var errs error
	samples := make([]string, 0)

	registry.Each(func(name string, item interface{}) {
		if !strings.HasPrefix(name, MetricPrefix) {
			return
		}
		var value int64
		switch metric := item.(type) {
		case gometrics.Counter:
			value = metric.Count()
			if value >= (math.MaxInt64 - 1000) {
				r.lc.Warnf("Resetting counter '%s' with value: %d to avoid overflow", name, value)
				metric.Clear()
			}
		case gometrics.Histogram:
			if metric.Count() == 0 {
				return
			}
			value = int64(metric.Mean())
		case gometrics.Gauge:
			value = metric.Value()
		default:
			errs = multierror.Append(errs, fmt.Errorf("metric type %T not supported", metric))
			return
		}

		r.mu.Lock()
		if lastValue, exists := r.lastReportedValue[name]; !exists || lastValue != value {
			samples = append(samples, fmt.Sprintf("%s=%d", name, value))
			r.lastReportedValue[name] = value
		}
		r.mu.Unlock()
	})

	if len(samples) == 0 {
		r.lc.Debugf("No telemetry metrics changed for %s", r.serviceName)
		return errs
	}
	sort.Strings(samples)
	r.lc.Infof("telemetry %s %v: %s", r.serviceName, tags, strings.Join(samples, " "))
	return errs
}

// MetricsManager reports the registry on a fixed interval until its context ends.
type MetricsManager struct {
	telemetry *Telemetry
	reporter  MetricsReporter
	interval  time.Duration
	lc        logger.LoggingClient
}

func NewMetricsManager(lc logger.LoggingClient, telemetry *Telemetry, reporter MetricsReporter, interval time.Duration) (*MetricsManager, error) {
	if telemetry == nil || reporter == nil {
		return nil, fmt.Errorf("failed to create metrics manager: telemetry and reporter are required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("failed to create metrics manager: invalid report interval %v", interval)
	}
	return &MetricsManager{
		telemetry: telemetry,
		reporter:  reporter,
		interval:  interval,
		lc:        lc,
	}, nil
}

func (m *MetricsManager) Run(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				m.report()
				m.lc.Info("Exited metrics manager")
				return
			case <-ticker.C:
				m.report()
			}
		}
	}()
	m.lc.Infof("Metrics manager started with a %s report interval", m.interval.String())
}

func (m *MetricsManager) report() {
	if err := m.reporter.Report(m.telemetry.Registry, m.telemetry.Tags()); err != nil {
		m.lc.Errorf("Unable to report metrics: %v", err)
	}
}
