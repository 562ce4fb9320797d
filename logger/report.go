package logger

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

type channelStat struct {
	messages int64
	dropped  int64
}

var (
	warnCount      int64
	errorCount     int64
	venueFetches   int64
	venueFailures  int64
	streamReads    int64
	streamDials    int64
	ordersResolved int64
	channels       sync.Map // map[string]*channelStat
)

func recordWarn(component string) {
	atomic.AddInt64(&warnCount, 1)
}

func recordError(component string) {
	atomic.AddInt64(&errorCount, 1)
}

// RecordVenueFetch counts one successful account fetch against a venue.
func RecordVenueFetch() {
	atomic.AddInt64(&venueFetches, 1)
}

// RecordVenueFailure counts one failed account fetch against a venue.
func RecordVenueFailure() {
	atomic.AddInt64(&venueFailures, 1)
}

// IncrementStreamRead counts one message read off the order-event stream.
func IncrementStreamRead() {
	atomic.AddInt64(&streamReads, 1)
}

// IncrementStreamDial counts one (re)connection of the order-event stream.
func IncrementStreamDial() {
	atomic.AddInt64(&streamDials, 1)
}

// IncrementOrderResolved counts one order whose fills were reconciled.
func IncrementOrderResolved() {
	atomic.AddInt64(&ordersResolved, 1)
}

// RecordChannelMessage records a message moving through a named channel.
func RecordChannelMessage(name string) {
	v, _ := channels.LoadOrStore(name, &channelStat{})
	cs := v.(*channelStat)
	atomic.AddInt64(&cs.messages, 1)
}

// RecordChannelDrop records a message dropped from a named channel.
func RecordChannelDrop(name string) {
	v, _ := channels.LoadOrStore(name, &channelStat{})
	cs := v.(*channelStat)
	atomic.AddInt64(&cs.dropped, 1)
}

func startReport(ctx context.Context, log *Log, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				logReport(ctx, log)
			}
		}
	}()
}

// StartReport begins periodic logging of runtime and channel statistics.
// It exposes the internal startReport function for use by other packages.
func StartReport(ctx context.Context, log *Log, interval time.Duration) {
	startReport(ctx, log, interval)
}

func logReport(ctx context.Context, log *Log) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	channelData := map[string]map[string]int64{}
	channels.Range(func(k, v any) bool {
		name := k.(string)
		cs := v.(*channelStat)
		channelData[name] = map[string]int64{
			"messages": atomic.LoadInt64(&cs.messages),
			"dropped":  atomic.LoadInt64(&cs.dropped),
		}
		return true
	})

	memoryMB := float64(memStats.Alloc) / 1024 / 1024

	fields := Fields{
		"warns":           atomic.LoadInt64(&warnCount),
		"errors":          atomic.LoadInt64(&errorCount),
		"venue_fetches":   atomic.LoadInt64(&venueFetches),
		"venue_failures":  atomic.LoadInt64(&venueFailures),
		"stream_reads":    atomic.LoadInt64(&streamReads),
		"stream_dials":    atomic.LoadInt64(&streamDials),
		"orders_resolved": atomic.LoadInt64(&ordersResolved),
		"goroutines":      runtime.NumGoroutine(),
		"memory_mb":       int64(memoryMB),
		"channels":        channelData,
	}

	log.WithComponent("report").WithFields(fields).Info("runtime report")

	var data []cwtypes.MetricDatum
	data = append(data,
		cwtypes.MetricDatum{MetricName: aws.String("Perpflow-Warns"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["warns"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("Perpflow-Errors"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["errors"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("Perpflow-VenueFetches"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["venue_fetches"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("Perpflow-VenueFailures"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["venue_failures"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("Perpflow-StreamReads"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["stream_reads"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("Perpflow-StreamDials"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["stream_dials"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("Perpflow-OrdersResolved"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["orders_resolved"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("Perpflow-Goroutines"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(runtime.NumGoroutine()))},
		cwtypes.MetricDatum{MetricName: aws.String("Perpflow-MemoryMB"), Unit: cwtypes.StandardUnitMegabytes, Value: aws.Float64(memoryMB)},
	)

	for name, stats := range channelData {
		data = append(data,
			cwtypes.MetricDatum{
				MetricName: aws.String("Perpflow-ChannelMessages"),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{{Name: aws.String("Channel"), Value: aws.String(name)}},
				Value:      aws.Float64(float64(stats["messages"])),
			},
			cwtypes.MetricDatum{
				MetricName: aws.String("Perpflow-ChannelDropped"),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{{Name: aws.String("Channel"), Value: aws.String(name)}},
				Value:      aws.Float64(float64(stats["dropped"])),
			},
		)
	}

	publishMetrics(ctx, data)
}
