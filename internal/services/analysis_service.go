package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soltixdb/roomsense/internal/aggregation"
	"github.com/soltixdb/roomsense/internal/analytics"
	"github.com/soltixdb/roomsense/internal/analytics/anomaly"
	"github.com/soltixdb/roomsense/internal/analytics/distribution"
	"github.com/soltixdb/roomsense/internal/analytics/normalize"
	"github.com/soltixdb/roomsense/internal/analytics/trend"
	"github.com/soltixdb/roomsense/internal/cache"
	"github.com/soltixdb/roomsense/internal/config"
	"github.com/soltixdb/roomsense/internal/downsampling"
	"github.com/soltixdb/roomsense/internal/logging"
	"github.com/soltixdb/roomsense/internal/models"
	"github.com/soltixdb/roomsense/internal/utils"
)

// DatasetSource provides the dataset being analyzed
type DatasetSource interface {
	Table() *analytics.Table
	Generation() int64
	RoomAreaM2() float64
}

// AnalysisService handles analysis business logic
type AnalysisService struct {
	logger *logging.Logger
	source DatasetSource
	cache  cache.Cache
	cfg    config.AnalysisConfig
}

// NewAnalysisService creates a new AnalysisService. A nil cache disables caching.
func NewAnalysisService(
	logger *logging.Logger,
	source DatasetSource,
	resultCache cache.Cache,
	cfg config.AnalysisConfig,
) *AnalysisService {
	if resultCache == nil {
		resultCache = cache.NopCache{}
	}
	return &AnalysisService{
		logger: logger,
		source: source,
		cache:  resultCache,
		cfg:    cfg,
	}
}

// scope is a resolved request: the day-filtered table plus its day labels.
// ctx carries the dataset ID for logging.
type scope struct {
	ctx   context.Context
	table *analytics.Table
	days  []string
}

// Dataset describes the dataset currently served
func (s *AnalysisService) Dataset() *models.DatasetResponse {
	table := s.source.Table()
	return &models.DatasetResponse{
		ID:           table.ID(),
		Generation:   s.source.Generation(),
		Rows:         table.Len(),
		Days:         dayLabels(table.Days()),
		CompleteWeek: table.IsCompleteWeek(),
		RoomAreaM2:   s.source.RoomAreaM2(),
	}
}

// CacheStats reports result cache occupancy, or nil when the backend
// keeps no statistics
func (s *AnalysisService) CacheStats() *models.CacheStats {
	reporter, ok := s.cache.(cache.StatsReporter)
	if !ok {
		return nil
	}
	stats := reporter.Stats()
	return &models.CacheStats{
		Type:       string(stats.Type),
		Entries:    stats.Entries,
		Expired:    stats.Expired,
		MaxEntries: stats.MaxEntries,
		Evictions:  stats.Evictions,
	}
}

// Sensors lists the known sensors with their units
func (s *AnalysisService) Sensors() *models.SensorListResponse {
	resp := &models.SensorListResponse{
		Sensors: make([]models.SensorInfo, 0, len(analytics.AllSensors)),
		Default: s.cfg.Sensor().String(),
	}
	for _, sensor := range analytics.AllSensors {
		resp.Sensors = append(resp.Sensors, models.SensorInfo{
			Name:   sensor.String(),
			Unit:   sensor.Unit(),
			Binary: sensor.Binary(),
		})
	}
	return resp
}

// Observations returns a page of the day-filtered table
func (s *AnalysisService) Observations(ctx context.Context, req *models.AnalysisRequest) (*models.ObservationListResponse, error) {
	sc, err := s.resolveScope(ctx, s.source.Table(), req.Days)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit == 0 {
		limit = utils.DefaultPageSize
	}

	total := sc.table.Len()
	start := min(req.Offset, total)
	end := min(start+limit, total)

	resp := &models.ObservationListResponse{
		DatasetID:    sc.table.ID(),
		Days:         sc.days,
		Total:        total,
		Offset:       req.Offset,
		Limit:        limit,
		Observations: make([]models.ObservationView, 0, end-start),
	}

	for i := start; i < end; i++ {
		obs := sc.table.Row(i)
		values := make(map[string]*float64, len(analytics.AllSensors))
		for _, sensor := range analytics.AllSensors {
			if v, ok := obs.Reading(sensor); ok {
				values[sensor.String()] = utils.Nullable(v)
			} else {
				values[sensor.String()] = nil
			}
		}
		resp.Observations = append(resp.Observations, models.ObservationView{
			Day:    obs.Day.String(),
			Time:   obs.TimeOfDay,
			Values: values,
		})
	}

	return resp, nil
}

// Aggregate computes the per-bucket mean of one sensor
func (s *AnalysisService) Aggregate(ctx context.Context, req *models.AnalysisRequest) (*models.AggregateResponse, error) {
	sensor, err := s.resolveSensor(req.Sensor)
	if err != nil {
		return nil, err
	}
	key, err := aggregation.ParseBucketKey(req.Bucket)
	if err != nil {
		return nil, FromError(err)
	}
	sc, err := s.resolveScope(ctx, s.source.Table(), req.Days)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%s:aggregate:%s:%s", sc.table.ID(), sensor, key)
	return cached(sc.ctx, s, cacheKey, func() (*models.AggregateResponse, error) {
		buckets, err := aggregation.Aggregate(sc.table, sensor, key)
		if err != nil {
			return nil, err
		}
		return &models.AggregateResponse{
			DatasetID: sc.table.ID(),
			Sensor:    sensor.String(),
			Unit:      sensor.Unit(),
			Bucket:    string(key),
			Days:      sc.days,
			Buckets:   bucketViews(buckets),
		}, nil
	})
}

// Anomalies runs z-score detection on one sensor
func (s *AnalysisService) Anomalies(ctx context.Context, req *models.AnalysisRequest) (*models.AnomalyResponse, error) {
	sensor, err := s.resolveSensor(req.Sensor)
	if err != nil {
		return nil, err
	}
	threshold, err := s.resolveThreshold(req.Threshold)
	if err != nil {
		return nil, err
	}
	sc, err := s.resolveScope(ctx, s.source.Table(), req.Days)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%s:anomalies:%s:%g:%t", sc.table.ID(), sensor, threshold, req.IncludeRows)
	return cached(sc.ctx, s, cacheKey, func() (*models.AnomalyResponse, error) {
		return s.detect(sc, sensor, threshold, req.IncludeRows)
	})
}

// Trend classifies the rolling-mean direction of one sensor
func (s *AnalysisService) Trend(ctx context.Context, req *models.AnalysisRequest) (*models.TrendResponse, error) {
	sensor, err := s.resolveSensor(req.Sensor)
	if err != nil {
		return nil, err
	}
	window, err := s.resolveWindow(req.Window)
	if err != nil {
		return nil, err
	}
	sc, err := s.resolveScope(ctx, s.source.Table(), req.Days)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%s:trend:%s:%d:%t", sc.table.ID(), sensor, window, req.IncludeRows)
	return cached(sc.ctx, s, cacheKey, func() (*models.TrendResponse, error) {
		return s.classify(sc, sensor, window, req.IncludeRows)
	})
}

// Compare aggregates two or more sensors concurrently and rescales their
// bucket means onto [0, 100]
func (s *AnalysisService) Compare(ctx context.Context, req *models.AnalysisRequest) (*models.CompareResponse, error) {
	sensors, err := s.resolveSensors(req.Sensors)
	if err != nil {
		return nil, err
	}
	key, err := aggregation.ParseBucketKey(req.Bucket)
	if err != nil {
		return nil, FromError(err)
	}
	sc, err := s.resolveScope(ctx, s.source.Table(), req.Days)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(sensors))
	for i, sensor := range sensors {
		names[i] = sensor.String()
	}

	cacheKey := fmt.Sprintf("%s:compare:%s:%s", sc.table.ID(), strings.Join(names, ","), key)
	return cached(sc.ctx, s, cacheKey, func() (*models.CompareResponse, error) {
		perSensor, err := aggregation.AggregateMany(ctx, sc.table, sensors, key, s.cfg.MaxWorkers)
		if err != nil {
			return nil, err
		}

		raw := make(map[analytics.Sensor][]float64, len(sensors))
		for sensor, buckets := range perSensor {
			raw[sensor] = aggregation.Means(buckets)
		}

		normalized, err := normalize.Series(raw)
		if err != nil {
			return nil, err
		}

		resp := &models.CompareResponse{
			DatasetID:  sc.table.ID(),
			Days:       sc.days,
			Bucket:     string(key),
			Keys:       aggregation.Keys(perSensor[sensors[0]]),
			Raw:        make(map[string][]*float64, len(sensors)),
			Normalized: make(map[string][]*float64, len(sensors)),
		}
		for _, sensor := range sensors {
			resp.Raw[sensor.String()] = utils.NullableSlice(raw[sensor])
			resp.Normalized[sensor.String()] = utils.NullableSlice(normalized[sensor])
		}
		return resp, nil
	})
}

// Distribution builds the value-range histogram of one sensor
func (s *AnalysisService) Distribution(ctx context.Context, req *models.AnalysisRequest) (*models.DistributionResponse, error) {
	sensor, err := s.resolveSensor(req.Sensor)
	if err != nil {
		return nil, err
	}
	sc, err := s.resolveScope(ctx, s.source.Table(), req.Days)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%s:distribution:%s", sc.table.ID(), sensor)
	return cached(sc.ctx, s, cacheKey, func() (*models.DistributionResponse, error) {
		result, err := distribution.Compute(sc.table, sensor)
		if err != nil {
			return nil, err
		}

		resp := &models.DistributionResponse{
			DatasetID: sc.table.ID(),
			Sensor:    sensor.String(),
			Days:      sc.days,
			Bins:      make([]models.BinView, len(result.Bins)),
			Binned:    result.Binned,
			Outside:   result.Outside,
			Missing:   result.Missing,
		}
		for i, b := range result.Bins {
			resp.Bins[i] = models.BinView{
				Label: b.Label,
				Lower: b.Lower,
				Upper: b.Upper,
				Count: b.Count,
				Share: b.Share,
			}
		}
		return resp, nil
	})
}

// Series returns one sensor column reduced to about req.Points chart points
func (s *AnalysisService) Series(ctx context.Context, req *models.AnalysisRequest) (*models.SeriesResponse, error) {
	sensor, err := s.resolveSensor(req.Sensor)
	if err != nil {
		return nil, err
	}
	mode, err := downsampling.ParseMode(req.Downsample)
	if err != nil {
		return nil, FromError(err)
	}
	sc, err := s.resolveScope(ctx, s.source.Table(), req.Days)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%s:series:%s:%s:%d", sc.table.ID(), sensor, mode, req.Points)
	return cached(sc.ctx, s, cacheKey, func() (*models.SeriesResponse, error) {
		if sc.table.Len() == 0 {
			return nil, fmt.Errorf("%w: no rows to chart", analytics.ErrEmptyInput)
		}
		values, err := sc.table.Column(sensor)
		if err != nil {
			return nil, err
		}
		result, err := downsampling.Downsample(values, mode, req.Points)
		if err != nil {
			return nil, err
		}

		resp := &models.SeriesResponse{
			DatasetID: sc.table.ID(),
			Sensor:    sensor.String(),
			Unit:      sensor.Unit(),
			Days:      sc.days,
			Mode:      string(result.Mode),
			Readings:  result.Readings,
			Points:    make([]models.SeriesPoint, len(result.Points)),
		}
		for i, p := range result.Points {
			resp.Points[i] = models.SeriesPoint{
				Day:   sc.table.DayAt(p.Index).String(),
				Time:  sc.table.TimeAt(p.Index),
				Value: p.Value,
			}
		}
		return resp, nil
	})
}

// Analyze runs statistics, anomaly detection and trend classification for
// one sensor in a single call. Inline values, when given, replace the dataset.
func (s *AnalysisService) Analyze(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	startTime := time.Now()

	sensor, err := s.resolveSensor(req.Sensor)
	if err != nil {
		return nil, err
	}
	threshold, err := s.resolveThreshold(req.Threshold)
	if err != nil {
		return nil, err
	}
	window, err := s.resolveWindow(req.Window)
	if err != nil {
		return nil, err
	}

	source := "dataset"
	table := s.source.Table()
	days := req.Days
	if len(req.Values) > 0 {
		source = "inline"
		table, err = analytics.NewSeriesTable(sensor, utils.ToSeries(req.Values))
		if err != nil {
			return nil, FromError(err)
		}
		if len(days) == 0 {
			days = dayLabels(table.Days())
		}
	}

	sc, err := s.resolveScope(ctx, table, days)
	if err != nil {
		return nil, err
	}

	anomalies, err := s.detect(sc, sensor, threshold, req.IncludeRows)
	if err != nil {
		return nil, FromError(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, FromError(err)
	}
	trends, err := s.classify(sc, sensor, window, req.IncludeRows)
	if err != nil {
		return nil, FromError(err)
	}

	values, err := sc.table.Column(sensor)
	if err != nil {
		return nil, FromError(err)
	}

	s.logger.WithContext(ctx).Info("Analysis completed",
		"source", source,
		"sensor", sensor.String(),
		"rows", sc.table.Len(),
		"anomalies", anomalies.Summary.Anomalies,
		"threshold", threshold,
		"window", window,
		"latency_ms", time.Since(startTime).Milliseconds())

	return &models.AnalyzeResponse{
		Source:    source,
		Stats:     seriesStats(values),
		Anomalies: anomalies,
		Trend:     trends,
	}, nil
}

func (s *AnalysisService) detect(sc *scope, sensor analytics.Sensor, threshold float64, includeRows bool) (*models.AnomalyResponse, error) {
	result, err := anomaly.Detect(sc.table, sensor, threshold)
	if err != nil {
		return nil, err
	}

	resp := &models.AnomalyResponse{
		DatasetID: sc.table.ID(),
		Sensor:    sensor.String(),
		Days:      sc.days,
		Threshold: threshold,
		Mean:      utils.Nullable(result.Mean),
		StdDev:    utils.Finite(result.StdDev),
		ExpectedRange: models.RangeView{
			Min: utils.Nullable(result.Expected.Min),
			Max: utils.Nullable(result.Expected.Max),
		},
		Summary: models.AnomalySummary{
			Total:     result.Summary.Total,
			Anomalies: result.Summary.Anomalies,
			Rate:      result.Summary.Rate,
		},
	}

	if includeRows {
		resp.Rows = make([]models.AnomalyRowView, len(result.Rows))
		for i, row := range result.Rows {
			resp.Rows[i] = models.AnomalyRowView{
				Index:        row.Index,
				Day:          row.Day.String(),
				Time:         row.TimeOfDay,
				Value:        utils.Nullable(row.Value),
				ZScore:       row.ZScore,
				IsAnomaly:    row.IsAnomaly,
				Type:         string(row.Type),
				AnomalyValue: row.AnomalyValue,
			}
		}
	}

	return resp, nil
}

func (s *AnalysisService) classify(sc *scope, sensor analytics.Sensor, window int, includeRows bool) (*models.TrendResponse, error) {
	result, err := trend.Classify(sc.table, sensor, window)
	if err != nil {
		return nil, err
	}

	resp := &models.TrendResponse{
		DatasetID:    sc.table.ID(),
		Sensor:       sensor.String(),
		Days:         sc.days,
		Window:       window,
		Distribution: make(map[string]int, len(trend.AllLabels)),
	}
	for _, label := range trend.AllLabels {
		resp.Distribution[string(label)] = result.Distribution[label]
	}

	if includeRows {
		resp.Rows = make([]models.TrendRowView, len(result.Rows))
		for i, row := range result.Rows {
			resp.Rows[i] = models.TrendRowView{
				Index:       row.Index,
				Day:         row.Day.String(),
				Time:        row.TimeOfDay,
				Value:       utils.Nullable(row.Value),
				RollingMean: row.RollingMean,
				Trend:       string(row.Trend),
			}
		}
	}

	return resp, nil
}

// resolveScope filters table to the requested days, or to the configured
// default selection when none are given
func (s *AnalysisService) resolveScope(ctx context.Context, table *analytics.Table, labels []string) (*scope, error) {
	if err := ctx.Err(); err != nil {
		return nil, FromError(err)
	}

	days := s.cfg.Days()
	if len(labels) > 0 {
		parsed, err := analytics.ParseDays(labels)
		if err != nil {
			return nil, FromError(err)
		}
		days = parsed
	}

	return &scope{
		ctx:   logging.WithDatasetID(ctx, table.ID()),
		table: table.FilterDays(days),
		days:  dayLabels(days),
	}, nil
}

func (s *AnalysisService) resolveSensor(name string) (analytics.Sensor, error) {
	if name == "" {
		return s.cfg.Sensor(), nil
	}
	sensor, err := analytics.ParseSensor(name)
	if err != nil {
		return "", FromError(err)
	}
	return sensor, nil
}

// resolveSensors parses a comparison selection: at least two distinct sensors
func (s *AnalysisService) resolveSensors(names []string) ([]analytics.Sensor, error) {
	seen := make(map[analytics.Sensor]bool, len(names))
	sensors := make([]analytics.Sensor, 0, len(names))
	for _, name := range names {
		sensor, err := analytics.ParseSensor(name)
		if err != nil {
			return nil, FromError(err)
		}
		if seen[sensor] {
			continue
		}
		seen[sensor] = true
		sensors = append(sensors, sensor)
	}

	if len(sensors) < 2 {
		return nil, NewServiceErrorWithDetails(CodeInvalidParameter,
			"at least 2 sensors are required for comparison",
			map[string]interface{}{"sensors": len(sensors)})
	}
	return sensors, nil
}

func (s *AnalysisService) resolveThreshold(threshold *float64) (float64, error) {
	if threshold == nil {
		return s.cfg.AnomalyThreshold, nil
	}
	if err := config.CheckThreshold(*threshold); err != nil {
		return 0, FromError(err)
	}
	return *threshold, nil
}

func (s *AnalysisService) resolveWindow(window *int) (int, error) {
	if window == nil {
		return s.cfg.TrendWindow, nil
	}
	if err := config.CheckWindow(*window); err != nil {
		return 0, FromError(err)
	}
	return *window, nil
}

// cached returns the cached response for key or computes and stores it.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, s *AnalysisService, key string, compute func() (*T, error)) (*T, error) {
	logger := s.logger.WithContext(ctx)

	getCtx, cancel := context.WithTimeout(ctx, utils.CacheOperationTimeout)
	data, ok, err := s.cache.Get(getCtx, key)
	cancel()
	if err != nil {
		logger.Warn("Cache read failed", "key", key, "error", err)
	}
	if ok {
		var out T
		if err := json.Unmarshal(data, &out); err == nil {
			logger.Debug("Cache hit", "key", key)
			return &out, nil
		}
		logger.Warn("Discarding undecodable cache entry", "key", key)
	}

	startTime := time.Now()
	out, err := compute()
	if err != nil {
		return nil, FromError(err)
	}
	logger.Debug("Computed analysis", "key", key, "latency_ms", time.Since(startTime).Milliseconds())

	data, err = json.Marshal(out)
	if err != nil {
		logger.Warn("Failed to encode result for cache", "key", key, "error", err)
		return out, nil
	}

	setCtx, cancel := context.WithTimeout(ctx, utils.CacheOperationTimeout)
	defer cancel()
	if err := s.cache.Set(setCtx, key, data); err != nil {
		logger.Warn("Cache write failed", "key", key, "error", err)
	}

	return out, nil
}

func bucketViews(buckets []aggregation.Bucket) []models.BucketView {
	views := make([]models.BucketView, len(buckets))
	for i, b := range buckets {
		views[i] = models.BucketView{
			Key:   b.Key,
			Count: b.Count,
			Sum:   b.Sum,
			Mean:  utils.Nullable(b.Mean),
			Min:   utils.Nullable(b.Min),
			Max:   utils.Nullable(b.Max),
		}
	}
	return views
}

func seriesStats(values []float64) models.SeriesStats {
	stats := models.SeriesStats{
		Mean:   utils.Nullable(analytics.Mean(values)),
		StdDev: analytics.SampleStdDev(values),
	}
	for _, v := range values {
		if !math.IsNaN(v) {
			stats.Count++
		}
	}
	if lo, hi, ok := analytics.MinMax(values); ok {
		stats.Min = utils.Nullable(lo)
		stats.Max = utils.Nullable(hi)
	}
	return stats
}

func dayLabels(days []analytics.Day) []string {
	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = d.String()
	}
	return labels
}
