package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string      `json:"status"`
	Timestamp string      `json:"timestamp"`
	Version   string      `json:"version"`
	DatasetID string      `json:"dataset_id,omitempty"`
	Cache     *CacheStats `json:"cache,omitempty"`
}

// CacheStats reports result cache occupancy
type CacheStats struct {
	Type       string `json:"type"`
	Entries    int    `json:"entries"`
	Expired    int    `json:"expired"`
	MaxEntries int    `json:"max_entries"`
	Evictions  uint64 `json:"evictions"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// DatasetResponse describes the dataset currently served
type DatasetResponse struct {
	ID           string   `json:"id"`
	Generation   int64    `json:"generation"`
	Rows         int      `json:"rows"`
	Days         []string `json:"days"`
	CompleteWeek bool     `json:"complete_week"`
	RoomAreaM2   float64  `json:"room_area_m2"`
}

// SensorInfo describes one sensor
type SensorInfo struct {
	Name   string `json:"name"`
	Unit   string `json:"unit,omitempty"`
	Binary bool   `json:"binary"`
}

// SensorListResponse lists the known sensors
type SensorListResponse struct {
	Sensors []SensorInfo `json:"sensors"`
	Default string       `json:"default"`
}

// ObservationView is one table row. Missing readings are null.
type ObservationView struct {
	Day    string              `json:"day"`
	Time   string              `json:"time"`
	Values map[string]*float64 `json:"values"`
}

// ObservationListResponse is a page of the filtered table
type ObservationListResponse struct {
	DatasetID    string            `json:"dataset_id"`
	Days         []string          `json:"days"`
	Total        int               `json:"total"`
	Offset       int               `json:"offset"`
	Limit        int               `json:"limit"`
	Observations []ObservationView `json:"observations"`
}

// BucketView is one aggregation bucket. Mean, Min and Max are null for
// buckets without readings.
type BucketView struct {
	Key   string   `json:"key"`
	Count int      `json:"count"`
	Sum   float64  `json:"sum"`
	Mean  *float64 `json:"mean"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
}

// AggregateResponse is the bucketed mean of one sensor
type AggregateResponse struct {
	DatasetID string       `json:"dataset_id"`
	Sensor    string       `json:"sensor"`
	Unit      string       `json:"unit,omitempty"`
	Bucket    string       `json:"bucket"`
	Days      []string     `json:"days"`
	Buckets   []BucketView `json:"buckets"`
}

// RangeView is a closed value band
type RangeView struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// AnomalyRowView is one row of anomaly detection output
type AnomalyRowView struct {
	Index        int      `json:"index"`
	Day          string   `json:"day"`
	Time         string   `json:"time"`
	Value        *float64 `json:"value"`
	ZScore       float64  `json:"z_score"`
	IsAnomaly    bool     `json:"is_anomaly"`
	Type         string   `json:"type,omitempty"`
	AnomalyValue *float64 `json:"anomaly_value"`
}

// AnomalySummary counts flagged rows
type AnomalySummary struct {
	Total     int     `json:"total"`
	Anomalies int     `json:"anomalies"`
	Rate      float64 `json:"rate"` // percent
}

// AnomalyResponse is the z-score detection result for one sensor
type AnomalyResponse struct {
	DatasetID     string           `json:"dataset_id"`
	Sensor        string           `json:"sensor"`
	Days          []string         `json:"days"`
	Threshold     float64          `json:"threshold"`
	Mean          *float64         `json:"mean"`
	StdDev        float64          `json:"std_dev"`
	ExpectedRange RangeView        `json:"expected_range"`
	Summary       AnomalySummary   `json:"summary"`
	Rows          []AnomalyRowView `json:"rows,omitempty"`
}

// TrendRowView is one row of trend classification output
type TrendRowView struct {
	Index       int      `json:"index"`
	Day         string   `json:"day"`
	Time        string   `json:"time"`
	Value       *float64 `json:"value"`
	RollingMean *float64 `json:"rolling_mean"`
	Trend       string   `json:"trend"`
}

// TrendResponse is the rolling-mean trend classification of one sensor
type TrendResponse struct {
	DatasetID    string         `json:"dataset_id"`
	Sensor       string         `json:"sensor"`
	Days         []string       `json:"days"`
	Window       int            `json:"window"`
	Distribution map[string]int `json:"distribution"`
	Rows         []TrendRowView `json:"rows,omitempty"`
}

// CompareResponse holds per-bucket means of several sensors, raw and
// rescaled to [0, 100] so they share one axis
type CompareResponse struct {
	DatasetID  string                `json:"dataset_id"`
	Days       []string              `json:"days"`
	Bucket     string                `json:"bucket"`
	Keys       []string              `json:"keys"`
	Raw        map[string][]*float64 `json:"raw"`
	Normalized map[string][]*float64 `json:"normalized"`
}

// BinView is one histogram range
type BinView struct {
	Label string  `json:"label"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
	Share float64 `json:"share"` // percent of binned readings
}

// DistributionResponse is the value-range histogram of one sensor
type DistributionResponse struct {
	DatasetID string    `json:"dataset_id"`
	Sensor    string    `json:"sensor"`
	Days      []string  `json:"days"`
	Bins      []BinView `json:"bins"`
	Binned    int       `json:"binned"`
	Outside   int       `json:"outside"`
	Missing   int       `json:"missing"`
}

// SeriesStats summarizes one sensor column
type SeriesStats struct {
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	StdDev float64  `json:"std_dev"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
}

// AnalyzeResponse combines statistics, anomaly detection and trend
// classification for one sensor
type AnalyzeResponse struct {
	Source    string           `json:"source"` // dataset or inline
	Stats     SeriesStats      `json:"stats"`
	Anomalies *AnomalyResponse `json:"anomalies"`
	Trend     *TrendResponse   `json:"trend"`
}

// SeriesPoint is one chart point. Value is a reading, or a bucket mean in avg mode.
type SeriesPoint struct {
	Day   string  `json:"day"`
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// SeriesResponse is a sensor series reduced for charting
type SeriesResponse struct {
	DatasetID string        `json:"dataset_id"`
	Sensor    string        `json:"sensor"`
	Unit      string        `json:"unit,omitempty"`
	Days      []string      `json:"days"`
	Mode      string        `json:"mode"`
	Readings  int           `json:"readings"`
	Points    []SeriesPoint `json:"points"`
}
