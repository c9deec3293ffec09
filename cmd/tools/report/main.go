package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/soltixdb/roomsense/internal/config"
	"github.com/soltixdb/roomsense/internal/logging"
	"github.com/soltixdb/roomsense/internal/models"
	"github.com/soltixdb/roomsense/internal/services"
	"github.com/soltixdb/roomsense/internal/simulator"
	"github.com/soltixdb/roomsense/internal/utils"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	sensor := flag.String("sensor", "", "Sensor to analyze (default from config)")
	days := flag.String("days", "", "Comma-separated days (default from config)")
	threshold := flag.Float64("threshold", 0, "Z-score threshold, 1.5 to 3.5 (default from config)")
	window := flag.Int("window", 0, "Rolling window, 3 to 15 (default from config)")
	output := flag.String("output", "report.csv", "Output CSV file")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	simCfg := simulator.DefaultConfig()
	simCfg.Seed = cfg.Dataset.Seed
	source, err := simulator.NewSource(simCfg, logger)
	if err != nil {
		logger.Fatal("Failed to generate dataset", "error", err)
	}

	req := &models.AnalyzeRequest{
		Sensor:      *sensor,
		Days:        models.SplitList(*days),
		IncludeRows: true,
	}
	if *threshold != 0 {
		req.Threshold = threshold
	}
	if *window != 0 {
		req.Window = window
	}

	ctx, cancel := context.WithTimeout(context.Background(), utils.DefaultRequestTimeout)
	defer cancel()

	svc := services.NewAnalysisService(logger, source, nil, cfg.Analysis)
	result, err := svc.Analyze(ctx, req)
	if err != nil {
		logger.Fatal("Analysis failed", "error", err)
	}

	if err := exportToCSV(*output, result); err != nil {
		logger.Fatal("Failed to export report", "error", err, "output", *output)
	}

	printSummary(result)
	fmt.Printf("Successfully exported to: %s\n", *output)
}

// exportToCSV writes one line per observation with its anomaly and trend columns
func exportToCSV(filename string, result *models.AnalyzeResponse) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)

	header := []string{"day", "time", "value", "z_score", "is_anomaly", "anomaly_type", "rolling_mean", "trend"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	anomalies := result.Anomalies.Rows
	trends := result.Trend.Rows
	for i, row := range anomalies {
		record := []string{
			row.Day,
			row.Time,
			formatFloat(row.Value),
			strconv.FormatFloat(row.ZScore, 'f', 4, 64),
			strconv.FormatBool(row.IsAnomaly),
			row.Type,
			"",
			"",
		}
		if i < len(trends) {
			record[6] = formatFloat(trends[i].RollingMean)
			record[7] = trends[i].Trend
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatFloat renders a missing value as an empty cell
func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func printSummary(result *models.AnalyzeResponse) {
	a := result.Anomalies
	fmt.Printf("Sensor: %s  Days: %v\n", a.Sensor, a.Days)
	fmt.Printf("Readings: %d  Mean: %s  StdDev: %.2f  Range: %s to %s\n",
		result.Stats.Count, formatFloat(result.Stats.Mean), result.Stats.StdDev,
		formatFloat(result.Stats.Min), formatFloat(result.Stats.Max))
	fmt.Printf("Anomalies (|z| > %.1f): %d of %d (%.2f%%)\n",
		a.Threshold, a.Summary.Anomalies, a.Summary.Total, a.Summary.Rate)
	fmt.Printf("Trend (window %d): Rising %d, Falling %d, Stable %d\n",
		result.Trend.Window,
		result.Trend.Distribution["Rising"],
		result.Trend.Distribution["Falling"],
		result.Trend.Distribution["Stable"])
}
