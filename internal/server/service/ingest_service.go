package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pktikkani/forecastio/internal/models"
)

// ErrBadCSV is returned for content that cannot be parsed into datapoints.
var ErrBadCSV = errors.New("ingest: invalid csv content")

// DatapointSink stores parsed observations.
type DatapointSink interface {
	InsertBatch(ctx context.Context, userID, menuID int64, points []models.Datapoint) (int, error)
}

// IngestService turns uploaded CSV files into stored datapoints. The upload
// arrives base64-encoded inside a JSON body; rows are "date,value" with an
// optional header line.
type IngestService struct {
	sink   DatapointSink
	logger *zap.Logger
}

// NewIngestService builds IngestService.
func NewIngestService(sink DatapointSink, logger *zap.Logger) *IngestService {
	return &IngestService{sink: sink, logger: logger}
}

// UploadCSV decodes, parses and stores an uploaded file. It returns the
// number of datapoints inserted.
func (s *IngestService) UploadCSV(ctx context.Context, userID, menuID int64, encoded string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return 0, fmt.Errorf("%w: bad base64: %v", ErrBadCSV, err)
	}

	points, err := parseCSV(raw)
	if err != nil {
		return 0, err
	}
	if len(points) == 0 {
		return 0, fmt.Errorf("%w: no rows", ErrBadCSV)
	}

	inserted, err := s.sink.InsertBatch(ctx, userID, menuID, points)
	if err != nil {
		return 0, err
	}
	s.logger.Info("csv ingested", zap.Int64("menu_id", menuID), zap.Int("rows", inserted))
	return inserted, nil
}

// AddPoints stores pre-parsed observations grouped by their menu id.
func (s *IngestService) AddPoints(ctx context.Context, userID int64, points []models.Datapoint) (int, error) {
	byMenu := make(map[int64][]models.Datapoint)
	for _, p := range points {
		if p.MenuID == 0 {
			return 0, fmt.Errorf("%w: datapoint without menu_id", ErrBadCSV)
		}
		byMenu[p.MenuID] = append(byMenu[p.MenuID], p)
	}

	total := 0
	for menuID, group := range byMenu {
		inserted, err := s.sink.InsertBatch(ctx, userID, menuID, group)
		if err != nil {
			return total, err
		}
		total += inserted
	}
	return total, nil
}

func parseCSV(raw []byte) ([]models.Datapoint, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCSV, err)
	}

	points := make([]models.Datapoint, 0, len(records))
	for i, record := range records {
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrBadCSV, i+1, len(record))
		}
		date := strings.TrimSpace(record[0])
		rawValue := strings.TrimSpace(record[1])

		// tolerate a header line
		if i == 0 {
			if _, err := strconv.ParseFloat(rawValue, 64); err != nil {
				continue
			}
		}

		if _, err := time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("%w: row %d has bad date %q", ErrBadCSV, i+1, date)
		}
		value, err := strconv.ParseFloat(rawValue, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d has bad value %q", ErrBadCSV, i+1, rawValue)
		}
		points = append(points, models.Datapoint{Date: date, Value: value})
	}
	return points, nil
}
