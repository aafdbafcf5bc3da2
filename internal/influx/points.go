// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

package influx

import (
	"fmt"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"fluxcell/cli/internal/table"
)

// Flux adds these to every result table. They describe the query, not the data.
var bookkeeping = map[string]bool{
	"result":       true,
	"table":        true,
	"_start":       true,
	"_stop":        true,
	"_measurement": true,
}

var timeColumns = []string{"_time", "time"}

// FramePoints converts frame rows into points of measurement. Rows without a
// single non-nil field are skipped since line protocol needs at least one.
func FramePoints(frame *table.Frame, measurement string, tagColumns []string, now time.Time) ([]*write.Point, error) {
	if measurement == "" {
		return nil, fmt.Errorf("measurement name is empty")
	}

	isTag := make(map[string]bool, len(tagColumns))
	for _, c := range tagColumns {
		if !frame.HasColumn(c) {
			return nil, fmt.Errorf("tag column %q not found in table", c)
		}
		isTag[c] = true
	}

	timeCol := ""
	for _, c := range timeColumns {
		if frame.HasColumn(c) {
			timeCol = c
			break
		}
	}

	points := make([]*write.Point, 0, frame.Len())
	for r := range frame.Rows {
		ts := now
		if timeCol != "" {
			v, _ := frame.Value(r, timeCol)
			t, err := asTime(v)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", r, err)
			}
			if !t.IsZero() {
				ts = t
			}
		}

		tags := make(map[string]string, len(tagColumns))
		fields := make(map[string]any)
		for i, c := range frame.Columns {
			v := frame.Rows[r][i]
			switch {
			case v == nil, c == timeCol, bookkeeping[c]:
				continue
			case isTag[c]:
				tags[c] = fmt.Sprint(v)
			default:
				fields[c] = v
			}
		}
		if len(fields) == 0 {
			continue
		}
		points = append(points, write.NewPoint(measurement, tags, fields, ts))
	}
	return points, nil
}

func asTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t, nil
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("cannot parse time %q: %w", t, err)
		}
		return parsed, nil
	case int64:
		return time.Unix(0, t), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported time value %v (%T)", v, v)
	}
}
