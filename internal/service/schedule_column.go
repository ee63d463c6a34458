package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Freeeeeet/degustation_uploader/internal/dataset"
	"github.com/Freeeeeet/degustation_uploader/internal/schedule"
)

const (
	// ScheduleColumn is the cleaned name of the raw opening hours column
	ScheduleColumn = "horaires_d_ouvertures"
	// TranslatedColumn receives the decoded schedules as JSON
	TranslatedColumn = "horaires_traduits"
)

// TranslateCell decodes one raw opening hours cell into its stored JSON form.
// A nil result means the row has no schedule data.
func TranslateCell(decoder *schedule.Decoder, cell string) (out *string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("decode schedule: %v", r)
		}
	}()

	raws, err := dataset.ParseScheduleCell(cell)
	if err != nil {
		return nil, err
	}

	return schedule.Marshal(decoder.DecodeAll(raws))
}

// translateSchedules decodes the schedule column of every row in parallel.
// Rows that fail are logged and left empty, the number of failures is returned.
func (s *UploadService) translateSchedules(ctx context.Context, table *dataset.Table, decoder *schedule.Decoder) ([]string, int, error) {
	translated := make([]string, len(table.Rows))

	idx := table.Column(ScheduleColumn)
	if idx < 0 {
		s.logger.Warn("Schedule column not found, translated column will be empty",
			zap.String("column", ScheduleColumn))
		return translated, 0, nil
	}

	var failures atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, row := range table.Rows {
		i, cell := i, row[idx]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			out, err := TranslateCell(decoder, cell)
			if err != nil {
				failures.Add(1)
				s.logger.Warn("Failed to translate schedule",
					zap.Int("row", i+1),
					zap.String("raw", cell),
					zap.Error(err))
				return nil
			}
			if out != nil {
				translated[i] = *out
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("translate schedules: %w", err)
	}

	return translated, int(failures.Load()), nil
}
