package history

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/STTM-NSU/currency-converter/internal/converter"
	"github.com/STTM-NSU/currency-converter/internal/logger"
	"github.com/STTM-NSU/currency-converter/internal/model"
)

type Recorder interface {
	Save(ctx context.Context, c model.Conversion) (model.HistoryRecord, error)
}

// recordingService decorates a converter.Service, saving every successful
// conversion. Saving errors are logged and never fail the conversion.
type recordingService struct {
	recorder Recorder
	logger   logger.Logger
	next     converter.Service
}

func NewRecordingService(recorder Recorder, logger logger.Logger, s converter.Service) converter.Service {
	return &recordingService{
		recorder: recorder,
		logger:   logger,
		next:     s,
	}
}

func (s *recordingService) Convert(ctx context.Context, req model.ConversionRequest) (model.Conversion, error) {
	c, err := s.next.Convert(ctx, req)
	if err != nil {
		return c, err
	}

	record, err := s.recorder.Save(ctx, c)
	if err != nil {
		s.logger.Warnf("%s: can't record conversion %s", err, model.Pair(req.From, req.To))
		return c, nil
	}
	s.logger.Debugf("recorded conversion %s", record.ID)

	return c, nil
}

func Print(w io.Writer, records []model.HistoryRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No conversions recorded yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tFROM\tTO\tAMOUNT\tRATE\tRESULT")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.CreatedAt.UTC().Format(time.DateTime),
			r.FromCurrency, r.ToCurrency,
			r.Amount, r.Rate, r.Result.StringFixed(2),
		)
	}
	return tw.Flush()
}
