package converter

import (
	"context"
	"time"

	"github.com/STTM-NSU/currency-converter/internal/logger"
	"github.com/STTM-NSU/currency-converter/internal/model"
)

// loggingService decorates a Service with logging
type loggingService struct {
	logger logger.Logger
	next   Service
}

func NewLoggingService(logger logger.Logger, s Service) Service {
	return &loggingService{
		logger: logger,
		next:   s,
	}
}

func (s *loggingService) Convert(ctx context.Context, req model.ConversionRequest) (c model.Conversion, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.Errorf("%s: can't convert %s, took %s", err, model.Pair(req.From, req.To), time.Since(begin))
			return
		}
		s.logger.Infof("converted %s %s to %s %s with rate %s, took %s",
			req.Amount, req.From, FormatResult(c), req.To, c.Rate, time.Since(begin))
	}(time.Now())
	return s.next.Convert(ctx, req)
}
