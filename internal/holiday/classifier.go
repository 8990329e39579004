package holiday

import (
	"errors"
	"sync"
	"time"

	"github.com/jamebal/hacs-chinese-holidays/pkg/dateutil"
	"go.uber.org/zap"
)

// Classifier runs the fetch-classify-publish cycle and keeps at most one
// month of calendar data cached between invocations.
type Classifier struct {
	provider Provider
	sink     Sink
	logger   *zap.Logger

	mu         sync.Mutex // serializes Refresh; scheduled and manual runs must not race
	cacheMonth string     // YYYYMM the cache covers, empty when unset
	cacheDays  MonthData
}

// NewClassifier creates a new Classifier. sink may be nil, in which case
// results are computed but not published.
func NewClassifier(provider Provider, sink Sink, logger *zap.Logger) *Classifier {
	return &Classifier{
		provider: provider,
		sink:     sink,
		logger:   logger,
	}
}

// Refresh runs one classification cycle for the given date and publishes
// the result before returning. Failures never propagate: they degrade the
// result to an unknown or error state instead.
func (c *Classifier) Refresh(now time.Time) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := c.classify(now)

	if c.sink != nil {
		if err := c.sink.Publish(result); err != nil {
			c.logger.Error("Failed to publish result",
				zap.String("state", result.State),
				zap.Error(err))
		}
	}

	return result
}

func (c *Classifier) classify(now time.Time) Result {
	yearMonth := dateutil.YearMonth(now)
	dayKey := dateutil.DayKey(now)

	if c.cacheMonth != yearMonth {
		days, err := c.provider.FetchMonth(yearMonth)
		if err != nil {
			c.logger.Error("Failed to fetch month data",
				zap.String("month", yearMonth),
				zap.Error(err))
			return failureResult(now, err)
		}

		// Replace wholesale; the old month is only discarded on success
		c.cacheMonth = yearMonth
		c.cacheDays = days
	} else {
		c.logger.Debug("Using cached month data",
			zap.String("month", yearMonth))
	}

	attrs := map[string]interface{}{
		AttrDate:        dateutil.FormatDate(now),
		AttrLastUpdated: dateutil.FormatISO8601(time.Now()),
	}

	entry, ok := c.cacheDays[dayKey]
	if !ok {
		// Days absent from the payload are plain workdays, not errors
		c.logger.Debug("No entry for day, defaulting to workday",
			zap.String("day", dayKey))
		return Result{State: StateWorkday, Attributes: attrs}
	}

	if entry.TypeName != "" {
		attrs[AttrTypeName] = entry.TypeName
	}

	if entry.Type == nil {
		attrs[AttrNote] = "type code missing, defaulting to workday"
		c.logger.Warn("Day entry has no type code",
			zap.String("day", dayKey))
		return Result{State: StateWorkday, Attributes: attrs}
	}

	attrs[AttrRawType] = *entry.Type

	var state string
	switch *entry.Type {
	case TypeWorkday:
		state = StateWorkday
	case TypeRestDay:
		// A rest day on a working weekday is a proper holiday; on Saturday
		// or Sunday it is just the weekend.
		if dateutil.IsWeekend(now) {
			state = StateWeekend
		} else {
			state = StateHoliday
		}
	default:
		state = StateWorkday
		attrs[AttrNote] = "unrecognized type code, defaulting to workday"
		c.logger.Warn("Unrecognized type code",
			zap.String("day", dayKey),
			zap.Int("type", *entry.Type))
	}

	c.logger.Info("Day classified",
		zap.String("date", dateutil.FormatDate(now)),
		zap.String("state", state))

	return Result{State: state, Attributes: attrs}
}

// failureResult maps a fetch failure to a degraded result. Transport and
// timeout failures surface as the error state, bad payloads as unknown.
func failureResult(now time.Time, err error) Result {
	state := StateError

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.Reason {
		case ReasonMalformed, ReasonMissingMonth:
			state = StateUnknown
		}
	}

	return Result{
		State: state,
		Attributes: map[string]interface{}{
			AttrDate:        dateutil.FormatDate(now),
			AttrLastUpdated: dateutil.FormatISO8601(time.Now()),
			AttrError:       err.Error(),
		},
	}
}
