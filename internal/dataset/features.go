package dataset

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fareflow/fareflow/internal/common"
	"github.com/fareflow/fareflow/internal/model"
	"github.com/fareflow/fareflow/internal/service"
)

// Deriver maps joined records to feature-ready training rows.
type Deriver struct {
	// Credit supplies the credit signal for each row. Required.
	Credit service.CreditScoreProvider

	// IncludeZeroDuration keeps rentals whose whole-day duration is zero.
	// Their price label is zero, which drags the fit toward degenerate
	// samples, so they are excluded by default. Negative durations violate
	// the dropoff > pickup invariant and are always dropped.
	IncludeZeroDuration bool

	// Progress, when set, is called once per processed record.
	Progress func()
}

// Derive builds the training frame from joined records. Rows missing a
// categorical value (brand, model, pickup city) are dropped; missing numeric
// values are imputed with the training-set mean of the surviving rows.
func (d *Deriver) Derive(records []model.JoinedRecord) ([]model.TrainingRow, error) {
	if d.Credit == nil {
		return nil, fmt.Errorf("%w: credit score provider is required", common.ErrInvalidConfig)
	}

	rows := make([]model.TrainingRow, 0, len(records))

	for _, rec := range records {
		if d.Progress != nil {
			d.Progress()
		}

		// Categorical missing values drop the whole row.
		if strings.TrimSpace(rec.Brand) == "" ||
			strings.TrimSpace(rec.Model) == "" ||
			strings.TrimSpace(rec.PickupCity) == "" {
			continue
		}

		days := rec.DurationDays()
		if days < 0 {
			continue
		}
		if days == 0 && !d.IncludeZeroDuration {
			continue
		}

		seats := math.NaN()
		if rec.Seats != nil {
			seats = float64(*rec.Seats)
		}

		row := model.TrainingRow{
			FeatureVector: model.FeatureVector{
				Brand:        rec.Brand,
				Model:        rec.Model,
				PickupCity:   rec.PickupCity,
				Seats:        seats,
				PickupDow:    float64(mondayIndexedWeekday(rec.PickupTime)),
				PickupMonth:  float64(rec.PickupTime.Month()),
				DropoffDow:   float64(mondayIndexedWeekday(rec.DropoffTime)),
				DropoffMonth: float64(rec.DropoffTime.Month()),
				CreditScore:  d.Credit.Score(rec),
			},
			Price: (rec.RentalPricePerDay + rec.InsurancePlanPricePerDay) * float64(days),
		}

		rows = append(rows, row)
	}

	imputeMeans(rows)

	return rows, nil
}

// mondayIndexedWeekday maps time.Weekday (Sunday=0) onto the model's
// convention of Monday=0 .. Sunday=6.
func mondayIndexedWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// imputeMeans replaces NaN numeric values with the column mean computed from
// the surviving rows. Means are per training run and are not persisted: the
// prediction contract requires complete feature vectors.
func imputeMeans(rows []model.TrainingRow) {
	imputeColumn(rows, func(r *model.TrainingRow) *float64 { return &r.Seats })
	imputeColumn(rows, func(r *model.TrainingRow) *float64 { return &r.CreditScore })
	imputeColumn(rows, func(r *model.TrainingRow) *float64 { return &r.Price })
}

func imputeColumn(rows []model.TrainingRow, field func(*model.TrainingRow) *float64) {
	var sum float64
	var n int
	for i := range rows {
		v := *field(&rows[i])
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return
	}

	mean := sum / float64(n)
	for i := range rows {
		f := field(&rows[i])
		if math.IsNaN(*f) {
			*f = mean
		}
	}
}
