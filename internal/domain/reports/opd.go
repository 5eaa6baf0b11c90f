package reports

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/domain/visit"
	"github.com/suryacity/hms/internal/platform/apperr"
)

// DoctorLine is the per-doctor breakdown shared by the OPD day book and the
// revenue report.
type DoctorLine struct {
	DoctorID         string          `json:"doctor_id"`
	DoctorName       string          `json:"doctor_name"`
	Department       string          `json:"department"`
	TotalPatients    int             `json:"total_patients"`
	NewPatients      int             `json:"new_patients"`
	FollowupPatients int             `json:"followup_patients"`
	Collection       decimal.Decimal `json:"collection"`
}

type DailyOPD struct {
	Date             string          `json:"date"`
	TotalPatients    int             `json:"total_patients"`
	NewPatients      int             `json:"new_patients"`
	FollowupPatients int             `json:"followup_patients"`
	TotalCollection  decimal.Decimal `json:"total_collection"`
	ByDoctor         []DoctorLine    `json:"by_doctor"`
}

// DailyOPD summarizes one day at the OPD desk: patient counts by visit type
// and the frozen fees collected, overall and per doctor.
func (s *Service) DailyOPD(ctx context.Context, day time.Time, doctorID string) (*DailyOPD, error) {
	visits, err := s.visitsOn(ctx, day)
	if err != nil {
		return nil, err
	}
	if doctorID != "" {
		visits = filterByDoctor(visits, doctorID)
	}

	report := &DailyOPD{Date: day.Format("2006-01-02"), TotalCollection: decimal.Zero}
	for _, v := range visits {
		report.TotalPatients++
		if v.VisitType == visit.TypeNew {
			report.NewPatients++
		} else {
			report.FollowupPatients++
		}
		report.TotalCollection = report.TotalCollection.Add(v.OPDFee)
	}
	report.ByDoctor, err = s.groupByDoctor(ctx, visits)
	if err != nil {
		return nil, err
	}
	return report, nil
}

type DoctorRevenue struct {
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	ByDoctor     []DoctorLine    `json:"by_doctor"`
}

// maxRevenueRangeDays keeps the day-by-day scan bounded.
const maxRevenueRangeDays = 366

// DoctorRevenue totals OPD fees per doctor over a date range, highest
// earner first.
func (s *Service) DoctorRevenue(ctx context.Context, start, end time.Time, doctorID string) (*DoctorRevenue, error) {
	if end.Before(start) {
		return nil, apperr.Validationf("end_date must not be before start_date")
	}
	if end.Sub(start) > maxRevenueRangeDays*24*time.Hour {
		return nil, apperr.Validationf("date range exceeds %d days", maxRevenueRangeDays)
	}

	var all []*visit.Visit
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		visits, err := s.visitsOn(ctx, day)
		if err != nil {
			return nil, err
		}
		all = append(all, visits...)
	}
	if doctorID != "" {
		all = filterByDoctor(all, doctorID)
	}

	lines, err := s.groupByDoctor(ctx, all)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Collection.GreaterThan(lines[j].Collection)
	})

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Collection)
	}
	return &DoctorRevenue{
		StartDate:    start.Format("2006-01-02"),
		EndDate:      end.Format("2006-01-02"),
		TotalRevenue: total,
		ByDoctor:     lines,
	}, nil
}

func (s *Service) visitsOn(ctx context.Context, day time.Time) ([]*visit.Visit, error) {
	return drain(func(limit, offset int) ([]*visit.Visit, int, error) {
		return s.visits.ListByDate(ctx, day, limit, offset)
	})
}

func filterByDoctor(visits []*visit.Visit, doctorID string) []*visit.Visit {
	var out []*visit.Visit
	for _, v := range visits {
		if v.DoctorID == doctorID {
			out = append(out, v)
		}
	}
	return out
}

// groupByDoctor keeps first-seen order; callers re-sort as needed.
func (s *Service) groupByDoctor(ctx context.Context, visits []*visit.Visit) ([]DoctorLine, error) {
	byID := map[string]*DoctorLine{}
	var order []string
	for _, v := range visits {
		line, seen := byID[v.DoctorID]
		if !seen {
			line = &DoctorLine{DoctorID: v.DoctorID, Collection: decimal.Zero}
			d, err := s.doctors.GetByID(ctx, v.DoctorID)
			if err != nil {
				return nil, err
			}
			if d != nil {
				line.DoctorName = d.Name
				line.Department = d.Department
			}
			byID[v.DoctorID] = line
			order = append(order, v.DoctorID)
		}
		line.TotalPatients++
		if v.VisitType == visit.TypeNew {
			line.NewPatients++
		} else {
			line.FollowupPatients++
		}
		line.Collection = line.Collection.Add(v.OPDFee)
	}

	out := make([]DoctorLine, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, nil
}
