package reports

import (
	"context"
	"math"
	"time"

	"github.com/suryacity/hms/internal/domain/admission"
)

type OccupantBlock struct {
	PatientID     string    `json:"patient_id"`
	Name          string    `json:"name"`
	Age           int       `json:"age"`
	Gender        string    `json:"gender"`
	AdmissionID   string    `json:"admission_id"`
	AdmissionDate time.Time `json:"admission_date"`
	DaysAdmitted  int       `json:"days_admitted"`
}

type BedLine struct {
	Bed      *admission.Bed `json:"bed"`
	Occupant *OccupantBlock `json:"occupant,omitempty"`
}

type IPDOccupancy struct {
	ReportDate    time.Time `json:"report_date"`
	TotalBeds     int       `json:"total_beds"`
	Occupied      int       `json:"occupied"`
	Available     int       `json:"available"`
	OccupancyRate float64   `json:"occupancy_rate"`
	Beds          []BedLine `json:"beds"`
}

// IPDOccupancy maps every bed to its current occupant, if any. The occupancy
// rate is a percentage rounded to two places.
func (s *Service) IPDOccupancy(ctx context.Context) (*IPDOccupancy, error) {
	beds, err := drain(func(limit, offset int) ([]*admission.Bed, int, error) {
		return s.beds.List(ctx, "", limit, offset)
	})
	if err != nil {
		return nil, err
	}
	active, err := drain(func(limit, offset int) ([]*admission.Admission, int, error) {
		return s.admissions.List(ctx, admission.StatusAdmitted, limit, offset)
	})
	if err != nil {
		return nil, err
	}

	byBed := make(map[string]*admission.Admission, len(active))
	for _, a := range active {
		byBed[a.BedID] = a
	}

	now := s.now()
	report := &IPDOccupancy{ReportDate: now, TotalBeds: len(beds)}
	for _, b := range beds {
		line := BedLine{Bed: b}
		if a, ok := byBed[b.BedID]; ok {
			occ := &OccupantBlock{
				PatientID:     a.PatientID,
				AdmissionID:   a.AdmissionID,
				AdmissionDate: a.AdmissionDate,
				DaysAdmitted:  int(now.Sub(a.AdmissionDate).Hours()/24) + 1,
			}
			p, err := s.patients.GetByID(ctx, a.PatientID)
			if err != nil {
				return nil, err
			}
			if p != nil {
				occ.Name = p.Name
				occ.Age = p.Age
				occ.Gender = string(p.Gender)
			}
			line.Occupant = occ
		}
		switch b.Status {
		case admission.BedOccupied:
			report.Occupied++
		case admission.BedAvailable:
			report.Available++
		}
		report.Beds = append(report.Beds, line)
	}

	if report.TotalBeds > 0 {
		report.OccupancyRate = math.Round(float64(report.Occupied)/float64(report.TotalBeds)*10000) / 100
	}
	return report, nil
}
