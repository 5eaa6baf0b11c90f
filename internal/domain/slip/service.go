package slip

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/suryacity/hms/internal/domain/admission"
	"github.com/suryacity/hms/internal/domain/billing"
	"github.com/suryacity/hms/internal/domain/patient"
	"github.com/suryacity/hms/internal/domain/visit"
	"github.com/suryacity/hms/internal/platform/apperr"
	"github.com/suryacity/hms/internal/platform/barcode"
	"github.com/suryacity/hms/internal/platform/idgen"
)

type PatientSource interface {
	GetByID(ctx context.Context, id string) (*patient.Patient, error)
}

type VisitSource interface {
	GetByID(ctx context.Context, id string) (*visit.Visit, error)
}

type AdmissionSource interface {
	GetByID(ctx context.Context, id string) (*admission.Admission, error)
}

type ChargeSource interface {
	ListByOwner(ctx context.Context, owner billing.Owner) ([]*billing.Charge, error)
	ListByOwnerAndType(ctx context.Context, owner billing.Owner, t billing.ChargeType) ([]*billing.Charge, error)
}

// BillSource produces the settled discharge bill a DISCHARGE slip snapshots.
type BillSource interface {
	GenerateDischargeBill(ctx context.Context, admissionID string) (*billing.DischargeBill, error)
}

type Service struct {
	repo       Repository
	patients   PatientSource
	visits     VisitSource
	admissions AdmissionSource
	charges    ChargeSource
	bills      BillSource
	ids        *idgen.Generator
	renderer   barcode.Renderer
	hospital   string
	now        func() time.Time
	log        zerolog.Logger
}

func NewService(repo Repository, patients PatientSource, visits VisitSource, admissions AdmissionSource,
	charges ChargeSource, bills BillSource, ids *idgen.Generator, renderer barcode.Renderer,
	hospital string, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		patients:   patients,
		visits:     visits,
		admissions: admissions,
		charges:    charges,
		bills:      bills,
		ids:        ids,
		renderer:   renderer,
		hospital:   hospital,
		now:        time.Now,
		log:        log,
	}
}

// Generate composes and persists a slip for the requested kind. The content
// snapshot and barcode payload are fixed at generation time.
func (s *Service) Generate(ctx context.Context, in GenerateInput, generatedBy string) (*Slip, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	owner, err := billing.OwnerFromIDs(in.VisitID, in.AdmissionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	content := Content{
		HospitalName: s.hospital,
		SlipType:     in.SlipType,
		GeneratedAt:  now,
	}

	var patientID, recordID string
	if visitID, ok := owner.VisitID(); ok {
		v, err := s.visits.GetByID(ctx, visitID)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, apperr.NotFoundf("visit %s not found", visitID)
		}
		patientID, recordID = v.PatientID, v.VisitID
		content.Visit = &VisitBlock{
			VisitID:      v.VisitID,
			DoctorID:     v.DoctorID,
			VisitType:    string(v.VisitType),
			SerialNumber: v.SerialNumber,
			OPDFee:       v.OPDFee,
			PaymentMode:  v.PaymentMode,
			VisitDate:    v.VisitDate,
		}
	} else {
		admissionID, _ := owner.AdmissionID()
		a, err := s.admissions.GetByID(ctx, admissionID)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, apperr.NotFoundf("admission %s not found", admissionID)
		}
		patientID, recordID = a.PatientID, a.AdmissionID
		content.Admission = &AdmissionBlock{
			AdmissionID:   a.AdmissionID,
			BedID:         a.BedID,
			FileCharge:    a.FileCharge,
			AdmissionDate: a.AdmissionDate,
			DischargeDate: a.DischargeDate,
		}
	}

	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFoundf("patient %s not found", patientID)
	}
	content.Patient = PatientBlock{
		PatientID: p.PatientID,
		Name:      p.Name,
		Age:       p.Age,
		Gender:    string(p.Gender),
		Mobile:    p.Mobile,
	}

	switch in.SlipType {
	case TypeOPD:
		charges, err := s.charges.ListByOwnerAndType(ctx, owner, billing.ChargeOPDFee)
		if err != nil {
			return nil, err
		}
		content.Charges = chargeLines(charges)
	case TypeDischarge:
		bill, err := s.bills.GenerateDischargeBill(ctx, recordID)
		if err != nil {
			return nil, err
		}
		content.Charges = flattenBill(bill)
		for _, pay := range bill.Payments {
			content.Payments = append(content.Payments, PaymentLine{
				PaymentType: string(pay.PaymentType),
				Amount:      pay.Amount,
				PaymentMode: pay.PaymentMode,
				PaymentDate: pay.PaymentDate,
			})
		}
		summary := bill.Summary
		content.Summary = &summary
	default:
		ct, _ := chargeTypeFor(in.SlipType)
		charges, err := s.charges.ListByOwnerAndType(ctx, owner, ct)
		if err != nil {
			return nil, err
		}
		if len(charges) == 0 {
			return nil, apperr.Validationf("no %s charges recorded for %s", ct, owner)
		}
		content.Charges = chargeLines(charges)
	}

	data := barcode.Data(patientID, recordID, now)
	content.Barcode = data

	slip := &Slip{
		SlipID:        s.ids.NewID("SLIP"),
		SlipType:      in.SlipType,
		PatientID:     patientID,
		VisitID:       in.VisitID,
		AdmissionID:   in.AdmissionID,
		BarcodeData:   data,
		BarcodeImage:  s.renderer.Render(data),
		Content:       content,
		PrinterFormat: in.PrinterFormat,
		GeneratedBy:   generatedBy,
		CreatedAt:     now,
	}
	if err := s.repo.Create(ctx, slip); err != nil {
		return nil, err
	}
	s.log.Info().Str("slip_id", slip.SlipID).Str("slip_type", string(slip.SlipType)).
		Str("patient_id", patientID).Msg("slip generated")
	return slip, nil
}

// Reprint duplicates a slip verbatim under a new ID. The barcode and content
// are carried over unchanged so the reprint is a faithful copy of what was
// originally handed to the patient.
func (s *Service) Reprint(ctx context.Context, slipID, generatedBy string) (*Slip, error) {
	orig, err := s.repo.GetByID(ctx, slipID)
	if err != nil {
		return nil, err
	}
	if orig == nil {
		return nil, apperr.NotFoundf("slip %s not found", slipID)
	}

	dup := *orig
	dup.SlipID = s.ids.NewID("SLIP")
	dup.IsReprinted = true
	dup.OriginalSlipID = &orig.SlipID
	dup.GeneratedBy = generatedBy
	dup.CreatedAt = s.now()

	if err := s.repo.Create(ctx, &dup); err != nil {
		return nil, err
	}
	s.log.Info().Str("slip_id", dup.SlipID).Str("original_slip_id", orig.SlipID).Msg("slip reprinted")
	return &dup, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Slip, error) {
	sl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sl == nil {
		return nil, apperr.NotFoundf("slip %s not found", id)
	}
	return sl, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Slip, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func chargeLines(charges []*billing.Charge) []ChargeLine {
	out := make([]ChargeLine, 0, len(charges))
	for _, c := range charges {
		out = append(out, ChargeLine{
			ChargeType:  string(c.ChargeType),
			ChargeName:  c.ChargeName,
			Quantity:    c.Quantity,
			Rate:        c.Rate,
			TotalAmount: c.TotalAmount,
		})
	}
	return out
}

// flattenBill lists the grouped bill charges in a fixed type order so the
// printed layout is stable across generations.
var billTypeOrder = []billing.ChargeType{
	billing.ChargeFileCharge,
	billing.ChargeOPDFee,
	billing.ChargeInvestigation,
	billing.ChargeProcedure,
	billing.ChargeService,
	billing.ChargeOT,
	billing.ChargeManual,
}

func flattenBill(bill *billing.DischargeBill) []ChargeLine {
	var out []ChargeLine
	for _, t := range billTypeOrder {
		for _, line := range bill.ChargesByType[t] {
			out = append(out, ChargeLine{
				ChargeType:  string(t),
				ChargeName:  line.ChargeName,
				Quantity:    line.Quantity,
				Rate:        line.Rate,
				TotalAmount: line.TotalAmount,
			})
		}
	}
	return out
}
