package lab

import (
	"context"
	"time"

	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/internal/platform/fault"
	"github.com/clinic/clinic/internal/platform/sequence"
)

type Service struct {
	tests   TestRepository
	reports ReportRepository
	results ResultRepository
	alloc   sequence.Allocator
	run     db.Runner
	now     func() time.Time
}

func NewService(tests TestRepository, reports ReportRepository, results ResultRepository,
	alloc sequence.Allocator, run db.Runner) *Service {
	return &Service{
		tests:   tests,
		reports: reports,
		results: results,
		alloc:   alloc,
		run:     run,
		now:     time.Now,
	}
}

// ConfirmTest creates a lab test and its linked report as a pair. Both
// allocations and both inserts share one transaction, so a failure of the
// report insert rolls back the test insert. Returns the new report's
// display identifier.
func (s *Service) ConfirmTest(ctx context.Context, req *ConfirmRequest) (string, error) {
	if req.PatientID == "" {
		return "", fault.Invalid("patient_id is required")
	}
	if req.Date == "" || req.Time == "" {
		return "", fault.Invalid("Date and time are required")
	}
	if !ValidTestType(req.TestType) {
		return "", fault.Invalid("Invalid test type")
	}
	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return "", fault.Invalid("invalid date: %s", req.Date)
	}

	var reportID string
	confirm := func(ctx context.Context) error {
		testID, err := s.alloc.Next(ctx, sequence.LabTest)
		if err != nil {
			return err
		}
		if err := s.tests.Create(ctx, &LabTest{
			LabTestID: testID,
			PatientID: req.PatientID,
			TestType:  req.TestType,
			Date:      date,
			Time:      req.Time,
		}); err != nil {
			return err
		}

		reportID, err = s.alloc.Next(ctx, sequence.LabReport)
		if err != nil {
			return err
		}
		return s.reports.Create(ctx, &LabReport{
			LabReportID: reportID,
			LabTestID:   testID,
			PatientID:   req.PatientID,
			TestType:    req.TestType,
			Readiness:   ReadinessInProgress,
		})
	}

	err = s.run(ctx, confirm)
	if db.IsUniqueViolation(err) {
		err = s.run(ctx, confirm)
	}
	if err != nil {
		return "", fault.Storage(err)
	}
	return reportID, nil
}

// BloodResultRequest carries the blood panel fields.
type BloodResultRequest struct {
	Gender         string  `json:"gender"`
	DOB            string  `json:"dob"`
	Age            int     `json:"age"`
	BloodType      string  `json:"bloodType"`
	Hemoglobin     float64 `json:"hemoglobin"`
	PlateletsCount float64 `json:"plateletsCount"`
}

// DiabeticResultRequest carries the diabetic panel fields.
type DiabeticResultRequest struct {
	Gender              string  `json:"gender"`
	DOB                 string  `json:"dob"`
	Age                 int     `json:"age"`
	BloodType           string  `json:"bloodType"`
	HbA1c               float64 `json:"HbA1c"`
	EstimatedAvgGlucose float64 `json:"estimatedAvgGlucose"`
}

// GeneticResultRequest carries the genetic panel fields.
type GeneticResultRequest struct {
	Gender             string `json:"gender"`
	DOB                string `json:"dob"`
	Age                int    `json:"age"`
	BloodType          string `json:"bloodType"`
	Gene               string `json:"gene"`
	DNADescription     string `json:"DNADescription"`
	ProteinDescription string `json:"ProteinDescription"`
}

// AddBloodResult writes a blood result and flips the parent report to
// ready in one transaction. If the report does not exist the whole
// transaction rolls back, so no orphaned result row survives.
func (s *Service) AddBloodResult(ctx context.Context, labReportID string, req *BloodResultRequest) (string, error) {
	return s.addResult(ctx, labReportID, sequence.BloodResult, func(ctx context.Context, resultID string) error {
		return s.results.CreateBlood(ctx, &BloodResult{
			ResultID:       resultID,
			LabReportID:    labReportID,
			Gender:         req.Gender,
			DOB:            req.DOB,
			Age:            req.Age,
			BloodType:      req.BloodType,
			Hemoglobin:     req.Hemoglobin,
			PlateletsCount: req.PlateletsCount,
		})
	})
}

// AddDiabeticResult writes a diabetic result and flips the parent report
// to ready in one transaction.
func (s *Service) AddDiabeticResult(ctx context.Context, labReportID string, req *DiabeticResultRequest) (string, error) {
	return s.addResult(ctx, labReportID, sequence.DiabeticResult, func(ctx context.Context, resultID string) error {
		return s.results.CreateDiabetic(ctx, &DiabeticResult{
			ResultID:            resultID,
			LabReportID:         labReportID,
			Gender:              req.Gender,
			DOB:                 req.DOB,
			Age:                 req.Age,
			BloodType:           req.BloodType,
			HbA1c:               req.HbA1c,
			EstimatedAvgGlucose: req.EstimatedAvgGlucose,
		})
	})
}

// AddGeneticResult writes a genetic result and flips the parent report to
// ready in one transaction.
func (s *Service) AddGeneticResult(ctx context.Context, labReportID string, req *GeneticResultRequest) (string, error) {
	return s.addResult(ctx, labReportID, sequence.GeneticResult, func(ctx context.Context, resultID string) error {
		return s.results.CreateGenetic(ctx, &GeneticResult{
			ResultID:           resultID,
			LabReportID:        labReportID,
			Gender:             req.Gender,
			DOB:                req.DOB,
			Age:                req.Age,
			BloodType:          req.BloodType,
			Gene:               req.Gene,
			DNADescription:     req.DNADescription,
			ProteinDescription: req.ProteinDescription,
		})
	})
}

func (s *Service) addResult(ctx context.Context, labReportID string, ns sequence.Namespace,
	create func(ctx context.Context, resultID string) error) (string, error) {

	var resultID string
	add := func(ctx context.Context) error {
		var err error
		resultID, err = s.alloc.Next(ctx, ns)
		if err != nil {
			return err
		}
		if err := create(ctx, resultID); err != nil {
			return err
		}
		n, err := s.reports.MarkReady(ctx, labReportID, resultID, s.now())
		if err != nil {
			return err
		}
		if n == 0 {
			return fault.NotFound("Lab report not found")
		}
		return nil
	}

	err := s.run(ctx, add)
	if db.IsUniqueViolation(err) {
		err = s.run(ctx, add)
	}
	if err != nil {
		return "", fault.Storage(err)
	}
	return resultID, nil
}

// Result projects the typed result row for a report. The test type must be
// one of the supported set; anything else is rejected before any storage
// call. A missing row yields (nil, nil): the caller decides how to present
// the absence.
func (s *Service) Result(ctx context.Context, labReportID, testType string) (interface{}, error) {
	if !ValidTestType(testType) {
		return nil, fault.Invalid("Invalid test type")
	}

	var (
		result interface{}
		err    error
	)
	switch testType {
	case TestTypeBlood:
		var br *BloodResult
		br, err = s.results.GetBlood(ctx, labReportID)
		if br != nil {
			result = br
		}
	case TestTypeDiabetic:
		var dr *DiabeticResult
		dr, err = s.results.GetDiabetic(ctx, labReportID)
		if dr != nil {
			result = dr
		}
	case TestTypeGenetic:
		var gr *GeneticResult
		gr, err = s.results.GetGenetic(ctx, labReportID)
		if gr != nil {
			result = gr
		}
	}
	if err != nil {
		return nil, fault.Storage(err)
	}
	return result, nil
}

// RescheduleTest replaces the test's date and time. The linked report's
// readiness is untouched.
func (s *Service) RescheduleTest(ctx context.Context, labTestID string, req *RescheduleRequest) error {
	if req.Date == "" || req.Time == "" {
		return fault.Invalid("Date and time are required")
	}
	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return fault.Invalid("invalid date: %s", req.Date)
	}

	n, err := s.tests.Reschedule(ctx, labTestID, date, req.Time)
	if err != nil {
		return fault.Storage(err)
	}
	if n == 0 {
		return fault.NotFound("Lab test not found")
	}
	return nil
}

func (s *Service) DeleteTest(ctx context.Context, labTestID string) error {
	n, err := s.tests.Delete(ctx, labTestID)
	if err != nil {
		return fault.Storage(err)
	}
	if n == 0 {
		return fault.NotFound("Lab test not found")
	}
	return nil
}

func (s *Service) PatientTests(ctx context.Context, patientID string, limit, offset int) ([]*PatientTest, int, error) {
	items, total, err := s.tests.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, 0, fault.Storage(err)
	}
	return items, total, nil
}

// PatientReports groups a patient's reports by readiness.
type PatientReports struct {
	Ready      []*PatientReport `json:"readyReports"`
	InProgress []*PatientReport `json:"inProgressReports"`
}

func (s *Service) ReportsByPatient(ctx context.Context, patientID string) (*PatientReports, error) {
	ready, err := s.reports.ListReadyByPatient(ctx, patientID)
	if err != nil {
		return nil, fault.Storage(err)
	}
	inProgress, err := s.reports.ListInProgressByPatient(ctx, patientID)
	if err != nil {
		return nil, fault.Storage(err)
	}
	return &PatientReports{Ready: ready, InProgress: inProgress}, nil
}

func (s *Service) StaffReports(ctx context.Context, labStaffID string, limit, offset int) ([]*StaffReport, int, error) {
	items, total, err := s.reports.ListByStaff(ctx, labStaffID, limit, offset)
	if err != nil {
		return nil, 0, fault.Storage(err)
	}
	return items, total, nil
}
