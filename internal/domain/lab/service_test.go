package lab

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/internal/platform/fault"
	"github.com/clinic/clinic/internal/platform/sequence"
)

type mockTestRepo struct {
	tests      map[string]*LabTest
	createErrs []error
}

func (m *mockTestRepo) Create(ctx context.Context, t *LabTest) error {
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, exists := m.tests[t.LabTestID]; exists {
		return &pgconn.PgError{Code: "23505"}
	}
	cp := *t
	m.tests[t.LabTestID] = &cp
	return nil
}

func (m *mockTestRepo) Reschedule(ctx context.Context, labTestID string, date time.Time, timeOfDay string) (int64, error) {
	t, ok := m.tests[labTestID]
	if !ok {
		return 0, nil
	}
	t.Date = date
	t.Time = timeOfDay
	return 1, nil
}

func (m *mockTestRepo) Delete(ctx context.Context, labTestID string) (int64, error) {
	if _, ok := m.tests[labTestID]; !ok {
		return 0, nil
	}
	delete(m.tests, labTestID)
	return 1, nil
}

func (m *mockTestRepo) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*PatientTest, int, error) {
	var items []*PatientTest
	for _, t := range m.tests {
		if t.PatientID == patientID {
			items = append(items, &PatientTest{LabTestID: t.LabTestID, TestType: t.TestType, Date: t.Date, Time: t.Time})
		}
	}
	return items, len(items), nil
}

type mockReportRepo struct {
	reports    map[string]*LabReport
	createErrs []error
}

func (m *mockReportRepo) Create(ctx context.Context, r *LabReport) error {
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		if err != nil {
			return err
		}
	}
	cp := *r
	m.reports[r.LabReportID] = &cp
	return nil
}

func (m *mockReportRepo) MarkReady(ctx context.Context, labReportID, resultID string, resultDate time.Time) (int64, error) {
	r, ok := m.reports[labReportID]
	if !ok {
		return 0, nil
	}
	r.Readiness = ReadinessReady
	r.ResultID = &resultID
	r.ResultDate = &resultDate
	return 1, nil
}

func (m *mockReportRepo) ListReadyByPatient(ctx context.Context, patientID string) ([]*PatientReport, error) {
	return m.list(patientID, ReadinessReady), nil
}

func (m *mockReportRepo) ListInProgressByPatient(ctx context.Context, patientID string) ([]*PatientReport, error) {
	return m.list(patientID, ReadinessInProgress), nil
}

func (m *mockReportRepo) list(patientID, readiness string) []*PatientReport {
	var items []*PatientReport
	for _, r := range m.reports {
		if r.PatientID == patientID && r.Readiness == readiness {
			items = append(items, &PatientReport{LabReportID: r.LabReportID, TestType: r.TestType, ResultDate: r.ResultDate})
		}
	}
	return items
}

func (m *mockReportRepo) ListByStaff(ctx context.Context, labStaffID string, limit, offset int) ([]*StaffReport, int, error) {
	var items []*StaffReport
	for _, r := range m.reports {
		if r.LabStaffID != nil && *r.LabStaffID == labStaffID {
			items = append(items, &StaffReport{LabReportID: r.LabReportID, PatientID: r.PatientID, TestType: r.TestType})
		}
	}
	return items, len(items), nil
}

type mockResultRepo struct {
	blood    map[string]*BloodResult    // keyed by labreport_id
	diabetic map[string]*DiabeticResult
	genetic  map[string]*GeneticResult
	getCalls int
}

func (m *mockResultRepo) CreateBlood(ctx context.Context, r *BloodResult) error {
	cp := *r
	m.blood[r.LabReportID] = &cp
	return nil
}

func (m *mockResultRepo) CreateDiabetic(ctx context.Context, r *DiabeticResult) error {
	cp := *r
	m.diabetic[r.LabReportID] = &cp
	return nil
}

func (m *mockResultRepo) CreateGenetic(ctx context.Context, r *GeneticResult) error {
	cp := *r
	m.genetic[r.LabReportID] = &cp
	return nil
}

func (m *mockResultRepo) GetBlood(ctx context.Context, labReportID string) (*BloodResult, error) {
	m.getCalls++
	return m.blood[labReportID], nil
}

func (m *mockResultRepo) GetDiabetic(ctx context.Context, labReportID string) (*DiabeticResult, error) {
	m.getCalls++
	return m.diabetic[labReportID], nil
}

func (m *mockResultRepo) GetGenetic(ctx context.Context, labReportID string) (*GeneticResult, error) {
	m.getCalls++
	return m.genetic[labReportID], nil
}

// labFixture wires the three mock repos behind a runner that restores
// state when the transaction function fails, mirroring a rollback.
type labFixture struct {
	tests   *mockTestRepo
	reports *mockReportRepo
	results *mockResultRepo
	svc     *Service
	nowAt   time.Time
}

func newLabFixture() *labFixture {
	f := &labFixture{
		tests:   &mockTestRepo{tests: make(map[string]*LabTest)},
		reports: &mockReportRepo{reports: make(map[string]*LabReport)},
		results: &mockResultRepo{blood: map[string]*BloodResult{}, diabetic: map[string]*DiabeticResult{}, genetic: map[string]*GeneticResult{}},
		nowAt:   time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.tests, f.reports, f.results, &labAllocator{f: f}, f.rollbackRunner)
	f.svc.now = func() time.Time { return f.nowAt }
	return f
}

func (f *labFixture) rollbackRunner(ctx context.Context, fn db.TxFunc) error {
	testsSnap := make(map[string]*LabTest, len(f.tests.tests))
	for k, v := range f.tests.tests {
		cp := *v
		testsSnap[k] = &cp
	}
	reportsSnap := make(map[string]*LabReport, len(f.reports.reports))
	for k, v := range f.reports.reports {
		cp := *v
		reportsSnap[k] = &cp
	}
	bloodSnap := make(map[string]*BloodResult, len(f.results.blood))
	for k, v := range f.results.blood {
		cp := *v
		bloodSnap[k] = &cp
	}

	if err := fn(ctx); err != nil {
		f.tests.tests = testsSnap
		f.reports.reports = reportsSnap
		f.results.blood = bloodSnap
		return err
	}
	return nil
}

// labAllocator derives the next ID from the maximum suffix stored in the
// fixture's maps, the way the real allocator scans its table.
type labAllocator struct {
	f *labFixture
}

func (a *labAllocator) Next(ctx context.Context, ns sequence.Namespace) (string, error) {
	var ids []string
	switch ns {
	case sequence.LabTest:
		for id := range a.f.tests.tests {
			ids = append(ids, id)
		}
	case sequence.LabReport:
		for id := range a.f.reports.reports {
			ids = append(ids, id)
		}
	case sequence.BloodResult:
		for _, r := range a.f.results.blood {
			ids = append(ids, r.ResultID)
		}
	case sequence.DiabeticResult:
		for _, r := range a.f.results.diabetic {
			ids = append(ids, r.ResultID)
		}
	case sequence.GeneticResult:
		for _, r := range a.f.results.genetic {
			ids = append(ids, r.ResultID)
		}
	}

	max := 0
	prefix := ns.Prefix()
	for _, id := range ids {
		n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
		if err == nil && n > max {
			max = n
		}
	}
	return sequence.FormatID(ns, max+1), nil
}

func validConfirm() *ConfirmRequest {
	return &ConfirmRequest{
		PatientID: "P1",
		TestType:  TestTypeBlood,
		Date:      "2026-09-14",
		Time:      "11:00",
	}
}

func TestConfirmTestCreatesLinkedPair(t *testing.T) {
	f := newLabFixture()

	reportID, err := f.svc.ConfirmTest(context.Background(), validConfirm())
	if err != nil {
		t.Fatalf("ConfirmTest() error = %v", err)
	}
	if reportID != "LR1" {
		t.Errorf("report id = %q, want LR1", reportID)
	}

	test := f.tests.tests["L1"]
	if test == nil {
		t.Fatal("lab test not persisted")
	}
	report := f.reports.reports["LR1"]
	if report == nil {
		t.Fatal("lab report not persisted")
	}
	if report.LabTestID != "L1" {
		t.Errorf("report linked test = %q, want L1", report.LabTestID)
	}
	if report.Readiness != ReadinessInProgress {
		t.Errorf("readiness = %q, want %q", report.Readiness, ReadinessInProgress)
	}
}

func TestConfirmTestAllocatesNextIDs(t *testing.T) {
	f := newLabFixture()
	f.tests.tests["L5"] = &LabTest{LabTestID: "L5"}
	f.reports.reports["LR5"] = &LabReport{LabReportID: "LR5"}

	reportID, err := f.svc.ConfirmTest(context.Background(), validConfirm())
	if err != nil {
		t.Fatalf("ConfirmTest() error = %v", err)
	}
	if reportID != "LR6" {
		t.Errorf("report id = %q, want LR6", reportID)
	}
	if _, ok := f.tests.tests["L6"]; !ok {
		t.Error("lab test L6 not persisted")
	}
}

func TestConfirmTestRollsBackOnReportFailure(t *testing.T) {
	f := newLabFixture()
	f.reports.createErrs = []error{errors.New("insert failed")}

	_, err := f.svc.ConfirmTest(context.Background(), validConfirm())
	if !fault.IsStorage(err) {
		t.Fatalf("ConfirmTest() error = %v, want storage fault", err)
	}
	if len(f.tests.tests) != 0 {
		t.Error("lab test row survived a failed report insert")
	}
}

func TestConfirmTestRetriesOnUniqueViolation(t *testing.T) {
	f := newLabFixture()
	f.tests.createErrs = []error{&pgconn.PgError{Code: "23505"}}

	reportID, err := f.svc.ConfirmTest(context.Background(), validConfirm())
	if err != nil {
		t.Fatalf("ConfirmTest() error = %v, want retried success", err)
	}
	if f.reports.reports[reportID] == nil {
		t.Errorf("report %q not persisted after retry", reportID)
	}
}

func TestConfirmTestValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *ConfirmRequest
		want string
	}{
		{"missing patient", &ConfirmRequest{TestType: TestTypeBlood, Date: "2026-09-14", Time: "11:00"}, "patient_id is required"},
		{"missing time", &ConfirmRequest{PatientID: "P1", TestType: TestTypeBlood, Date: "2026-09-14"}, "Date and time are required"},
		{"bad test type", &ConfirmRequest{PatientID: "P1", TestType: "Urine Test", Date: "2026-09-14", Time: "11:00"}, "Invalid test type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLabFixture()

			_, err := f.svc.ConfirmTest(context.Background(), tt.req)
			if !fault.IsValidation(err) {
				t.Fatalf("ConfirmTest() error = %v, want validation fault", err)
			}
			var fe *fault.Error
			if errors.As(err, &fe) && fe.Msg != tt.want {
				t.Errorf("message = %q, want %q", fe.Msg, tt.want)
			}
		})
	}
}

func TestAddBloodResultMarksReportReady(t *testing.T) {
	f := newLabFixture()
	f.reports.reports["LR1"] = &LabReport{LabReportID: "LR1", PatientID: "P1", TestType: TestTypeBlood, Readiness: ReadinessInProgress}

	resultID, err := f.svc.AddBloodResult(context.Background(), "LR1", &BloodResultRequest{
		Gender: "Male", DOB: "1990-01-01", Age: 36, BloodType: "O+",
		Hemoglobin: 14.5, PlateletsCount: 250000,
	})
	if err != nil {
		t.Fatalf("AddBloodResult() error = %v", err)
	}
	if resultID != "B1" {
		t.Errorf("result id = %q, want B1", resultID)
	}

	report := f.reports.reports["LR1"]
	if report.Readiness != ReadinessReady {
		t.Errorf("readiness = %q, want %q", report.Readiness, ReadinessReady)
	}
	if report.ResultID == nil || *report.ResultID != "B1" {
		t.Errorf("report result id = %v, want B1", report.ResultID)
	}
	if report.ResultDate == nil || !report.ResultDate.Equal(f.nowAt) {
		t.Errorf("result date = %v, want %v", report.ResultDate, f.nowAt)
	}
}

func TestAddResultMissingReportRollsBack(t *testing.T) {
	f := newLabFixture()

	_, err := f.svc.AddBloodResult(context.Background(), "LR99", &BloodResultRequest{Gender: "Male"})
	if !fault.IsNotFound(err) {
		t.Fatalf("AddBloodResult() error = %v, want not-found fault", err)
	}
	var fe *fault.Error
	if errors.As(err, &fe) && fe.Msg != "Lab report not found" {
		t.Errorf("message = %q, want %q", fe.Msg, "Lab report not found")
	}
	if len(f.results.blood) != 0 {
		t.Error("result row survived a missing-report rollback")
	}
}

func TestAddDiabeticAndGeneticResults(t *testing.T) {
	f := newLabFixture()
	f.reports.reports["LR2"] = &LabReport{LabReportID: "LR2", Readiness: ReadinessInProgress}
	f.reports.reports["LR3"] = &LabReport{LabReportID: "LR3", Readiness: ReadinessInProgress}

	id, err := f.svc.AddDiabeticResult(context.Background(), "LR2", &DiabeticResultRequest{HbA1c: 5.5, EstimatedAvgGlucose: 110})
	if err != nil || id != "D1" {
		t.Errorf("AddDiabeticResult() = %q, %v, want D1, nil", id, err)
	}

	id, err = f.svc.AddGeneticResult(context.Background(), "LR3", &GeneticResultRequest{Gene: "BRCA1"})
	if err != nil || id != "G1" {
		t.Errorf("AddGeneticResult() = %q, %v, want G1, nil", id, err)
	}
}

func TestResultInvalidTypeSkipsStorage(t *testing.T) {
	f := newLabFixture()

	_, err := f.svc.Result(context.Background(), "LR1", "Invalid Test")
	if !fault.IsValidation(err) {
		t.Fatalf("Result() error = %v, want validation fault", err)
	}
	var fe *fault.Error
	if errors.As(err, &fe) && fe.Msg != "Invalid test type" {
		t.Errorf("message = %q, want %q", fe.Msg, "Invalid test type")
	}
	if f.results.getCalls != 0 {
		t.Errorf("storage calls = %d, want 0", f.results.getCalls)
	}
}

func TestResultProjection(t *testing.T) {
	f := newLabFixture()
	f.results.blood["LR1"] = &BloodResult{ResultID: "B1", LabReportID: "LR1", Hemoglobin: 14.5}
	f.results.diabetic["LR2"] = &DiabeticResult{ResultID: "D1", LabReportID: "LR2", HbA1c: 5.5}
	f.results.genetic["LR3"] = &GeneticResult{ResultID: "G1", LabReportID: "LR3", Gene: "BRCA1"}

	got, err := f.svc.Result(context.Background(), "LR1", TestTypeBlood)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	br, ok := got.(*BloodResult)
	if !ok || br.ResultID != "B1" {
		t.Errorf("blood projection = %#v, want B1", got)
	}

	got, err = f.svc.Result(context.Background(), "LR2", TestTypeDiabetic)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if dr, ok := got.(*DiabeticResult); !ok || dr.ResultID != "D1" {
		t.Errorf("diabetic projection = %#v, want D1", got)
	}

	got, err = f.svc.Result(context.Background(), "LR3", TestTypeGenetic)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if gr, ok := got.(*GeneticResult); !ok || gr.ResultID != "G1" {
		t.Errorf("genetic projection = %#v, want G1", got)
	}
}

func TestResultNoMatchReturnsNil(t *testing.T) {
	f := newLabFixture()

	got, err := f.svc.Result(context.Background(), "LR999", TestTypeBlood)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if got != nil {
		t.Errorf("projection = %#v, want nil", got)
	}
}

func TestRescheduleTestKeepsReadiness(t *testing.T) {
	f := newLabFixture()
	f.tests.tests["L1"] = &LabTest{LabTestID: "L1"}
	f.reports.reports["LR1"] = &LabReport{LabReportID: "LR1", LabTestID: "L1", Readiness: ReadinessInProgress}

	err := f.svc.RescheduleTest(context.Background(), "L1", &RescheduleRequest{Date: "2026-09-20", Time: "15:00"})
	if err != nil {
		t.Fatalf("RescheduleTest() error = %v", err)
	}
	if f.tests.tests["L1"].Time != "15:00" {
		t.Errorf("time = %q, want 15:00", f.tests.tests["L1"].Time)
	}
	if f.reports.reports["LR1"].Readiness != ReadinessInProgress {
		t.Error("rescheduling must not change report readiness")
	}
}

func TestRescheduleTestRequiresDateAndTime(t *testing.T) {
	f := newLabFixture()

	err := f.svc.RescheduleTest(context.Background(), "L1", &RescheduleRequest{Date: "2026-09-20"})
	if !fault.IsValidation(err) {
		t.Errorf("RescheduleTest() error = %v, want validation fault", err)
	}
}

func TestDeleteTestNotFound(t *testing.T) {
	f := newLabFixture()

	err := f.svc.DeleteTest(context.Background(), "L999")
	if !fault.IsNotFound(err) {
		t.Fatalf("DeleteTest() error = %v, want not-found fault", err)
	}
	var fe *fault.Error
	if errors.As(err, &fe) && fe.Msg != "Lab test not found" {
		t.Errorf("message = %q, want %q", fe.Msg, "Lab test not found")
	}
}

func TestReportsByPatientSplitsByReadiness(t *testing.T) {
	f := newLabFixture()
	f.reports.reports["LR1"] = &LabReport{LabReportID: "LR1", PatientID: "P1", TestType: TestTypeBlood, Readiness: ReadinessReady}
	f.reports.reports["LR2"] = &LabReport{LabReportID: "LR2", PatientID: "P1", TestType: TestTypeDiabetic, Readiness: ReadinessInProgress}
	f.reports.reports["LR3"] = &LabReport{LabReportID: "LR3", PatientID: "P2", TestType: TestTypeBlood, Readiness: ReadinessReady}

	got, err := f.svc.ReportsByPatient(context.Background(), "P1")
	if err != nil {
		t.Fatalf("ReportsByPatient() error = %v", err)
	}
	if len(got.Ready) != 1 || got.Ready[0].LabReportID != "LR1" {
		t.Errorf("ready = %#v, want [LR1]", got.Ready)
	}
	if len(got.InProgress) != 1 || got.InProgress[0].LabReportID != "LR2" {
		t.Errorf("in progress = %#v, want [LR2]", got.InProgress)
	}
}
