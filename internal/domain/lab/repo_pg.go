package lab

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type testRepoPG struct{ pool *pgxpool.Pool }

func NewTestRepoPG(pool *pgxpool.Pool) TestRepository { return &testRepoPG{pool: pool} }

func (r *testRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *testRepoPG) Create(ctx context.Context, t *LabTest) error {
	t.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO labtest (id, labtest_id, patient_id, test_type, test_date, test_time)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		t.ID, t.LabTestID, t.PatientID, t.TestType, t.Date, t.Time)
	return err
}

func (r *testRepoPG) Reschedule(ctx context.Context, labTestID string, date time.Time, timeOfDay string) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE labtest SET test_date=$2, test_time=$3 WHERE labtest_id = $1`,
		labTestID, date, timeOfDay)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *testRepoPG) Delete(ctx context.Context, labTestID string) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM labtest WHERE labtest_id = $1`, labTestID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *testRepoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*PatientTest, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM labtest WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT labtest_id, test_type, test_date, test_time
		FROM labtest
		WHERE patient_id = $1
		ORDER BY test_date DESC, test_time DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*PatientTest
	for rows.Next() {
		var pt PatientTest
		if err := rows.Scan(&pt.LabTestID, &pt.TestType, &pt.Date, &pt.Time); err != nil {
			return nil, 0, err
		}
		items = append(items, &pt)
	}
	return items, total, rows.Err()
}

type reportRepoPG struct{ pool *pgxpool.Pool }

func NewReportRepoPG(pool *pgxpool.Pool) ReportRepository { return &reportRepoPG{pool: pool} }

func (r *reportRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *reportRepoPG) Create(ctx context.Context, lr *LabReport) error {
	lr.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO labreport (id, labreport_id, labtest_id, patient_id, test_type, readiness, labstaff_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		lr.ID, lr.LabReportID, lr.LabTestID, lr.PatientID, lr.TestType, lr.Readiness, lr.LabStaffID)
	return err
}

func (r *reportRepoPG) MarkReady(ctx context.Context, labReportID, resultID string, resultDate time.Time) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE labreport SET readiness=$2, result_id=$3, result_date=$4
		WHERE labreport_id = $1`,
		labReportID, ReadinessReady, resultID, resultDate)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *reportRepoPG) ListReadyByPatient(ctx context.Context, patientID string) ([]*PatientReport, error) {
	return r.listByPatient(ctx, patientID, ReadinessReady)
}

func (r *reportRepoPG) ListInProgressByPatient(ctx context.Context, patientID string) ([]*PatientReport, error) {
	return r.listByPatient(ctx, patientID, ReadinessInProgress)
}

func (r *reportRepoPG) listByPatient(ctx context.Context, patientID, readiness string) ([]*PatientReport, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT labreport_id, test_type, result_date
		FROM labreport
		WHERE patient_id = $1 AND readiness = $2
		ORDER BY labreport_id`, patientID, readiness)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*PatientReport
	for rows.Next() {
		var pr PatientReport
		if err := rows.Scan(&pr.LabReportID, &pr.TestType, &pr.ResultDate); err != nil {
			return nil, err
		}
		items = append(items, &pr)
	}
	return items, rows.Err()
}

func (r *reportRepoPG) ListByStaff(ctx context.Context, labStaffID string, limit, offset int) ([]*StaffReport, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM labreport WHERE labstaff_id = $1`, labStaffID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT lr.labreport_id, lr.patient_id, lr.test_type, lt.test_date, lt.test_time
		FROM labreport lr
		JOIN labtest lt ON lt.labtest_id = lr.labtest_id
		WHERE lr.labstaff_id = $1
		ORDER BY lt.test_date DESC, lt.test_time DESC
		LIMIT $2 OFFSET $3`, labStaffID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*StaffReport
	for rows.Next() {
		var sr StaffReport
		if err := rows.Scan(&sr.LabReportID, &sr.PatientID, &sr.TestType, &sr.Date, &sr.Time); err != nil {
			return nil, 0, err
		}
		items = append(items, &sr)
	}
	return items, total, rows.Err()
}

type resultRepoPG struct{ pool *pgxpool.Pool }

func NewResultRepoPG(pool *pgxpool.Pool) ResultRepository { return &resultRepoPG{pool: pool} }

func (r *resultRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *resultRepoPG) CreateBlood(ctx context.Context, br *BloodResult) error {
	br.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO blood_result (id, result_id, labreport_id, gender, date_of_birth,
			age, blood_type, hemoglobin, platelets_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		br.ID, br.ResultID, br.LabReportID, br.Gender, br.DOB,
		br.Age, br.BloodType, br.Hemoglobin, br.PlateletsCount)
	return err
}

func (r *resultRepoPG) CreateDiabetic(ctx context.Context, dr *DiabeticResult) error {
	dr.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO diabetic_result (id, result_id, labreport_id, gender, date_of_birth,
			age, blood_type, hba1c, estimated_avg_glucose)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		dr.ID, dr.ResultID, dr.LabReportID, dr.Gender, dr.DOB,
		dr.Age, dr.BloodType, dr.HbA1c, dr.EstimatedAvgGlucose)
	return err
}

func (r *resultRepoPG) CreateGenetic(ctx context.Context, gr *GeneticResult) error {
	gr.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO genetic_result (id, result_id, labreport_id, gender, date_of_birth,
			age, blood_type, gene, dna_description, protein_description)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		gr.ID, gr.ResultID, gr.LabReportID, gr.Gender, gr.DOB,
		gr.Age, gr.BloodType, gr.Gene, gr.DNADescription, gr.ProteinDescription)
	return err
}

func (r *resultRepoPG) GetBlood(ctx context.Context, labReportID string) (*BloodResult, error) {
	var br BloodResult
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT result_id, gender, date_of_birth, age, blood_type, hemoglobin, platelets_count
		FROM blood_result WHERE labreport_id = $1`, labReportID).
		Scan(&br.ResultID, &br.Gender, &br.DOB, &br.Age, &br.BloodType,
			&br.Hemoglobin, &br.PlateletsCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	br.LabReportID = labReportID
	return &br, nil
}

func (r *resultRepoPG) GetDiabetic(ctx context.Context, labReportID string) (*DiabeticResult, error) {
	var dr DiabeticResult
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT result_id, gender, date_of_birth, age, blood_type, hba1c, estimated_avg_glucose
		FROM diabetic_result WHERE labreport_id = $1`, labReportID).
		Scan(&dr.ResultID, &dr.Gender, &dr.DOB, &dr.Age, &dr.BloodType,
			&dr.HbA1c, &dr.EstimatedAvgGlucose)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	dr.LabReportID = labReportID
	return &dr, nil
}

func (r *resultRepoPG) GetGenetic(ctx context.Context, labReportID string) (*GeneticResult, error) {
	var gr GeneticResult
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT result_id, gender, date_of_birth, age, blood_type, gene, dna_description, protein_description
		FROM genetic_result WHERE labreport_id = $1`, labReportID).
		Scan(&gr.ResultID, &gr.Gender, &gr.DOB, &gr.Age, &gr.BloodType,
			&gr.Gene, &gr.DNADescription, &gr.ProteinDescription)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	gr.LabReportID = labReportID
	return &gr, nil
}
