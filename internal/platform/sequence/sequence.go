// Package sequence allocates the human-readable display identifiers used
// across the clinic (A6, C12, LR3, ...). Each namespace owns a prefix and a
// table/column pair; the next ID is derived from the maximum numeric suffix
// currently stored. The derivation is a pure read: callers must run
// allocation and the subsequent insert inside one transaction and retry on
// a unique violation, since two concurrent requests can derive the same
// next ID.
package sequence

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

// Namespace identifies one category of sequenced entity.
type Namespace string

const (
	Appointment    Namespace = "appointment"
	Call           Namespace = "call"
	LabTest        Namespace = "labtest"
	LabReport      Namespace = "labreport"
	BloodResult    Namespace = "bloodresult"
	DiabeticResult Namespace = "diabeticresult"
	GeneticResult  Namespace = "geneticresult"
	Medicine       Namespace = "medicine"
)

type definition struct {
	table  string
	column string
	prefix string
}

// The supported set is fixed; an unknown namespace is a programming error.
var registry = map[Namespace]definition{
	Appointment:    {table: "appointment", column: "appointment_id", prefix: "A"},
	Call:           {table: "ambulance_call", column: "call_id", prefix: "C"},
	LabTest:        {table: "labtest", column: "labtest_id", prefix: "L"},
	LabReport:      {table: "labreport", column: "labreport_id", prefix: "LR"},
	BloodResult:    {table: "blood_result", column: "result_id", prefix: "B"},
	DiabeticResult: {table: "diabetic_result", column: "result_id", prefix: "D"},
	GeneticResult:  {table: "genetic_result", column: "result_id", prefix: "G"},
	Medicine:       {table: "medicine", column: "medicine_id", prefix: "M"},
}

// Prefix returns the namespace's identifier prefix (e.g. "LR").
func (n Namespace) Prefix() string {
	return mustLookup(n).prefix
}

// FormatID renders a display identifier for the namespace.
func FormatID(n Namespace, suffix int) string {
	return mustLookup(n).prefix + strconv.Itoa(suffix)
}

func mustLookup(n Namespace) definition {
	def, ok := registry[n]
	if !ok {
		panic(fmt.Sprintf("sequence: unknown namespace %q", n))
	}
	return def
}

// Allocator computes the next display identifier for a namespace. It is a
// single-method interface so the derivation strategy can be swapped without
// touching workflow code.
type Allocator interface {
	Next(ctx context.Context, ns Namespace) (string, error)
}

// PGAllocator derives the next ID from the maximum suffix stored in the
// namespace's table. It resolves the caller's transaction from the context
// so the read shares the workflow's isolation.
type PGAllocator struct {
	pool *pgxpool.Pool
}

func NewPGAllocator(pool *pgxpool.Pool) *PGAllocator {
	return &PGAllocator{pool: pool}
}

func (a *PGAllocator) Next(ctx context.Context, ns Namespace) (string, error) {
	def := mustLookup(ns)

	// Non-numeric suffixes produce NULL from the pattern match and are
	// ignored by MAX, so a corrupt row degrades to "empty namespace".
	query := fmt.Sprintf(
		`SELECT COALESCE(MAX((SUBSTRING(%s FROM '[0-9]+$'))::int), 0) FROM %s`,
		def.column, def.table)

	var max int
	if err := db.Conn(ctx, a.pool).QueryRow(ctx, query).Scan(&max); err != nil {
		return "", fmt.Errorf("derive max suffix for %s: %w", ns, err)
	}

	return FormatID(ns, max+1), nil
}
