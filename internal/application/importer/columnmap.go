package importer

import (
	"github.com/joserubiobejarano/crmtrilogy/internal/domain/payment"
)

// Person field keys produced by the column map.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldPhone     = "phone"
	FieldEmail     = "email"
)

// Enrollment field keys produced by the column map.
const (
	FieldAttended        = "attended"
	FieldDetailsSent     = "details_sent"
	FieldConfirmed       = "confirmed"
	FieldContractSigned  = "contract_signed"
	FieldCCASigned       = "cca_signed"
	FieldHealthDocSigned = "health_doc_signed"
	FieldTLNormsSigned   = "tl_norms_signed"
	FieldTLRulesSigned   = "tl_rules_signed"
	FieldWithdrew        = "withdrew"
	FieldAdminNotes      = "admin_notes"
	FieldAngelName       = "angel_name"
)

// headerTarget describes what a recognized header maps to.
type headerTarget struct {
	kind   string // "person", "enrollment", "fee", "method"
	field  string
	method string
}

// headerMap is the static table of known label variants, keyed by
// normalized header. It covers the Spanish/English synonyms seen in the
// hand-authored workbooks (accented and unaccented forms normalize to the
// same key, so only distinct normalized spellings need entries).
var headerMap = map[string]headerTarget{
	"observaciones":  {kind: "enrollment", field: FieldAdminNotes},
	"asistio":        {kind: "enrollment", field: FieldAttended},
	"envio detalles": {kind: "enrollment", field: FieldDetailsSent},
	"confirm":        {kind: "enrollment", field: FieldConfirmed},
	"contrato":       {kind: "enrollment", field: FieldContractSigned},
	"cca":            {kind: "enrollment", field: FieldCCASigned},
	"doc salud":      {kind: "enrollment", field: FieldHealthDocSigned},
	"normas tl":      {kind: "enrollment", field: FieldTLNormsSigned},
	"reglas tl":      {kind: "enrollment", field: FieldTLRulesSigned},
	"retiro":         {kind: "enrollment", field: FieldWithdrew},
	"nombre":         {kind: "person", field: FieldFirstName},
	"apellido":       {kind: "person", field: FieldLastName},
	"telefono":       {kind: "person", field: FieldPhone},
	"correo":         {kind: "person", field: FieldEmail},
	"angel":          {kind: "enrollment", field: FieldAngelName},
	"fee":            {kind: "fee"},
	"square":         {kind: "method", method: payment.MethodSquare},
	"afterpay":       {kind: "method", method: payment.MethodAfterpay},
	"zelle":          {kind: "method", method: payment.MethodZelle},
	"cash":           {kind: "method", method: payment.MethodCash},
	"tdc":            {kind: "method", method: payment.MethodTDC},
}

// MethodColumn pairs a payment method with the column it was found in.
type MethodColumn struct {
	Method string
	Col    int
}

// ColumnMap resolves column indices to semantic targets for one sheet.
// FeeCol is -1 when no shared fee column is present.
type ColumnMap struct {
	Person     map[string]int
	Enrollment map[string]int
	FeeCol     int
	Methods    []MethodColumn
}

// BuildColumnMap resolves each header cell to its semantic target.
// Unrecognized headers are dropped; when the same target appears in several
// columns the earliest column wins.
// PRE: headerRow is the first row of a sheet (may be empty)
// POST: returns a complete map; absent targets are simply missing
func BuildColumnMap(headerRow []string) ColumnMap {
	cm := ColumnMap{
		Person:     make(map[string]int),
		Enrollment: make(map[string]int),
		FeeCol:     -1,
	}

	for i, cell := range headerRow {
		target, ok := headerMap[NormalizeHeader(cell)]
		if !ok {
			continue
		}
		switch target.kind {
		case "person":
			if _, seen := cm.Person[target.field]; !seen {
				cm.Person[target.field] = i
			}
		case "enrollment":
			if _, seen := cm.Enrollment[target.field]; !seen {
				cm.Enrollment[target.field] = i
			}
		case "fee":
			if cm.FeeCol < 0 {
				cm.FeeCol = i
			}
		case "method":
			if !cm.hasMethod(target.method) {
				cm.Methods = append(cm.Methods, MethodColumn{Method: target.method, Col: i})
			}
		}
	}
	return cm
}

func (cm *ColumnMap) hasMethod(method string) bool {
	for _, mc := range cm.Methods {
		if mc.Method == method {
			return true
		}
	}
	return false
}

// Cell returns the raw cell at index col, or "" when the column is absent
// from the map (col < 0) or the row is short.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// PersonCell returns the raw cell for a mapped person field, or "".
func (cm *ColumnMap) PersonCell(row []string, field string) string {
	col, ok := cm.Person[field]
	if !ok {
		return ""
	}
	return Cell(row, col)
}

// EnrollmentCell returns the raw cell for a mapped enrollment field, or "".
func (cm *ColumnMap) EnrollmentCell(row []string, field string) string {
	col, ok := cm.Enrollment[field]
	if !ok {
		return ""
	}
	return Cell(row, col)
}
