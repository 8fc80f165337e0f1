package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/email"
	enrollmentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/enrollment"
	eventStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/event"
	paymentStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/payment"
	personStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/person"
	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	"github.com/joserubiobejarano/crmtrilogy/internal/application/importer"
	enrollmentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/enrollment"
	eventDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/event"
	paymentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/payment"
	personDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/person"
	"github.com/joserubiobejarano/crmtrilogy/internal/domain/programtype"
)

// ImportEventDefaults are applied to events created during an import.
// Dates are RFC 3339 strings, already normalized by the caller.
type ImportEventDefaults struct {
	City      string
	StartDate string
	EndDate   string
}

// ImportWorkbookInput carries the raw workbook bytes and import options.
// PRE: Data is the full content of an .xlsx upload; Defaults.City is non-empty.
// POST: Returns aggregate counts and per-row errors.
// INVARIANT: Existing people keep their email; existing payments are never
// amended; rows are processed strictly in sheet order.
type ImportWorkbookInput struct {
	Data     []byte
	Defaults ImportEventDefaults
	NotifyTo string // optional; when set, an import summary email is sent
}

// ImportWorkbookResult holds aggregate counts and per-row errors from an import run.
type ImportWorkbookResult struct {
	PeopleCreated      int
	PeopleUpdated      int
	EventsCreated      int
	EnrollmentsCreated int
	EnrollmentsUpdated int
	PaymentsCreated    int
	Errors             []ImportRowError
}

// ImportRowError describes a processing error for a single spreadsheet row.
// Row numbers are 1-based spreadsheet rows (header row is 1, first data row
// is 2); Row 0 marks a sheet-level failure.
type ImportRowError struct {
	Sheet   string
	Row     int
	Message string
}

// ImportWorkbookDeps holds external dependencies for the import orchestrator.
type ImportWorkbookDeps struct {
	PersonStore     personStore.Store
	EventStore      eventStore.Store
	EnrollmentStore enrollmentStore.Store
	PaymentStore    paymentStore.Store
	GenerateID      func() string
	Now             func() time.Time // defaults to time.Now
	Sender          email.Sender     // optional; used for the summary email
}

// ExecuteImportWorkbook parses a spreadsheet upload and reconciles its rows
// into people, events, enrollments and payments.
// PRE: Input.Data holds a parsable workbook; Deps stores are wired.
// POST: Every allowed sheet and every data row was attempted; counts and the
// ordered error list describe the outcome.
// INVARIANT: A row or sheet error never stops the run; only an unparsable
// workbook aborts with no partial result.
func ExecuteImportWorkbook(ctx context.Context, input ImportWorkbookInput, deps ImportWorkbookDeps) (ImportWorkbookResult, error) {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	sheets, err := importer.ReadWorkbook(input.Data, programtype.DefaultCodes)
	if err != nil {
		return ImportWorkbookResult{}, err
	}

	var result ImportWorkbookResult
	for _, sheet := range sheets {
		// Header only or empty: nothing to reconcile.
		if len(sheet.Rows) < 2 {
			continue
		}

		cm := importer.BuildColumnMap(sheet.Rows[0])

		eventID, created, err := resolveImportEvent(ctx, sheet.Name, input.Defaults, deps, now)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{
				Sheet: sheet.Name, Row: 0,
				Message: fmt.Sprintf("event could not be resolved: %v", err),
			})
			continue
		}
		if created {
			result.EventsCreated++
		}

		for i, row := range sheet.Rows[1:] {
			rowNum := i + 2
			reconcileRow(ctx, sheet.Name, rowNum, row, &cm, eventID, deps, now, &result)
		}
	}

	slog.Info("workbook_import",
		"people_created", result.PeopleCreated,
		"people_updated", result.PeopleUpdated,
		"events_created", result.EventsCreated,
		"enrollments_created", result.EnrollmentsCreated,
		"enrollments_updated", result.EnrollmentsUpdated,
		"payments_created", result.PaymentsCreated,
		"errors", len(result.Errors),
	)

	if deps.Sender != nil && input.NotifyTo != "" {
		sendImportSummary(ctx, deps.Sender, input.NotifyTo, result)
	}

	return result, nil
}

// resolveImportEvent finds the event for a sheet by the (program_type, code)
// pair, both set to the sheet name by convention, creating an inactive event
// with the import defaults when absent. Found events are reused untouched.
func resolveImportEvent(ctx context.Context, sheetName string, defaults ImportEventDefaults, deps ImportWorkbookDeps, now func() time.Time) (string, bool, error) {
	existing, err := deps.EventStore.GetByProgramTypeAndCode(ctx, sheetName, sheetName)
	if err == nil {
		return existing.ID, false, nil
	}
	if !storage.IsNotFound(err) {
		return "", false, err
	}

	ev := eventDomain.Event{
		ID:          deps.GenerateID(),
		ProgramType: sheetName,
		Code:        sheetName,
		City:        defaults.City,
		StartDate:   defaults.StartDate,
		EndDate:     defaults.EndDate,
		Active:      false,
		CreatedAt:   now().UTC().Format(time.RFC3339),
	}
	if err := deps.EventStore.Save(ctx, ev); err != nil {
		return "", false, err
	}
	return ev.ID, true, nil
}

// reconcileRow applies one data row: person find-or-create, enrollment
// upsert, payment fan-out. Errors are appended to the result; the row is
// abandoned at the first fatal step.
func reconcileRow(ctx context.Context, sheetName string, rowNum int, row []string, cm *importer.ColumnMap, eventID string, deps ImportWorkbookDeps, now func() time.Time, result *ImportWorkbookResult) {
	rowErr := func(format string, args ...any) {
		result.Errors = append(result.Errors, ImportRowError{
			Sheet: sheetName, Row: rowNum, Message: fmt.Sprintf(format, args...),
		})
	}

	rawEmail := cm.PersonCell(row, importer.FieldEmail)
	rawPhone := cm.PersonCell(row, importer.FieldPhone)

	lookupEmail, err := importer.ResolveIdentityEmail(rawEmail, rawPhone)
	if err != nil {
		rowErr("no email or phone")
		return
	}

	firstName := importer.ToString(cm.PersonCell(row, importer.FieldFirstName))
	lastName := importer.ToString(cm.PersonCell(row, importer.FieldLastName))
	phone := importer.ToString(rawPhone)

	personID, err := upsertPerson(ctx, deps, lookupEmail, firstName, lastName, phone, now, result)
	if err != nil {
		slog.Error("workbook_import_person_failed", "sheet", sheetName, "row", rowNum, "err", err)
		rowErr("person could not be saved: %v", err)
		return
	}

	flags := enrollmentDomain.Flags{
		Attended:        importer.ToBool(cm.EnrollmentCell(row, importer.FieldAttended)),
		DetailsSent:     importer.ToBool(cm.EnrollmentCell(row, importer.FieldDetailsSent)),
		Confirmed:       importer.ToBool(cm.EnrollmentCell(row, importer.FieldConfirmed)),
		ContractSigned:  importer.ToBool(cm.EnrollmentCell(row, importer.FieldContractSigned)),
		CCASigned:       importer.ToBool(cm.EnrollmentCell(row, importer.FieldCCASigned)),
		HealthDocSigned: importer.ToBool(cm.EnrollmentCell(row, importer.FieldHealthDocSigned)),
		TLNormsSigned:   importer.ToBool(cm.EnrollmentCell(row, importer.FieldTLNormsSigned)),
		TLRulesSigned:   importer.ToBool(cm.EnrollmentCell(row, importer.FieldTLRulesSigned)),
		Withdrew:        importer.ToBool(cm.EnrollmentCell(row, importer.FieldWithdrew)),
	}
	adminNotes := importer.ToString(cm.EnrollmentCell(row, importer.FieldAdminNotes))
	angelName := importer.ToString(cm.EnrollmentCell(row, importer.FieldAngelName))

	enrollmentID, err := upsertEnrollment(ctx, deps, eventID, personID, flags, adminNotes, angelName, now, result)
	if err != nil {
		slog.Error("workbook_import_enrollment_failed", "sheet", sheetName, "row", rowNum, "err", err)
		rowErr("enrollment could not be saved: %v", err)
		return
	}

	fee := importer.ToNumber(importer.Cell(row, cm.FeeCol))
	for _, mc := range cm.Methods {
		if !importer.ToBool(importer.Cell(row, mc.Col)) {
			continue
		}
		created, err := createPaymentOnce(ctx, deps, enrollmentID, mc.Method, fee, now)
		if err != nil {
			slog.Error("workbook_import_payment_failed", "sheet", sheetName, "row", rowNum, "method", mc.Method, "err", err)
			rowErr("payment (%s) could not be saved: %v", mc.Method, err)
			continue
		}
		if created {
			result.PaymentsCreated++
		}
	}
}

// upsertPerson finds the person by the dedup email or creates one. On a
// match only non-empty incoming values refresh the record; the stored email
// is never overwritten.
func upsertPerson(ctx context.Context, deps ImportWorkbookDeps, lookupEmail, firstName, lastName, phone string, now func() time.Time, result *ImportWorkbookResult) (string, error) {
	existing, err := deps.PersonStore.GetByEmail(ctx, lookupEmail)
	if err == nil {
		if firstName != "" {
			existing.FirstName = firstName
		}
		if lastName != "" {
			existing.LastName = lastName
		}
		if phone != "" {
			existing.Phone = phone
		}
		if err := deps.PersonStore.Save(ctx, existing); err != nil {
			return "", err
		}
		result.PeopleUpdated++
		return existing.ID, nil
	}
	if !storage.IsNotFound(err) {
		return "", err
	}

	p := personDomain.Person{
		ID:        deps.GenerateID(),
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Email:     lookupEmail,
		CreatedAt: now().UTC().Format(time.RFC3339),
	}
	if err := deps.PersonStore.Save(ctx, p); err != nil {
		return "", err
	}
	result.PeopleCreated++
	return p.ID, nil
}

// upsertEnrollment inserts or, when the (event, person) pair already exists,
// overwrites the mapped flag and text fields wholesale from the current row.
func upsertEnrollment(ctx context.Context, deps ImportWorkbookDeps, eventID, personID string, flags enrollmentDomain.Flags, adminNotes, angelName string, now func() time.Time, result *ImportWorkbookResult) (string, error) {
	existing, err := deps.EnrollmentStore.GetByEventAndPerson(ctx, eventID, personID)
	if err == nil {
		existing.Flags = flags
		existing.AdminNotes = adminNotes
		existing.AngelName = angelName
		existing.UpdatedAt = now().UTC().Format(time.RFC3339)
		if err := deps.EnrollmentStore.Save(ctx, existing); err != nil {
			return "", err
		}
		result.EnrollmentsUpdated++
		return existing.ID, nil
	}
	if !storage.IsNotFound(err) {
		return "", err
	}

	e := enrollmentDomain.Enrollment{
		ID:         deps.GenerateID(),
		EventID:    eventID,
		PersonID:   personID,
		Status:     enrollmentDomain.StatusPendingContract,
		Flags:      flags,
		AdminNotes: adminNotes,
		AngelName:  angelName,
		CreatedAt:  now().UTC().Format(time.RFC3339),
	}
	if err := deps.EnrollmentStore.Save(ctx, e); err != nil {
		return "", err
	}
	result.EnrollmentsCreated++
	return e.ID, nil
}

// createPaymentOnce inserts a payment for (enrollment, method) unless one is
// already on file; an existing payment is left untouched, amount included.
func createPaymentOnce(ctx context.Context, deps ImportWorkbookDeps, enrollmentID, method string, fee *float64, now func() time.Time) (bool, error) {
	_, err := deps.PaymentStore.GetByEnrollmentAndMethod(ctx, enrollmentID, method)
	if err == nil {
		return false, nil
	}
	if !storage.IsNotFound(err) {
		return false, err
	}

	p := paymentDomain.Payment{
		ID:           deps.GenerateID(),
		EnrollmentID: enrollmentID,
		Method:       method,
		FeeAmount:    fee,
		CreatedAt:    now().UTC().Format(time.RFC3339),
	}
	if err := deps.PaymentStore.Save(ctx, p); err != nil {
		return false, err
	}
	return true, nil
}

// sendImportSummary emails the aggregate counts to the configured recipient.
// Best effort: a send failure is logged and never fails the import.
func sendImportSummary(ctx context.Context, sender email.Sender, to string, result ImportWorkbookResult) {
	html := fmt.Sprintf(
		"<h2>Spreadsheet import finished</h2>"+
			"<ul>"+
			"<li>People created: %d</li>"+
			"<li>People updated: %d</li>"+
			"<li>Events created: %d</li>"+
			"<li>Enrollments created: %d</li>"+
			"<li>Enrollments updated: %d</li>"+
			"<li>Payments created: %d</li>"+
			"<li>Errors: %d</li>"+
			"</ul>",
		result.PeopleCreated, result.PeopleUpdated, result.EventsCreated,
		result.EnrollmentsCreated, result.EnrollmentsUpdated,
		result.PaymentsCreated, len(result.Errors))

	if _, err := sender.Send(ctx, email.SendRequest{
		To:      []string{to},
		Subject: "Spreadsheet import summary",
		HTML:    html,
	}); err != nil {
		slog.Warn("workbook_import_summary_email_failed", "to", to, "err", err)
	}
}
