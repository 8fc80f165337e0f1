package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	emailPkg "github.com/joserubiobejarano/crmtrilogy/internal/adapters/email"
	"github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage"
	eventStore "github.com/joserubiobejarano/crmtrilogy/internal/adapters/storage/event"
	"github.com/joserubiobejarano/crmtrilogy/internal/application/orchestrators"
	"github.com/joserubiobejarano/crmtrilogy/internal/application/projections"
	"github.com/joserubiobejarano/crmtrilogy/internal/application/report"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// notFoundErrors map to 404.
var notFoundErrors = []error{
	orchestrators.ErrEventNotFound,
	orchestrators.ErrEnrollmentNotFound,
	orchestrators.ErrPaymentNotFound,
	orchestrators.ErrPersonNotFound,
	orchestrators.ErrCityNotFound,
	orchestrators.ErrProgramTypeMissing,
	orchestrators.ErrNoActiveNextEvent,
	orchestrators.ErrReportNotFound,
	projections.ErrRosterEventNotFound,
}

// conflictErrors map to 409.
var conflictErrors = []error{
	orchestrators.ErrAlreadyEnrolled,
	orchestrators.ErrCityExists,
	orchestrators.ErrCityInUse,
	orchestrators.ErrProgramTypeExists,
	orchestrators.ErrProgramTypeInUse,
	orchestrators.ErrSpotAlreadyTransferred,
}

// badRequestErrors map to 400.
var badRequestErrors = []error{
	orchestrators.ErrInvalidProgramType,
	orchestrators.ErrInvalidStatus,
	orchestrators.ErrInvalidPaymentMethod,
	orchestrators.ErrEmailRequired,
	orchestrators.ErrTransferToSelf,
	orchestrators.ErrNoNextProgram,
}

// apiError translates orchestrator errors into HTTP responses. Typed
// validation and lookup errors surface their message; everything else is a
// generic 500 so internals never leak.
func apiError(w http.ResponseWriter, err error) {
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}
	for _, sentinel := range conflictErrors {
		if errors.Is(err, sentinel) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
	}
	for _, sentinel := range badRequestErrors {
		if errors.Is(err, sentinel) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	internalError(w, err)
}

// registerRoutes wires the admin API endpoints.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/events", handleEvents)
	mux.HandleFunc("/api/events/detail", handleEventDetail)
	mux.HandleFunc("/api/events/update", handleEventUpdate)
	mux.HandleFunc("/api/events/staff", handleEventStaff)
	mux.HandleFunc("/api/events/duplicate", handleEventDuplicate)
	mux.HandleFunc("/api/events/activate", handleEventActivate)
	mux.HandleFunc("/api/events/schedule-deletion", handleEventScheduleDeletion)
	mux.HandleFunc("/api/events/cancel-deletion", handleEventCancelDeletion)
	mux.HandleFunc("/api/events/process-deletions", handleProcessDeletions)
	mux.HandleFunc("/api/events/report", handleEventReport)
	mux.HandleFunc("/api/events/report/send", handleEventReportSend)
	mux.HandleFunc("/api/enrollments", handleEnrollments)
	mux.HandleFunc("/api/enrollments/transfer", handleEnrollmentTransfer)
	mux.HandleFunc("/api/enrollments/move-next", handleEnrollmentMoveNext)
	mux.HandleFunc("/api/reports", handleReports)
	mux.HandleFunc("/api/payments", handlePayments)
	mux.HandleFunc("/api/people", handlePeople)
	mux.HandleFunc("/api/cities", handleCities)
	mux.HandleFunc("/api/program-types", handleProgramTypes)
	mux.HandleFunc("/api/perf", handlePerfSnapshot)
}

func eventDeps() orchestrators.EventDeps {
	return orchestrators.EventDeps{
		EventStore:       stores.EventStore,
		ProgramTypeStore: stores.ProgramTypeStore,
		GenerateID:       generateID,
		Now:              timeNow,
	}
}

func eventDeletionDeps() orchestrators.EventDeletionDeps {
	return orchestrators.EventDeletionDeps{
		EventStore:      stores.EventStore,
		EnrollmentStore: stores.EnrollmentStore,
		PaymentStore:    stores.PaymentStore,
		Now:             timeNow,
	}
}

func rosterDeps() projections.EventRosterDeps {
	return projections.EventRosterDeps{
		EventStore:      stores.EventStore,
		EnrollmentStore: stores.EnrollmentStore,
		PersonStore:     stores.PersonStore,
		PaymentStore:    stores.PaymentStore,
	}
}

// handleEvents handles GET (list) and POST (create) for /api/events.
func handleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		q := r.URL.Query()
		filter := eventStore.ListFilter{
			ProgramType:     q.Get("program_type"),
			City:            q.Get("city"),
			ActiveOnly:      q.Get("active") == "true",
			DeletionPending: q.Get("deletion_pending") == "true",
		}
		events, err := stores.EventStore.List(ctx, filter)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": events})

	case "POST":
		var input orchestrators.CreateEventInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		ev, err := orchestrators.ExecuteCreateEvent(ctx, input, eventDeps())
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ev)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleEventDetail handles GET /api/events/detail?id=<event-id>&view=<view>.
// Returns the event with its roster: enrollments joined to people and
// payments grouped by method.
func handleEventDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	view := projections.RosterView(r.URL.Query().Get("view"))

	roster, err := projections.QueryEventRoster(r.Context(), id, view, rosterDeps())
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// handleEventUpdate handles PUT /api/events/update. The body carries the full
// editable field set; active flag and deletion schedule are not editable here.
func handleEventUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "PUT" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var input orchestrators.UpdateEventInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	ev, err := orchestrators.ExecuteUpdateEvent(r.Context(), input, eventDeps())
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// handleEventStaff handles PUT /api/events/staff. Only the staff fields
// present in the body change.
func handleEventStaff(w http.ResponseWriter, r *http.Request) {
	if r.Method != "PUT" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var input orchestrators.UpdateEventStaffInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	ev, err := orchestrators.ExecuteUpdateEventStaff(r.Context(), input, eventDeps())
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// handleEventDuplicate handles POST /api/events/duplicate.
func handleEventDuplicate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var input orchestrators.DuplicateEventInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	deps := orchestrators.DuplicateEventDeps{
		EventDeps:       eventDeps(),
		EnrollmentStore: stores.EnrollmentStore,
		PersonStore:     stores.PersonStore,
	}
	ev, err := orchestrators.ExecuteDuplicateEvent(r.Context(), input, deps)
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// handleEventActivate handles POST /api/events/activate?id=<event-id>.
// Every other event with the same program type and city is deactivated.
func handleEventActivate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	if err := orchestrators.ExecuteSetActiveEvent(r.Context(), id, eventDeps()); err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEventScheduleDeletion handles POST /api/events/schedule-deletion?id=<event-id>.
func handleEventScheduleDeletion(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	ev, err := orchestrators.ExecuteScheduleEventDeletion(r.Context(), id, eventDeletionDeps())
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// handleEventCancelDeletion handles POST /api/events/cancel-deletion?id=<event-id>.
func handleEventCancelDeletion(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	ev, err := orchestrators.ExecuteCancelEventDeletion(r.Context(), id, eventDeletionDeps())
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// handleProcessDeletions handles POST /api/events/process-deletions. Events
// whose scheduled deletion time has passed are permanently removed together
// with their enrollments and payments.
func handleProcessDeletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	removed, err := orchestrators.ExecuteProcessScheduledDeletions(r.Context(), eventDeletionDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

// handleEventReport handles GET /api/events/report?id=<event-id>&notes=<md>&format=<json|text>.
// The closing report is built from the full roster. Notes come from the
// stored report for the event; an explicit notes parameter overrides them.
func handleEventReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	notes := r.URL.Query().Get("notes")
	if !r.URL.Query().Has("notes") {
		stored, err := stores.ReportStore.GetByEventID(r.Context(), id)
		if err != nil && !storage.IsNotFound(err) {
			internalError(w, err)
			return
		}
		notes = stored.Notes
	}

	roster, err := projections.QueryEventRoster(r.Context(), id, projections.ViewAll, rosterDeps())
	if err != nil {
		apiError(w, err)
		return
	}
	content := report.BuildContent(roster.Event, roster.Entries, notes)

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(report.FormatText(content)))
		return
	}

	notesHTML, err := report.RenderNotesHTML(content.Notes)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"content":   content,
		"text":      report.FormatText(content),
		"notesHtml": notesHTML,
	})
}

// handleEventReportSend handles POST /api/events/report/send?id=<event-id>&to=<address>.
// Renders the closing report and mails it to the given recipient.
func handleEventReportSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := r.URL.Query().Get("id")
	to := r.URL.Query().Get("to")
	if id == "" || to == "" {
		http.Error(w, "id and to are required", http.StatusBadRequest)
		return
	}
	if emailSender == nil {
		http.Error(w, "email sending is not configured", http.StatusServiceUnavailable)
		return
	}

	stored, err := stores.ReportStore.GetByEventID(r.Context(), id)
	if err != nil && !storage.IsNotFound(err) {
		internalError(w, err)
		return
	}
	roster, err := projections.QueryEventRoster(r.Context(), id, projections.ViewAll, rosterDeps())
	if err != nil {
		apiError(w, err)
		return
	}
	content := report.BuildContent(roster.Event, roster.Entries, stored.Notes)

	result, err := emailSender.Send(r.Context(), emailPkg.SendRequest{
		To:      []string{to},
		From:    emailFromAddress,
		Subject: content.Title,
		HTML:    "<pre>" + report.FormatText(content) + "</pre>",
		ReplyTo: emailReplyTo,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	slog.Info("closing_report_sent", "event_id", id, "to", to, "message_id", result.MessageID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent", "messageId": result.MessageID})
}

func reportDeps() orchestrators.ReportDeps {
	return orchestrators.ReportDeps{
		ReportStore: stores.ReportStore,
		EventStore:  stores.EventStore,
		GenerateID:  generateID,
		Now:         timeNow,
	}
}

// handleReports handles the stored closing reports for /api/reports:
// GET lists them joined with their events, POST ensures one exists for an
// event, PUT replaces its notes and DELETE removes it.
func handleReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		deps := projections.ReportListDeps{
			ReportStore: stores.ReportStore,
			EventStore:  stores.EventStore,
		}
		items, err := projections.QueryReportList(ctx, deps)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"reports": items})

	case "POST":
		eventID := r.URL.Query().Get("event_id")
		if eventID == "" {
			http.Error(w, "event_id is required", http.StatusBadRequest)
			return
		}
		rep, err := orchestrators.ExecuteEnsureReport(ctx, eventID, reportDeps())
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)

	case "PUT":
		var body struct {
			EventID string `json:"EventID"`
			Notes   string `json:"Notes"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		rep, err := orchestrators.ExecuteUpdateReportNotes(ctx, body.EventID, body.Notes, reportDeps())
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)

	case "DELETE":
		eventID := r.URL.Query().Get("event_id")
		if eventID == "" {
			http.Error(w, "event_id is required", http.StatusBadRequest)
			return
		}
		if err := orchestrators.ExecuteDeleteReport(ctx, eventID, reportDeps()); err != nil {
			apiError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleEnrollmentTransfer handles POST /api/enrollments/transfer. The spot
// moves to an existing enrollment in the same event or to a person looked up
// (or created) by email; the source enrollment is marked transferred out.
func handleEnrollmentTransfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var input orchestrators.TransferSpotInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	deps := orchestrators.TransferSpotDeps{
		EnrollmentStore: stores.EnrollmentStore,
		PersonStore:     stores.PersonStore,
		PaymentStore:    stores.PaymentStore,
		GenerateID:      generateID,
		Now:             timeNow,
	}
	enr, err := orchestrators.ExecuteTransferSpot(r.Context(), input, deps)
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, enr)
}

// handleEnrollmentMoveNext handles POST /api/enrollments/move-next?id=<enrollment-id>.
// Enrolls the person in the active event of the next program in the sequence.
func handleEnrollmentMoveNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	deps := orchestrators.MoveToNextProgramDeps{
		EnrollmentStore: stores.EnrollmentStore,
		EventStore:      stores.EventStore,
		PersonStore:     stores.PersonStore,
		GenerateID:      generateID,
		Now:             timeNow,
	}
	enr, err := orchestrators.ExecuteMoveToNextProgram(r.Context(), id, deps)
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, enr)
}

// handleEnrollments handles POST (enroll a participant) and PATCH (edit an
// enrollment) for /api/enrollments.
func handleEnrollments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "POST":
		var input orchestrators.EnrollParticipantInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		deps := orchestrators.EnrollParticipantDeps{
			PersonStore:     stores.PersonStore,
			EventStore:      stores.EventStore,
			EnrollmentStore: stores.EnrollmentStore,
			GenerateID:      generateID,
			Now:             timeNow,
		}
		result, err := orchestrators.ExecuteEnrollParticipant(ctx, input, deps)
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, result)

	case "PATCH":
		var input orchestrators.UpdateEnrollmentInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		deps := orchestrators.UpdateEnrollmentDeps{
			EnrollmentStore: stores.EnrollmentStore,
			Now:             timeNow,
		}
		enr, err := orchestrators.ExecuteUpdateEnrollment(ctx, input, deps)
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, enr)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func paymentDeps() orchestrators.PaymentDeps {
	return orchestrators.PaymentDeps{
		PaymentStore:    stores.PaymentStore,
		EnrollmentStore: stores.EnrollmentStore,
		GenerateID:      generateID,
		Now:             timeNow,
	}
}

// handlePayments handles POST (record), PUT (update), and DELETE for
// /api/payments.
func handlePayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "POST":
		var input orchestrators.RecordPaymentInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		p, err := orchestrators.ExecuteRecordPayment(ctx, input, paymentDeps())
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)

	case "PUT":
		var input orchestrators.UpdatePaymentInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		p, err := orchestrators.ExecuteUpdatePayment(ctx, input, paymentDeps())
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)

	case "DELETE":
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if err := orchestrators.ExecuteDeletePayment(ctx, id, paymentDeps()); err != nil {
			apiError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handlePeople handles GET (filtered directory with counts) and DELETE
// (remove a person with their enrollments and payments) for /api/people.
func handlePeople(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		q := r.URL.Query()
		filters := projections.PeopleFilters{
			City:          q.Get("city"),
			PaymentMethod: q.Get("payment_method"),
			Backlog:       q.Get("backlog") == "true",
			ProgramType:   q.Get("program_type"),
			EventCode:     q.Get("event_code"),
		}
		deps := projections.PeopleDirectoryDeps{
			PersonStore:     stores.PersonStore,
			EventStore:      stores.EventStore,
			EnrollmentStore: stores.EnrollmentStore,
			PaymentStore:    stores.PaymentStore,
		}
		directory, err := projections.QueryPeopleDirectory(ctx, filters, deps)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, directory)

	case "DELETE":
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		deps := orchestrators.DeletePersonDeps{
			PersonStore:     stores.PersonStore,
			EnrollmentStore: stores.EnrollmentStore,
			PaymentStore:    stores.PaymentStore,
		}
		if err := orchestrators.ExecuteDeletePerson(ctx, id, deps); err != nil {
			apiError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func catalogDeps() orchestrators.CatalogDeps {
	return orchestrators.CatalogDeps{
		CityStore:        stores.CityStore,
		ProgramTypeStore: stores.ProgramTypeStore,
		EventStore:       stores.EventStore,
		GenerateID:       generateID,
		Now:              timeNow,
	}
}

// handleCities handles GET (list), POST (add), and DELETE for /api/cities.
func handleCities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		cities, err := stores.CityStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cities": cities})

	case "POST":
		var body struct {
			Name string `json:"Name"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		c, err := orchestrators.ExecuteAddCity(ctx, body.Name, catalogDeps())
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)

	case "DELETE":
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if err := orchestrators.ExecuteDeleteCity(ctx, id, catalogDeps()); err != nil {
			apiError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleProgramTypes handles GET (list), POST (add), and DELETE for
// /api/program-types.
func handleProgramTypes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		programTypes, err := stores.ProgramTypeStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"programTypes": programTypes})

	case "POST":
		var body struct {
			Code  string `json:"Code"`
			Label string `json:"Label"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		pt, err := orchestrators.ExecuteAddProgramType(ctx, body.Code, body.Label, catalogDeps())
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, pt)

	case "DELETE":
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if err := orchestrators.ExecuteDeleteProgramType(ctx, id, catalogDeps()); err != nil {
			apiError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handlePerfSnapshot handles GET /api/perf. Returns aggregated request and
// query timings for the last 15 minutes.
func handlePerfSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if perfCollector == nil {
		http.Error(w, "perf collection disabled", http.StatusNotFound)
		return
	}
	snap := perfCollector.Snapshot(timeNow().Add(-15*time.Minute), 20)
	writeJSON(w, http.StatusOK, snap)
}
