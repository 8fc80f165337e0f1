// Package report builds the closing report an event coordinator sends out
// when a program run ends: staff lines, participation counts, a payment
// breakdown per method and free-form notes.
package report

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joserubiobejarano/crmtrilogy/internal/application/projections"
	eventDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/event"
	paymentDomain "github.com/joserubiobejarano/crmtrilogy/internal/domain/payment"
	"github.com/joserubiobejarano/crmtrilogy/internal/domain/programtype"
)

// PaymentLine is the per-method payment summary.
type PaymentLine struct {
	Method string // display label
	Count  int    // participants who paid with this method
	Sum    float64
}

// Content is the assembled closing report, ready for rendering.
type Content struct {
	Title           string // program display name + code
	EndDate         string // Spanish long date, or a dash when unset
	Coordinator     string
	Entrenadores    string
	Mentores        string
	CapitanMentores string
	Started         int // participants who attended
	Finished        int // participants marked finalized
	PaymentLines    []PaymentLine
	Total           float64
	Notes           string
}

// esPrinter renders numbers with Spanish grouping ("1.234").
var esPrinter = message.NewPrinter(language.EuropeanSpanish)

// FormatCurrency renders a dollar amount the way the reports show it:
// no decimals, Spanish thousands grouping.
func FormatCurrency(n float64) string {
	return esPrinter.Sprintf("$%d", int64(math.Round(n)))
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var spanishWeekdays = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

// formatEndDate renders an RFC 3339 date as a Spanish long date
// ("domingo, 8 de marzo de 2026"); blank or unparsable input yields a dash.
func formatEndDate(iso string) string {
	if strings.TrimSpace(iso) == "" {
		return "—"
	}
	d, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return fmt.Sprintf("%s, %d de %s de %d",
		spanishWeekdays[d.Weekday()], d.Day(), spanishMonths[d.Month()-1], d.Year())
}

func orDash(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "—"
	}
	return s
}

// BuildContent assembles the closing report for an event from its roster.
// PRE: entries belong to the event
// POST: Payment lines cover every allowed method in order; Total is the sum
// of all positive per-method amounts
func BuildContent(ev eventDomain.Event, entries []projections.RosterEntry, notes string) Content {
	started, finished := 0, 0
	for _, e := range entries {
		if e.Enrollment.Flags.Attended {
			started++
		}
		if e.Enrollment.Finalized {
			finished++
		}
	}

	var lines []PaymentLine
	var total float64
	for _, method := range paymentDomain.Methods {
		count := 0
		var sum float64
		for _, e := range entries {
			amount, ok := e.PaymentsByMethod[method]
			if !ok || amount == nil || *amount <= 0 {
				continue
			}
			count++
			sum += *amount
		}
		total += sum
		lines = append(lines, PaymentLine{Method: paymentDomain.MethodLabels[method], Count: count, Sum: sum})
	}

	return Content{
		Title:           fmt.Sprintf("%s %s", programtype.Display(ev.ProgramType), ev.Code),
		EndDate:         formatEndDate(ev.EndDate),
		Coordinator:     orDash(ev.Coordinator),
		Entrenadores:    orDash(ev.Entrenadores),
		Mentores:        orDash(ev.Mentores),
		CapitanMentores: orDash(ev.CapitanMentores),
		Started:         started,
		Finished:        finished,
		PaymentLines:    lines,
		Total:           total,
		Notes:           strings.TrimSpace(notes),
	}
}

// FormatText renders the report as the plain-text download. Methods with no
// payments are omitted from the breakdown; the total line always appears.
func FormatText(c Content) string {
	lines := []string{
		"Informe Cierre de " + c.Title,
		"",
		"Finalizó: " + c.EndDate,
		"",
		"Coordinador: " + c.Coordinator,
		"Entrenadores: " + c.Entrenadores,
		"Mentores: " + c.Mentores,
		"Capitán mentores: " + c.CapitanMentores,
		"",
		fmt.Sprintf("Participantes que iniciaron: %d", c.Started),
		fmt.Sprintf("Participantes que culminaron: %d", c.Finished),
		"",
		"Pagos",
	}

	for _, pl := range c.PaymentLines {
		if pl.Count > 0 || pl.Sum > 0 {
			lines = append(lines, fmt.Sprintf("Pagos %s: %d participantes - %s", pl.Method, pl.Count, FormatCurrency(pl.Sum)))
		}
	}

	lines = append(lines, "Total = "+FormatCurrency(c.Total), "", "Notas")
	if c.Notes != "" {
		lines = append(lines, c.Notes)
	} else {
		lines = append(lines, "(Sin notas)")
	}
	return strings.Join(lines, "\n")
}

// RenderNotesHTML converts the markdown notes body to HTML for the email
// and web renditions of the report.
func RenderNotesHTML(notes string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(notes), &buf); err != nil {
		return "", fmt.Errorf("render notes: %w", err)
	}
	return buf.String(), nil
}
