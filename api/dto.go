/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model
  from the external contract. Display strings (dd/mm/YYYY dates,
  "3h 5m" worked time, ativo/pausa status labels) are produced here,
  not in the domain.

NAMING CONVENTION:
  - *Request: request body types from clients
  - *DTO: response types returned to clients
*/
package api

import (
	"github.com/helpdesk/attendance-engine/ledger"
	"github.com/helpdesk/attendance-engine/report"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// RecordEventRequest submits one clock action.
type RecordEventRequest struct {
	Employee  string `json:"employee"`
	WorkOrder string `json:"work_order"`
	Action    string `json:"action"` // entrada | pausa | retorno | saida
	Note      string `json:"note,omitempty"`
}

// ForceCloseRequest closes an open work order for an employee.
type ForceCloseRequest struct {
	Employee  string `json:"employee"`
	WorkOrder string `json:"work_order"`
	Note      string `json:"note,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// EventDTO is one history row.
type EventDTO struct {
	Date      string `json:"date"` // dd/mm/YYYY
	Employee  string `json:"employee"`
	WorkOrder string `json:"work_order"`
	Type      string `json:"type"`
	Time      string `json:"time"` // HH:MM:SS
	Note      string `json:"note,omitempty"`
}

func toEventDTO(ev ledger.AttendanceEvent) EventDTO {
	row := ev.Row()
	return EventDTO{
		Date:      row[0],
		Employee:  row[1],
		WorkOrder: row[2],
		Type:      row[3],
		Time:      row[4],
		Note:      row[5],
	}
}

// ActiveSessionDTO is one row of the live view.
type ActiveSessionDTO struct {
	Employee  string `json:"employee"`
	WorkOrder string `json:"work_order"`
	Status    string `json:"status"` // ativo | pausa
	ClockIn   string `json:"clock_in"`
	Worked    string `json:"worked"` // "3h 5m", truncated
}

func toActiveSessionDTO(as ledger.ActiveSession) ActiveSessionDTO {
	status := "ativo"
	if as.Session.Status == ledger.StatusPaused {
		status = "pausa"
	}
	return ActiveSessionDTO{
		Employee:  as.Pair.Employee,
		WorkOrder: as.Pair.WorkOrder,
		Status:    status,
		ClockIn:   as.Session.OpenedAt.Format("15:04:05"),
		Worked:    ledger.FormatWorked(as.Session.Accumulated),
	}
}

// RecordsResponse is one page of the history view.
type RecordsResponse struct {
	Records  []EventDTO `json:"records"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PerPage  int        `json:"per_page"`
	From     string     `json:"from"` // dd/mm/YYYY, post-normalization
	To       string     `json:"to"`
	Warnings []string   `json:"warnings,omitempty"`
}

// SummaryRowDTO is one employee's worked-time total over the window.
type SummaryRowDTO struct {
	Employee string `json:"employee"`
	Worked   string `json:"worked"`
	Hours    string `json:"hours"` // decimal hours, truncated to 2 places
}

func toSummaryRowDTO(t report.EmployeeTotal) SummaryRowDTO {
	return SummaryRowDTO{
		Employee: t.Employee,
		Worked:   ledger.FormatWorked(t.Worked),
		Hours:    t.Hours.StringFixed(2),
	}
}
