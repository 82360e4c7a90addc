// Package api exposes the scheduling console over a small JSON HTTP
// surface for the ops frontend. It translates between wire DTOs
// (times as "HH:MM", day sets as short names) and the internal
// minute/bitmask types; all behavior lives in the console.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/catalog"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/conflict"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/console"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/matrix"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"

	"github.com/rs/zerolog"
)

// Server handles the console HTTP API.
type Server struct {
	console *console.Service
	logger  *zerolog.Logger
}

// NewServer creates the API server.
func NewServer(svc *console.Service, logger *zerolog.Logger) *Server {
	return &Server{console: svc, logger: logger}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/shifts", s.listShifts)
	mux.HandleFunc("POST /api/shifts", s.createShift)
	mux.HandleFunc("PATCH /api/shifts/{id}", s.updateShift)
	mux.HandleFunc("DELETE /api/shifts/{id}", s.deleteShift)
	mux.HandleFunc("DELETE /api/shifts/{id}/days/{day}", s.removeShiftDay)
	mux.HandleFunc("GET /api/teams", s.listTeams)
	mux.HandleFunc("GET /api/teams/{id}/matrix", s.getMatrix)
	mux.HandleFunc("POST /api/teams/{id}/matrix", s.commitMatrix)
	mux.HandleFunc("POST /api/teams/{id}/shifts/{shiftID}", s.assignShift)
	mux.HandleFunc("DELETE /api/links/{id}", s.unassignShift)
	mux.HandleFunc("GET /api/teams/{id}/schedule.xlsx", s.exportSchedule)
	mux.HandleFunc("POST /api/staff/{id}/conflict-check", s.checkConflict)
	mux.HandleFunc("POST /api/availability/evaluate", s.evaluateSlot)
	mux.HandleFunc("POST /api/availability/sessions", s.enumerateSessions)
	return mux
}

type shiftDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Days        []string `json:"days"`
	Description string   `json:"description,omitempty"`
	IsActive    bool     `json:"is_active"`
}

func toShiftDTO(s model.WorkShift) shiftDTO {
	return shiftDTO{
		ID:          s.ID,
		Name:        s.Name,
		Start:       s.Window.Start.String(),
		End:         s.Window.End.String(),
		Days:        dayNames(s.ApplicableDays),
		Description: s.Description,
		IsActive:    s.IsActive,
	}
}

func (s *Server) listShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := s.console.ListShifts(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]shiftDTO, 0, len(shifts))
	for _, sh := range shifts {
		out = append(out, toShiftDTO(sh))
	}
	s.writeJSON(w, http.StatusOK, out)
}

type createShiftRequest struct {
	Name        string   `json:"name"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Days        []string `json:"days"`
	Description string   `json:"description"`
	IsActive    bool     `json:"is_active"`
	Actor       string   `json:"actor"`
}

func (s *Server) createShift(w http.ResponseWriter, r *http.Request) {
	var req createShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, model.Validationf("body", "invalid json: %v", err))
		return
	}
	window, err := parseWindow(req.Start, req.End)
	if err != nil {
		s.writeError(w, err)
		return
	}
	days, err := parseDays(req.Days)
	if err != nil {
		s.writeError(w, err)
		return
	}
	shift, err := s.console.CreateShift(r.Context(), catalog.CreateShiftInput{
		Name:        req.Name,
		Window:      window,
		Days:        days,
		Description: req.Description,
		IsActive:    req.IsActive,
		Actor:       req.Actor,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toShiftDTO(*shift))
}

type updateShiftRequest struct {
	Name        *string   `json:"name"`
	Start       *string   `json:"start"`
	End         *string   `json:"end"`
	Days        *[]string `json:"days"`
	Description *string   `json:"description"`
	IsActive    *bool     `json:"is_active"`
	Actor       string    `json:"actor"`
}

func (s *Server) updateShift(w http.ResponseWriter, r *http.Request) {
	var req updateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, model.Validationf("body", "invalid json: %v", err))
		return
	}
	patch := catalog.UpdateShiftPatch{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
		Actor:       req.Actor,
	}
	if (req.Start == nil) != (req.End == nil) {
		s.writeError(w, model.Validationf("window", "start and end must be set together"))
		return
	}
	if req.Start != nil {
		window, err := parseWindow(*req.Start, *req.End)
		if err != nil {
			s.writeError(w, err)
			return
		}
		patch.Window = &window
	}
	if req.Days != nil {
		days, err := parseDays(*req.Days)
		if err != nil {
			s.writeError(w, err)
			return
		}
		patch.Days = &days
	}
	shift, err := s.console.UpdateShift(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toShiftDTO(*shift))
}

func (s *Server) deleteShift(w http.ResponseWriter, r *http.Request) {
	if err := s.console.DeleteShift(r.Context(), r.PathValue("id"), r.URL.Query().Get("actor")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeShiftDay(w http.ResponseWriter, r *http.Request) {
	day, err := model.ParseWeekday(r.PathValue("day"))
	if err != nil {
		s.writeError(w, model.Validationf("day", "%v", err))
		return
	}
	if err := s.console.RemoveShiftDay(r.Context(), r.PathValue("id"), day, r.URL.Query().Get("actor")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type teamDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	LeaderID    string   `json:"leader_id"`
	WorkTypeIDs []string `json:"work_type_ids"`
	Status      string   `json:"status"`
	IsActive    bool     `json:"is_active"`
}

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.console.ListTeams(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		out = append(out, teamDTO{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			LeaderID:    t.LeaderID,
			WorkTypeIDs: t.WorkTypeIDs,
			Status:      string(t.Status),
			IsActive:    t.IsActive,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

type matrixCellDTO struct {
	ShiftID    string `json:"shift_id,omitempty"`
	Selectable bool   `json:"selectable"`
	Active     bool   `json:"active"`
}

type matrixColumnDTO struct {
	Start string                   `json:"start"`
	End   string                   `json:"end"`
	Cells map[string]matrixCellDTO `json:"cells"`
}

type matrixDTO struct {
	TeamID  string            `json:"team_id"`
	Columns []matrixColumnDTO `json:"columns"`
}

func toMatrixDTO(m *matrix.Matrix) matrixDTO {
	out := matrixDTO{TeamID: m.TeamID}
	for _, win := range m.Windows {
		col := matrixColumnDTO{
			Start: win.Start.String(),
			End:   win.End.String(),
			Cells: make(map[string]matrixCellDTO, 7),
		}
		for d := model.Monday; d <= model.Sunday; d++ {
			cell := m.Cells[win][d]
			col.Cells[d.String()] = matrixCellDTO{
				ShiftID:    cell.ShiftID,
				Selectable: cell.Selectable,
				Active:     cell.Active,
			}
		}
		out.Columns = append(out.Columns, col)
	}
	return out
}

func (s *Server) getMatrix(w http.ResponseWriter, r *http.Request) {
	m, err := s.console.GetScheduleMatrix(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toMatrixDTO(m))
}

type commitMatrixRequest struct {
	Selection []struct {
		Start string   `json:"start"`
		End   string   `json:"end"`
		Days  []string `json:"days"`
	} `json:"selection"`
	Actor string `json:"actor"`
}

type commitMatrixResponse struct {
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Removed int      `json:"removed"`
	Applied []string `json:"applied_steps"`
}

func (s *Server) commitMatrix(w http.ResponseWriter, r *http.Request) {
	var req commitMatrixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, model.Validationf("body", "invalid json: %v", err))
		return
	}
	selection := make(matrix.Selection, len(req.Selection))
	for _, col := range req.Selection {
		window, err := parseWindow(col.Start, col.End)
		if err != nil {
			s.writeError(w, err)
			return
		}
		days, err := parseDays(col.Days)
		if err != nil {
			s.writeError(w, err)
			return
		}
		selection[window] = days
	}

	plan, report, err := s.console.CommitScheduleMatrix(r.Context(), r.PathValue("id"), selection, req.Actor)
	if err != nil {
		if report != nil && report.Failed != "" {
			s.writeJSON(w, http.StatusConflict, map[string]interface{}{
				"error":         err.Error(),
				"applied_steps": report.Applied,
				"failed_step":   report.Failed,
			})
			return
		}
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, commitMatrixResponse{
		Added:   len(plan.ToAdd),
		Updated: len(plan.ToUpdate),
		Removed: len(plan.ToRemove),
		Applied: report.Applied,
	})
}

func (s *Server) assignShift(w http.ResponseWriter, r *http.Request) {
	link, err := s.console.AssignTeamToShift(r.Context(), r.PathValue("id"), r.PathValue("shiftID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"link_id": link.ID})
}

func (s *Server) unassignShift(w http.ResponseWriter, r *http.Request) {
	if err := s.console.UnassignTeamFromShift(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportSchedule(w http.ResponseWriter, r *http.Request) {
	// Build the whole workbook before touching the response, so a
	// failed export yields an error status instead of a truncated file.
	var buf bytes.Buffer
	if err := s.console.ExportSchedule(r.Context(), r.PathValue("id"), &buf); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "schedule.xlsx"))
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error().Err(err).Msg("failed to write schedule export")
	}
}

type conflictCheckRequest struct {
	Start         string   `json:"start"`
	End           string   `json:"end"`
	Days          []string `json:"days"`
	ExcludeTeamID string   `json:"exclude_team_id"`
}

type conflictCheckResponse struct {
	EmployeeID       string    `json:"employee_id"`
	EmployeeName     string    `json:"employee_name,omitempty"`
	Conflict         bool      `json:"conflict"`
	ConflictingShift *shiftDTO `json:"conflicting_shift,omitempty"`
	ConflictingDays  []string  `json:"conflicting_days,omitempty"`
}

func (s *Server) checkConflict(w http.ResponseWriter, r *http.Request) {
	var req conflictCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, model.Validationf("body", "invalid json: %v", err))
		return
	}
	window, err := parseWindow(req.Start, req.End)
	if err != nil {
		s.writeError(w, err)
		return
	}
	days, err := parseDays(req.Days)
	if err != nil {
		s.writeError(w, err)
		return
	}
	check, err := s.console.CheckStaffConflict(r.Context(), r.PathValue("id"), window, days, req.ExcludeTeamID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := conflictCheckResponse{
		EmployeeID:   check.EmployeeID,
		EmployeeName: check.EmployeeName,
		Conflict:     check.Conflict,
	}
	if check.Conflict {
		dto := toShiftDTO(*check.ConflictingShift)
		resp.ConflictingShift = &dto
		resp.ConflictingDays = dayNames(check.ConflictingDays)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type serviceDTO struct {
	PetRequired     bool   `json:"pet_required"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	SessionDuration int    `json:"session_duration"`
	SessionsPerDay  int    `json:"sessions_per_day"`
}

func (d serviceDTO) toModel() (model.ServiceContext, error) {
	svc := model.ServiceContext{
		PetRequired:     d.PetRequired,
		SessionDuration: d.SessionDuration,
		SessionsPerDay:  d.SessionsPerDay,
	}
	var err error
	if d.StartDate != "" {
		if svc.StartDate, err = time.ParseInLocation("2006-01-02", d.StartDate, time.Local); err != nil {
			return svc, model.Validationf("start_date", "%v", err)
		}
	}
	if d.EndDate != "" {
		if svc.EndDate, err = time.ParseInLocation("2006-01-02", d.EndDate, time.Local); err != nil {
			return svc, model.Validationf("end_date", "%v", err)
		}
	}
	if d.StartTime != "" {
		if svc.StartTime, err = model.ParseTimeOfDay(d.StartTime); err != nil {
			return svc, model.Validationf("start_time", "%v", err)
		}
	}
	if d.EndTime != "" {
		if svc.EndTime, err = model.ParseTimeOfDay(d.EndTime); err != nil {
			return svc, model.Validationf("end_time", "%v", err)
		}
	}
	return svc, nil
}

type closedSlotDTO struct {
	Time   string `json:"time"`
	Reason string `json:"reason,omitempty"`
}

func parseClosedSlots(in []closedSlotDTO) ([]model.ClosedSlot, error) {
	var out []model.ClosedSlot
	for _, c := range in {
		t, err := model.ParseTimeOfDay(c.Time)
		if err != nil {
			return nil, model.Validationf("closed_slots", "%v", err)
		}
		out = append(out, model.ClosedSlot{Time: t, Status: model.SlotClosed, Reason: c.Reason})
	}
	return out, nil
}

type evaluateSlotRequest struct {
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Service     serviceDTO      `json:"service"`
	ClosedSlots []closedSlotDTO `json:"closed_slots"`
}

func (s *Server) evaluateSlot(w http.ResponseWriter, r *http.Request) {
	var req evaluateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, model.Validationf("body", "invalid json: %v", err))
		return
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		s.writeError(w, model.Validationf("date", "%v", err))
		return
	}
	t, err := model.ParseTimeOfDay(req.Time)
	if err != nil {
		s.writeError(w, model.Validationf("time", "%v", err))
		return
	}
	svc, err := req.Service.toModel()
	if err != nil {
		s.writeError(w, err)
		return
	}
	closed, err := parseClosedSlots(req.ClosedSlots)
	if err != nil {
		s.writeError(w, err)
		return
	}
	state := s.console.EvaluateSlot(r.Context(), date, t, svc, closed)
	s.writeJSON(w, http.StatusOK, map[string]string{"state": string(state)})
}

type enumerateSessionsRequest struct {
	Service serviceDTO `json:"service"`
}

func (s *Server) enumerateSessions(w http.ResponseWriter, r *http.Request) {
	var req enumerateSessionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, model.Validationf("body", "invalid json: %v", err))
		return
	}
	svc, err := req.Service.toModel()
	if err != nil {
		s.writeError(w, err)
		return
	}
	starts := s.console.EnumerateSessions(svc)
	out := make([]string, 0, len(starts))
	for _, t := range starts {
		out = append(out, t.String())
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": out})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var dayConflict *catalog.DayConflictError
	var staffConflict *conflict.StaffConflictError
	var emptySchedule *matrix.EmptyScheduleError
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case model.IsValidation(err):
		status = http.StatusBadRequest
	case errors.As(err, &dayConflict), errors.As(err, &staffConflict), errors.As(err, &emptySchedule):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func parseWindow(start, end string) (model.Window, error) {
	s, err := model.ParseTimeOfDay(start)
	if err != nil {
		return model.Window{}, model.Validationf("start", "%v", err)
	}
	e, err := model.ParseTimeOfDay(end)
	if err != nil {
		return model.Window{}, model.Validationf("end", "%v", err)
	}
	return model.Window{Start: s, End: e}, nil
}

func dayNames(days model.WeekdaySet) []string {
	out := make([]string, 0, days.Count())
	for _, d := range days.Days() {
		out = append(out, d.String())
	}
	return out
}

func parseDays(names []string) (model.WeekdaySet, error) {
	days := model.WeekdaySet(0)
	for _, n := range names {
		d, err := model.ParseWeekday(n)
		if err != nil {
			return 0, model.Validationf("days", "%v", err)
		}
		days = days.Add(d)
	}
	return days, nil
}
