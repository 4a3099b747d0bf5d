// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like the manager.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (the manager)
//  2. Returns a function with the exact signature the router needs
//
// Because the inner function "closes over" the outer parameters, it can
// access `mgr` even after the factory call has returned. Example:
//
//	router.HandleFunc("POST /api/students", student.New(mgr))
//	//                                              ^^^^^^^^
//	//                         New(mgr) is called ONCE at startup.
//	//                         It returns a handler func which is called
//	//                         on EVERY incoming request.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-management/internal/manager"
	"github.com/aanand-mishra/student-management/internal/query"
	"github.com/aanand-mishra/student-management/internal/types"
	"github.com/aanand-mishra/student-management/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// statusFor maps domain error kinds to HTTP status codes so every
// handler reports them consistently.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrStudentNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrStudentExists):
		return http.StatusConflict
	case errors.Is(err, types.ErrInvalidStudent), errors.Is(err, query.ErrUnparseable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
// Creates a new student from the JSON request body.
//
// Request body (JSON):
//
//	{ "sid": "S101", "name": "Alice", "age": 21, "gender": "Female", "major": "Computer Science" }
//
// Success response (201 Created):
//
//	{ "sid": "S101" }
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	409 Conflict     — a student with that SID already exists
//
// ─────────────────────────────────────────────────────────────────────────────
func New(mgr *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var student types.Student

		// json.NewDecoder reads from r.Body (the raw bytes sent by the
		// client). Fields are matched to struct fields via json:"..." tags.
		err := json.NewDecoder(r.Body).Decode(&student)

		if errors.Is(err, io.EOF) {
			// io.EOF means the body was completely empty — nothing to decode.
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// Tag-level validation up front gives the client a field-by-field
		// message; the manager re-checks as its own invariant.
		if err := validator.New().Struct(student); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		if err := mgr.Add(student); err != nil {
			response.WriteJSON(w, statusFor(err), response.GeneralError(err))
			return
		}

		slog.Info("student created", slog.String("sid", student.SID))
		response.WriteJSON(w, http.StatusCreated, map[string]string{"sid": student.SID})
	}
}

// GetBySID handles GET /api/students/{sid}
// Fetches a single student by their ID.
//
// Error responses:
//
//	404 Not Found — no student with that SID
func GetBySID(mgr *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// r.PathValue("sid") extracts the {sid} segment from the URL.
		// This works because Go 1.22+ supports named path parameters in
		// the ServeMux pattern: "GET /api/students/{sid}"
		sid := r.PathValue("sid")
		slog.Info("getting a student", slog.String("sid", sid))

		student, err := mgr.Get(sid)
		if err != nil {
			slog.Error("error getting student",
				slog.String("sid", sid),
				slog.String("error", err.Error()))
			response.WriteJSON(w, statusFor(err), response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetList handles GET /api/students
// Returns a JSON array of all students sorted by SID.
// Returns an empty array [] (not null) when there are no students.
func GetList(mgr *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")
		response.WriteJSON(w, http.StatusOK, mgr.List())
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{sid}
// Replaces ALL fields of an existing student. The SID comes from the
// path; a sid in the body is ignored.
//
// Request body (JSON) — all fields required for a PUT:
//
//	{ "name": "Alice Updated", "age": 22, "gender": "Female", "major": "Finance" }
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or validation failure
//	404 Not Found    — no student with that SID
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(mgr *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := r.PathValue("sid")
		slog.Info("updating a student", slog.String("sid", sid))

		var student types.Student
		err := json.NewDecoder(r.Body).Decode(&student)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// The path owns the identity; validate the merged record.
		student.SID = sid
		if err := validator.New().Struct(student); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		if err := mgr.Update(sid, student); err != nil {
			slog.Error("error updating student",
				slog.String("sid", sid),
				slog.String("error", err.Error()))
			response.WriteJSON(w, statusFor(err), response.GeneralError(err))
			return
		}

		slog.Info("student updated", slog.String("sid", sid))
		response.WriteJSON(w, http.StatusOK, student)
	}
}

// Delete handles DELETE /api/students/{sid}
// Permanently removes a student record.
//
// Success response (200 OK):
//
//	{ "status": "deleted" }
func Delete(mgr *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := r.PathValue("sid")
		slog.Info("deleting a student", slog.String("sid", sid))

		if err := mgr.Delete(sid); err != nil {
			slog.Error("error deleting student",
				slog.String("sid", sid),
				slog.String("error", err.Error()))
			response.WriteJSON(w, statusFor(err), response.GeneralError(err))
			return
		}

		slog.Info("student deleted", slog.String("sid", sid))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// QueryResult is the payload for the natural-language query endpoint:
// the matches plus the filters the agent extracted, so the client can
// show what the query was understood to mean.
type QueryResult struct {
	Students []types.Student `json:"students"`
	Filters  query.Filters   `json:"filters"`
}

// Query handles GET /api/students/query?q=<natural language text>
//
// Error responses:
//
//	400 Bad Request — missing q parameter, or the agent could not
//	                  extract any filter from the text
func Query(mgr *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text := r.URL.Query().Get("q")
		slog.Info("natural language query", slog.String("q", text))

		if text == "" {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("missing query parameter q")))
			return
		}

		students, filters, err := mgr.QueryNatural(r.Context(), text)
		if err != nil {
			slog.Error("query failed",
				slog.String("q", text),
				slog.String("error", err.Error()))
			response.WriteJSON(w, statusFor(err), response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, QueryResult{Students: students, Filters: filters})
	}
}

// Save handles POST /api/save
// Manually snapshots the roster to storage.
func Save(mgr *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("saving roster")

		if err := mgr.Save(r.Context()); err != nil {
			slog.Error("save failed", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]string{"status": response.StatusOK})
	}
}
