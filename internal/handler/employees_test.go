package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mesa-pos/api/internal/database"
	"github.com/mesa-pos/api/internal/handler"
)

// --- Mock store ---

type mockEmployeeStore struct {
	employees []database.Employee
	created   *database.CreateEmployeeParams
}

func (m *mockEmployeeStore) ListEmployees(_ context.Context) ([]database.Employee, error) {
	return m.employees, nil
}

func (m *mockEmployeeStore) CreateEmployee(_ context.Context, arg database.CreateEmployeeParams) (database.Employee, error) {
	m.created = &arg
	e := database.Employee{
		ID:        uuid.New(),
		Name:      arg.Name,
		Position:  arg.Position,
		Salary:    arg.Salary,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.employees = append(m.employees, e)
	return e, nil
}

func (m *mockEmployeeStore) UpdateEmployee(_ context.Context, arg database.UpdateEmployeeParams) (database.Employee, error) {
	for i := range m.employees {
		if m.employees[i].ID == arg.ID {
			m.employees[i].Name = arg.Name
			m.employees[i].Position = arg.Position
			m.employees[i].Salary = arg.Salary
			return m.employees[i], nil
		}
	}
	return database.Employee{}, pgx.ErrNoRows
}

func (m *mockEmployeeStore) DeleteEmployee(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	for i := range m.employees {
		if m.employees[i].ID == id {
			m.employees = append(m.employees[:i], m.employees[i+1:]...)
			return id, nil
		}
	}
	return uuid.Nil, pgx.ErrNoRows
}

func setupEmployeeRouter(store *mockEmployeeStore) *chi.Mux {
	h := handler.NewEmployeeHandler(store)
	r := chi.NewRouter()
	r.Route("/employees", h.RegisterRoutes)
	return r
}

// --- Tests ---

func TestCreateEmployee(t *testing.T) {
	store := &mockEmployeeStore{}
	r := setupEmployeeRouter(store)

	rr := doRequest(t, r, "POST", "/employees", map[string]string{
		"name":     "Luis",
		"position": "Cook",
		"salary":   "2400.00",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["name"] != "Luis" || resp["position"] != "Cook" || resp["salary"] != "2400.00" {
		t.Errorf("response: got %v", resp)
	}
}

func TestCreateEmployee_EmptySalaryIsZero(t *testing.T) {
	store := &mockEmployeeStore{}
	r := setupEmployeeRouter(store)

	rr := doRequest(t, r, "POST", "/employees", map[string]string{"name": "Mia", "position": "Host"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d", rr.Code)
	}
	if got := decodeResponse(t, rr)["salary"]; got != "0.00" {
		t.Errorf("salary: got %v, want 0.00", got)
	}
}

func TestCreateEmployee_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
		msg  string
	}{
		{"missing name", map[string]string{"position": "Cook"}, "name is required"},
		{"blank name", map[string]string{"name": "   ", "position": "Cook"}, "name is required"},
		{"missing position", map[string]string{"name": "Luis"}, "position is required"},
		{"negative salary", map[string]string{"name": "Luis", "position": "Cook", "salary": "-10"}, "salary must be a number >= 0 with at most 2 decimals"},
		{"sub-cent salary", map[string]string{"name": "Luis", "position": "Cook", "salary": "2400.001"}, "salary must be a number >= 0 with at most 2 decimals"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockEmployeeStore{}
			r := setupEmployeeRouter(store)

			rr := doRequest(t, r, "POST", "/employees", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
			}
			if got := decodeResponse(t, rr)["error"]; got != tt.msg {
				t.Errorf("error: got %v, want %q", got, tt.msg)
			}
			if store.created != nil {
				t.Error("invalid employee must not be stored")
			}
		})
	}
}

func TestUpdateEmployee(t *testing.T) {
	id := uuid.New()
	store := &mockEmployeeStore{employees: []database.Employee{
		{ID: id, Name: "Luis", Position: "Cook", Salary: makeNumeric("2400")},
	}}
	r := setupEmployeeRouter(store)

	rr := doRequest(t, r, "PUT", "/employees/"+id.String(), map[string]string{
		"name":     "Luis",
		"position": "Head Cook",
		"salary":   "2800",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["position"] != "Head Cook" || resp["salary"] != "2800.00" {
		t.Errorf("response: got %v", resp)
	}

	rr = doRequest(t, r, "PUT", "/employees/"+uuid.NewString(), map[string]string{"name": "X", "position": "Y"})
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown employee: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestListAndDeleteEmployees(t *testing.T) {
	id := uuid.New()
	store := &mockEmployeeStore{employees: []database.Employee{
		{ID: id, Name: "Luis", Position: "Cook"},
		{ID: uuid.New(), Name: "Mia", Position: "Host"},
	}}
	r := setupEmployeeRouter(store)

	rr := doRequest(t, r, "GET", "/employees", nil)
	if got := decodeListResponse(t, rr); len(got) != 2 {
		t.Fatalf("employees: got %d, want 2", len(got))
	}

	rr = doRequest(t, r, "DELETE", "/employees/"+id.String(), nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status: got %d, want %d", rr.Code, http.StatusNoContent)
	}

	rr = doRequest(t, r, "GET", "/employees", nil)
	got := decodeListResponse(t, rr)
	if len(got) != 1 || got[0]["name"] != "Mia" {
		t.Errorf("employees after delete: got %v", got)
	}

	rr = doRequest(t, r, "DELETE", "/employees/"+id.String(), nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
