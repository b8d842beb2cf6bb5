package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/tasktrack/backend/api/transport"
	"github.com/tasktrack/backend/domain"
	"github.com/tasktrack/backend/internal/infrastructure/monitor"
	"github.com/tasktrack/backend/usecase/tasklist"
)

type memStore struct {
	tasks []domain.Task
}

func (m *memStore) Load(ctx context.Context) ([]domain.Task, error) {
	return m.tasks, nil
}

func (m *memStore) Save(ctx context.Context, tasks []domain.Task) error {
	m.tasks = append([]domain.Task(nil), tasks...)
	return nil
}

func newTestHandler(t *testing.T) (*TaskHandler, *tasklist.Service) {
	t.Helper()
	svc := tasklist.New(&memStore{}, nil, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return NewTaskHandler(svc, nil, nil), svc
}

func decodeEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) transport.Envelope {
	t.Helper()
	var env transport.Envelope
	if err := json.Unmarshal(ctx.Response.Body(), &env); err != nil {
		t.Fatalf("invalid response body %q: %v", ctx.Response.Body(), err)
	}
	return env
}

func TestAddTaskHandler(t *testing.T) {
	h, svc := newTestHandler(t)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetBody([]byte(`{"text":"buy milk"}`))
	h.AddTask(ctx)

	if ctx.Response.StatusCode() != http.StatusCreated {
		t.Fatalf("status = %d, want %d", ctx.Response.StatusCode(), http.StatusCreated)
	}
	env := decodeEnvelope(t, ctx)
	if env.Status != "success" {
		t.Errorf("envelope status = %q", env.Status)
	}
	if len(svc.ListTasks(context.Background())) != 1 {
		t.Error("task not added to the service")
	}
}

func TestAddTaskHandlerEmptyText(t *testing.T) {
	h, _ := newTestHandler(t)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetBody([]byte(`{"text":"   "}`))
	h.AddTask(ctx)

	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", ctx.Response.StatusCode(), http.StatusBadRequest)
	}
	if env := decodeEnvelope(t, ctx); env.Code != string(domain.ErrCodeInvalid) {
		t.Errorf("code = %q, want %q", env.Code, domain.ErrCodeInvalid)
	}
}

func TestAddTaskHandlerBadPayload(t *testing.T) {
	h, _ := newTestHandler(t)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetBody([]byte(`{not json`))
	h.AddTask(ctx)

	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", ctx.Response.StatusCode(), http.StatusBadRequest)
	}
}

func TestToggleTaskHandlerUnknownID(t *testing.T) {
	h, _ := newTestHandler(t)

	ctx := &fasthttp.RequestCtx{}
	ctx.SetUserValue("id", "missing")
	h.ToggleTask(ctx)

	if ctx.Response.StatusCode() != http.StatusNotFound {
		t.Errorf("status = %d, want %d", ctx.Response.StatusCode(), http.StatusNotFound)
	}
}

func TestToggleTaskHandler(t *testing.T) {
	h, svc := newTestHandler(t)
	task, err := svc.AddTask(context.Background(), "toggle me")
	if err != nil {
		t.Fatal(err)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.SetUserValue("id", task.ID)
	h.ToggleTask(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d, want %d", ctx.Response.StatusCode(), http.StatusOK)
	}
	if got := svc.ListTasks(context.Background())[0]; !got.Completed {
		t.Error("task not toggled")
	}
}

func TestRemoveTasksHandler(t *testing.T) {
	h, svc := newTestHandler(t)
	ctx0 := context.Background()
	a, _ := svc.AddTask(ctx0, "a")
	svc.AddTask(ctx0, "b")
	c, _ := svc.AddTask(ctx0, "c")

	body, _ := json.Marshal(transport.RemoveTasksRequest{IDs: []string{a.ID, c.ID}})
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetBody(body)
	h.RemoveTasks(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d, want %d", ctx.Response.StatusCode(), http.StatusOK)
	}
	var resp struct {
		Data transport.RemoveTasksResponse `json:"data"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Removed != 2 {
		t.Errorf("removed = %d, want 2", resp.Data.Removed)
	}
	if remaining := svc.ListTasks(ctx0); len(remaining) != 1 || remaining[0].Text != "b" {
		t.Errorf("unexpected remainder %+v", remaining)
	}
}

func TestGetTasksHandlerEmptyList(t *testing.T) {
	h, _ := newTestHandler(t)

	ctx := &fasthttp.RequestCtx{}
	h.GetTasks(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d, want %d", ctx.Response.StatusCode(), http.StatusOK)
	}
	var resp struct {
		Data []domain.Task `json:"data"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data == nil {
		t.Error("expected an empty array, not null")
	}
}

func TestHealthHandlerDegraded(t *testing.T) {
	mon := monitor.New(nil)
	mon.RecordFailure(errDiskFull)
	h := NewHealthHandler(mon, nil, nil)

	ctx := &fasthttp.RequestCtx{}
	h.Check(ctx)

	if ctx.Response.StatusCode() != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", ctx.Response.StatusCode(), http.StatusServiceUnavailable)
	}
}

func TestHealthHandlerHealthy(t *testing.T) {
	mon := monitor.New(nil)
	mon.RecordSuccess()
	h := NewHealthHandler(mon, nil, nil)

	ctx := &fasthttp.RequestCtx{}
	h.Check(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Errorf("status = %d, want %d", ctx.Response.StatusCode(), http.StatusOK)
	}
}

var errDiskFull = domain.WrapError(domain.ErrCodeUnavailable, "write task file", nil)
