package provision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/awslabs/lisa-admin/internal/database"
	"github.com/awslabs/lisa-admin/internal/models"
	"github.com/awslabs/lisa-admin/internal/queue"
)

// fakeInvoker returns scripted responses per function ARN and records the
// order of invocations
type fakeInvoker struct {
	responses map[string][]fakeResponse
	calls     []string
}

type fakeResponse struct {
	payload string
	err     error
}

func (f *fakeInvoker) Invoke(_ context.Context, functionARN string, _ interface{}) ([]byte, error) {
	f.calls = append(f.calls, functionARN)

	queue := f.responses[functionARN]
	if len(queue) == 0 {
		return nil, fmt.Errorf("unexpected invocation of %s", functionARN)
	}
	next := queue[0]
	f.responses[functionARN] = queue[1:]

	if next.err != nil {
		return nil, next.err
	}
	return []byte(next.payload), nil
}

// memoryServers is an in-memory HostedMcpServerRepository
type memoryServers struct {
	records  map[string]*models.HostedMcpServer
	statuses []string
}

func newMemoryServers(servers ...*models.HostedMcpServer) *memoryServers {
	m := &memoryServers{records: make(map[string]*models.HostedMcpServer)}
	for _, s := range servers {
		m.records[s.Id] = s
	}
	return m
}

func (m *memoryServers) Create(_ context.Context, server *models.HostedMcpServer) error {
	if _, ok := m.records[server.Id]; ok {
		return database.ErrAlreadyExists
	}
	m.records[server.Id] = server
	return nil
}

func (m *memoryServers) Get(_ context.Context, id string) (*models.HostedMcpServer, error) {
	s, ok := m.records[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *memoryServers) GetAll(_ context.Context) ([]*models.HostedMcpServer, error) {
	out := make([]*models.HostedMcpServer, 0, len(m.records))
	for _, s := range m.records {
		out = append(out, s)
	}
	return out, nil
}

func (m *memoryServers) GetByOwner(_ context.Context, owner string) ([]*models.HostedMcpServer, error) {
	var out []*models.HostedMcpServer
	for _, s := range m.records {
		if s.Owner == owner {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryServers) UpdateStatus(_ context.Context, id, status, reason string) error {
	s, ok := m.records[id]
	if !ok {
		return database.ErrNotFound
	}
	s.Status = status
	s.StatusReason = reason
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *memoryServers) SetStackArn(_ context.Context, id, stackArn string) error {
	s, ok := m.records[id]
	if !ok {
		return database.ErrNotFound
	}
	s.StackArn = stackArn
	return nil
}

func (m *memoryServers) SetImageRepository(_ context.Context, id, repoName, repoURI string) error {
	s, ok := m.records[id]
	if !ok {
		return database.ErrNotFound
	}
	s.ImageRepositoryName = repoName
	s.ImageRepositoryURI = repoURI
	return nil
}

func (m *memoryServers) Delete(_ context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return database.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func testConfig() Config {
	return Config{
		DeployServerARN:   "arn:deploy",
		PollDeploymentARN: "arn:poll",
		DeleteStackARN:    "arn:delete",
		MonitorDeleteARN:  "arn:monitor",
		PollInterval:      30 * time.Second,
	}
}

func newTestEngine(invoker *fakeInvoker, servers *memoryServers) (*Engine, *int) {
	e := NewEngine(invoker, servers, testConfig())
	waits := 0
	e.sleep = func(_ context.Context, _ time.Duration) error {
		waits++
		return nil
	}
	return e, &waits
}

func polls(n int, last string) []fakeResponse {
	out := make([]fakeResponse, 0, n+1)
	for i := 0; i < n; i++ {
		out = append(out, fakeResponse{payload: `{"continue_polling": true}`})
	}
	out = append(out, fakeResponse{payload: last})
	return out
}

func TestCreateServer_WaitsOncePerPendingPoll(t *testing.T) {
	for _, pending := range []int{0, 1, 3, 7} {
		t.Run(fmt.Sprintf("%d_pending_polls", pending), func(t *testing.T) {
			invoker := &fakeInvoker{responses: map[string][]fakeResponse{
				"arn:deploy": {{payload: `{"cloudformation_stack_arn": "arn:aws:cloudformation:stack/mcp-a"}`}},
				"arn:poll":   polls(pending, `{"continue_polling": false}`),
			}}
			servers := newMemoryServers(&models.HostedMcpServer{Id: "srv-1", Name: "a"})
			engine, waits := newTestEngine(invoker, servers)

			if err := engine.CreateServer(context.Background(), "srv-1"); err != nil {
				t.Fatalf("CreateServer returned error: %v", err)
			}

			if *waits != pending {
				t.Errorf("expected exactly %d waits, got %d", pending, *waits)
			}

			record, err := servers.Get(context.Background(), "srv-1")
			if err != nil {
				t.Fatalf("Get returned error: %v", err)
			}
			if record.Status != models.StatusActive {
				t.Errorf("expected status %q, got %q", models.StatusActive, record.Status)
			}
			if record.StackArn != "arn:aws:cloudformation:stack/mcp-a" {
				t.Errorf("stack ARN not recorded, got %q", record.StackArn)
			}
		})
	}
}

func TestCreateServer_DeployFailureMarksFailed(t *testing.T) {
	invoker := &fakeInvoker{responses: map[string][]fakeResponse{
		"arn:deploy": {{err: errors.New("task arn:deploy failed: image pull error")}},
	}}
	servers := newMemoryServers(&models.HostedMcpServer{Id: "srv-1", Name: "a"})
	engine, waits := newTestEngine(invoker, servers)

	err := engine.CreateServer(context.Background(), "srv-1")
	if err == nil {
		t.Fatal("expected CreateServer to return an error")
	}

	record, _ := servers.Get(context.Background(), "srv-1")
	if record.Status != models.StatusFailed {
		t.Errorf("expected status %q, got %q", models.StatusFailed, record.Status)
	}
	if record.StatusReason == "" {
		t.Error("expected a failure reason on the record")
	}
	if *waits != 0 {
		t.Errorf("expected no waits before deploy completes, got %d", *waits)
	}
}

func TestCreateServer_PollFailureMarksFailed(t *testing.T) {
	invoker := &fakeInvoker{responses: map[string][]fakeResponse{
		"arn:deploy": {{payload: `{"cloudformation_stack_arn": "arn:stack"}`}},
		"arn:poll": {
			{payload: `{"continue_polling": true}`},
			{err: errors.New("task arn:poll failed: stack rollback")},
		},
	}}
	servers := newMemoryServers(&models.HostedMcpServer{Id: "srv-1"})
	engine, _ := newTestEngine(invoker, servers)

	if err := engine.CreateServer(context.Background(), "srv-1"); err == nil {
		t.Fatal("expected CreateServer to return an error")
	}

	record, _ := servers.Get(context.Background(), "srv-1")
	if record.Status != models.StatusFailed {
		t.Errorf("expected status %q, got %q", models.StatusFailed, record.Status)
	}
}

func TestDeleteServer_WithStackRunsTeardownSequence(t *testing.T) {
	invoker := &fakeInvoker{responses: map[string][]fakeResponse{
		"arn:delete":  {{payload: `{}`}},
		"arn:monitor": polls(2, `{"continue_polling": false}`),
	}}
	servers := newMemoryServers(&models.HostedMcpServer{
		Id:       "srv-1",
		StackArn: "arn:aws:cloudformation:stack/mcp-a",
	})
	engine, waits := newTestEngine(invoker, servers)

	if err := engine.DeleteServer(context.Background(), "srv-1"); err != nil {
		t.Fatalf("DeleteServer returned error: %v", err)
	}

	if *waits != 2 {
		t.Errorf("expected 2 waits during monitoring, got %d", *waits)
	}
	if _, err := servers.Get(context.Background(), "srv-1"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected record to be deleted, got %v", err)
	}

	want := []string{"arn:delete", "arn:monitor", "arn:monitor", "arn:monitor"}
	if len(invoker.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, invoker.calls)
	}
	for i := range want {
		if invoker.calls[i] != want[i] {
			t.Errorf("call %d: expected %s, got %s", i, want[i], invoker.calls[i])
		}
	}
}

func TestDeleteServer_WithoutStackSkipsTeardown(t *testing.T) {
	invoker := &fakeInvoker{responses: map[string][]fakeResponse{}}
	servers := newMemoryServers(&models.HostedMcpServer{Id: "srv-1"})
	engine, waits := newTestEngine(invoker, servers)

	if err := engine.DeleteServer(context.Background(), "srv-1"); err != nil {
		t.Fatalf("DeleteServer returned error: %v", err)
	}

	if len(invoker.calls) != 0 {
		t.Errorf("expected no task invocations, got %v", invoker.calls)
	}
	if *waits != 0 {
		t.Errorf("expected no waits, got %d", *waits)
	}
	if _, err := servers.Get(context.Background(), "srv-1"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected record to be deleted, got %v", err)
	}
}

func TestDeleteServer_TeardownFailureKeepsRecord(t *testing.T) {
	invoker := &fakeInvoker{responses: map[string][]fakeResponse{
		"arn:delete": {{err: errors.New("task arn:delete failed: access denied")}},
	}}
	servers := newMemoryServers(&models.HostedMcpServer{
		Id:       "srv-1",
		StackArn: "arn:stack",
	})
	engine, _ := newTestEngine(invoker, servers)

	if err := engine.DeleteServer(context.Background(), "srv-1"); err == nil {
		t.Fatal("expected DeleteServer to return an error")
	}

	record, err := servers.Get(context.Background(), "srv-1")
	if err != nil {
		t.Fatalf("expected record to survive a failed teardown, got %v", err)
	}
	if record.Status != models.StatusFailed {
		t.Errorf("expected status %q, got %q", models.StatusFailed, record.Status)
	}
}

func TestHandle_DispatchesByAction(t *testing.T) {
	invoker := &fakeInvoker{responses: map[string][]fakeResponse{
		"arn:deploy": {{payload: `{"cloudformation_stack_arn": ""}`}},
		"arn:poll":   {{payload: `{"continue_polling": false}`}},
	}}
	servers := newMemoryServers(&models.HostedMcpServer{Id: "srv-1"})
	engine, _ := newTestEngine(invoker, servers)

	job := &queue.ProvisionJob{ServerID: "srv-1", Action: queue.ActionCreate}
	if err := engine.Handle(job); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	record, _ := servers.Get(context.Background(), "srv-1")
	if record.Status != models.StatusActive {
		t.Errorf("expected status %q, got %q", models.StatusActive, record.Status)
	}

	if err := engine.Handle(&queue.ProvisionJob{ServerID: "srv-1", Action: "restart"}); err == nil {
		t.Error("expected an error for an unknown action")
	}
}

func TestPollResponse_Unmarshal(t *testing.T) {
	var resp pollResponse
	if err := json.Unmarshal([]byte(`{"continue_polling": true, "reason": "stack in CREATE_IN_PROGRESS"}`), &resp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if !resp.ContinuePolling {
		t.Error("expected continue_polling to be true")
	}
	if resp.Reason != "stack in CREATE_IN_PROGRESS" {
		t.Errorf("unexpected reason: %q", resp.Reason)
	}
}
