package staffingv1

import (
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc/encoding"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestCodec_Registered(t *testing.T) {
	t.Parallel()

	if encoding.GetCodec(CodecName) == nil {
		t.Fatalf("codec %q is not registered", CodecName)
	}
}

func TestCodec_PlainMessages(t *testing.T) {
	t.Parallel()

	requested := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	in := &ProjectResponse{Project: &Project{
		Id:                        "proj-1",
		RequiredSkills:            []RequiredSkill{{Skill: "Java", Count: 2}},
		WorkflowStatus:            "AWAITING_APPROVAL",
		ExternalSearchRequestedAt: &requested,
	}}

	data, err := Codec{}.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if !strings.Contains(string(data), `"workflowStatus":"AWAITING_APPROVAL"`) {
		t.Fatalf("expected camelCase field names, got %s", data)
	}

	var out ProjectResponse
	if err := (Codec{}).Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if out.Project.RequiredSkills[0].Count != 2 || !out.Project.ExternalSearchRequestedAt.Equal(requested) {
		t.Fatalf("unexpected decoded project: %+v", out.Project)
	}
}

func TestCodec_ProtoMessages(t *testing.T) {
	t.Parallel()

	data, err := Codec{}.Marshal(&healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}

	var out healthpb.HealthCheckResponse
	if err := (Codec{}).Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if out.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("unexpected status %v", out.GetStatus())
	}
}

func TestCodec_EmptyPayload(t *testing.T) {
	t.Parallel()

	var out ListApprovalTasksRequest
	if err := (Codec{}).Unmarshal(nil, &out); err != nil {
		t.Fatalf("empty payload must decode, got %v", err)
	}
}
