package gpt

import (
	"testing"

	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm"
)

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		model   string
		wantErr bool
	}{
		{name: "Missing key", apiKey: "", model: "gpt-4o-mini", wantErr: true},
		{name: "Missing model", apiKey: "sk-test", model: "", wantErr: true},
		{name: "Valid", apiKey: "sk-test", model: "gpt-4o-mini", wantErr: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client, err := NewClient(test.apiKey, test.model)
			if (err != nil) != test.wantErr {
				t.Fatalf("NewClient() error: %v, wantErr: %v", err, test.wantErr)
			}
			if err == nil && client.Model() != test.model {
				t.Errorf("Model: %s, want: %s", client.Model(), test.model)
			}
		})
	}
}

func TestClient_BuildParams(t *testing.T) {
	client, err := NewClient("sk-test", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}

	params := client.buildParams(llm.DefaultGenerationParams().Request("Task: x"))

	if params.Model != "gpt-4o-mini" {
		t.Errorf("Model: %s, want: gpt-4o-mini", params.Model)
	}
	if params.MaxCompletionTokens.Value != 2048 {
		t.Errorf("MaxCompletionTokens: %d, want: 2048", params.MaxCompletionTokens.Value)
	}
	if params.TopP.Value != 0.9 {
		t.Errorf("TopP: %f, want: 0.9", params.TopP.Value)
	}
	if len(params.Messages) != 1 {
		t.Errorf("Messages: %d, want: 1", len(params.Messages))
	}

	params = client.buildParams(llm.LLMRequest{Prompt: "p"})
	if params.MaxCompletionTokens.Valid() {
		t.Error("Expected MaxCompletionTokens to be omitted")
	}
}
