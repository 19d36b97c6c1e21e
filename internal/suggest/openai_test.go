package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/flashmaint/internal/flashcard"
	"github.com/JonMunkholm/flashmaint/internal/logging"
)

func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5},
	})
	return string(b)
}

func TestOpenAI_Audit(t *testing.T) {
	batch := []flashcard.Projection{
		{ID: 7, Arabic: "سيارة", Spanish: "carro", Category: "transporte"},
		{ID: 8, Arabic: "قطة", Spanish: "gato", Category: "animales"},
	}

	tests := []struct {
		name         string
		status       int
		body         string
		wantErr      bool
		wantFindings int
	}{
		{
			name:         "plain json array",
			status:       http.StatusOK,
			body:         completion(`[{"id": 7, "problem": "regionalism", "suggestion": "coche", "field_to_fix": "spanish"}]`),
			wantFindings: 1,
		},
		{
			name:         "fenced json",
			status:       http.StatusOK,
			body:         completion("```json\n[{\"id\": 8, \"problem\": \"typo\", \"suggestion\": \"gata\", \"field_to_fix\": \"Spanish\"}]\n```"),
			wantFindings: 1,
		},
		{
			name:         "empty array",
			status:       http.StatusOK,
			body:         completion("[]"),
			wantFindings: 0,
		},
		{
			name:         "unsupported field dropped",
			status:       http.StatusOK,
			body:         completion(`[{"id": 7, "problem": "p", "suggestion": "s", "field_to_fix": "phonetic"}]`),
			wantFindings: 0,
		},
		{
			name:    "non json content",
			status:  http.StatusOK,
			body:    completion("All entries look correct."),
			wantErr: true,
		},
		{
			name:    "api error payload",
			status:  http.StatusUnauthorized,
			body:    `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`,
			wantErr: true,
		},
		{
			name:    "html error page",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantErr: true,
		},
		{
			name:    "no choices",
			status:  http.StatusOK,
			body:    `{"choices": []}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/chat/completions" {
					t.Errorf("path = %q", r.URL.Path)
				}
				if r.Header.Get("Authorization") != "Bearer sk-test" {
					t.Errorf("missing bearer token")
				}
				var req chatRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("decode request: %v", err)
				}
				if req.Model != DefaultModel || req.Temperature != DefaultTemperature {
					t.Errorf("model/temperature = %s/%v", req.Model, req.Temperature)
				}
				if len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, `"id":7`) {
					t.Errorf("prompt does not carry the batch: %+v", req.Messages)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewOpenAIWithClient(server.Client(), Options{
				BaseURL:     server.URL,
				APIKey:      "sk-test",
				Temperature: DefaultTemperature,
			})

			findings, err := client.Audit(context.Background(), batch)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Audit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(findings) != tt.wantFindings {
				t.Errorf("got %d findings, want %d", len(findings), tt.wantFindings)
			}
		})
	}
}

func TestOpenAI_AuditEmptyBatch(t *testing.T) {
	client := NewOpenAIWithClient(http.DefaultClient, Options{BaseURL: "http://127.0.0.1:0"})
	findings, err := client.Audit(context.Background(), nil)
	if err != nil || findings != nil {
		t.Errorf("Audit(nil) = %v, %v; want no call", findings, err)
	}
}

func TestParseFindings_NormalizesField(t *testing.T) {
	findings, err := parseFindings(context.Background(), "```\n[{\"id\": 1, \"problem\": \"p\", \"suggestion\": \"s\", \"field_to_fix\": \" CATEGORY \"}]\n```")
	if err != nil {
		t.Fatalf("parseFindings() error = %v", err)
	}
	if len(findings) != 1 || findings[0].Field != flashcard.FieldCategory {
		t.Errorf("findings = %+v", findings)
	}
}

func TestParseFindings_DropLogCarriesRunID(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	logging.SetupWriter(&buf, "warn", "json")
	ctx := logging.NewRunContext(context.Background())

	findings, err := parseFindings(ctx, `[{"id": 4, "problem": "p", "suggestion": "s", "field_to_fix": "phonetic"}]`)
	if err != nil {
		t.Fatalf("parseFindings() error = %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("findings = %+v, want none", findings)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not one JSON line: %v\n%s", err, buf.String())
	}
	if entry["run_id"] != logging.RunID(ctx) {
		t.Errorf("run_id = %v, want %s", entry["run_id"], logging.RunID(ctx))
	}
}

func TestBuildPrompt_ProjectionOnly(t *testing.T) {
	prompt, err := buildPrompt([]flashcard.Projection{{ID: 3, Arabic: "كتاب", Spanish: "libro", Category: "objetos"}})
	if err != nil {
		t.Fatalf("buildPrompt() error = %v", err)
	}
	if strings.Contains(prompt, "phonetic\":") {
		t.Error("prompt leaks phonetic field")
	}
	if !strings.Contains(prompt, "كتاب") {
		t.Error("prompt is missing the arabic text")
	}
}
