package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestRegisteredDocIsValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("read doc: %v", err)
	}
	var v struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		t.Fatalf("doc is not JSON: %v", err)
	}
	if v.BasePath != "/api" {
		t.Fatalf("basePath = %q", v.BasePath)
	}
	for _, p := range []string{"/comments", "/report", "/track", "/quote/today", "/quote/{id}", "/admin/comments/action", "/admin/comments/{id}/history", "/admin/reports", "/admin/events"} {
		if _, ok := v.Paths[p]; !ok {
			t.Fatalf("path %s missing", p)
		}
	}
}
