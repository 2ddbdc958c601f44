package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "surface error",
			code:    "E100",
			wantMsg: "Surface operation failed",
			wantCat: CategorySurface,
		},
		{
			name:    "runtime error",
			code:    "E120",
			wantMsg: "Instance stopped",
			wantCat: CategoryRuntime,
		},
		{
			name:    "protocol error",
			code:    "E140",
			wantMsg: "Malformed frame",
			wantCat: CategoryProtocol,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "demo %q not found", "nope")
	if err.Message != `demo "nope" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestVelaError_Error(t *testing.T) {
	cause := fmt.Errorf("disk full")
	tests := []struct {
		name string
		err  *VelaError
		want string
	}{
		{"code only", New("E101"), "E101: Node not materialized"},
		{"with op", New("E100").WithOp("insert"), "E100: insert: Surface operation failed"},
		{"with cause", New("E100").Wrap(cause), "E100: Surface operation failed: disk full"},
		{"no code", Newf(CategoryRuntime, "boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVelaError_WrapAndIs(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := fmt.Errorf("outer: %w", New("E100").Wrap(sentinel))

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should find the wrapped sentinel")
	}
	if !stderrors.Is(err, New("E100")) {
		t.Error("errors.Is should match by code")
	}
	if stderrors.Is(err, New("E101")) {
		t.Error("errors.Is should not match a different code")
	}

	var ve *VelaError
	if !stderrors.As(err, &ve) {
		t.Fatal("errors.As should find the VelaError")
	}
	if ve.Code != "E100" {
		t.Errorf("Code = %q, want E100", ve.Code)
	}
}

func TestHasCode(t *testing.T) {
	inner := New("E102")
	outer := New("E100").Wrap(inner)

	if !HasCode(outer, "E100") {
		t.Error("HasCode(outer, E100) = false, want true")
	}
	if !HasCode(outer, "E102") {
		t.Error("HasCode(outer, E102) = false, want true")
	}
	if HasCode(outer, "E140") {
		t.Error("HasCode(outer, E140) = true, want false")
	}
	if HasCode(stderrors.New("plain"), "E100") {
		t.Error("HasCode(plain) = true, want false")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E100") != nil {
		t.Error("FromError(nil) should return nil")
	}

	existing := New("E140")
	if got := FromError(existing, "E100"); got != existing {
		t.Error("FromError should return an existing VelaError unchanged")
	}

	plain := stderrors.New("plain")
	got := FromError(plain, "E180")
	if got.Code != "E180" {
		t.Errorf("Code = %q, want E180", got.Code)
	}
	if got.Unwrap() != plain {
		t.Error("Unwrap() should return the original error")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E100").
		WithOp("move").
		WithSuggestion("Check the surface capacity").
		Wrap(stderrors.New("capacity exceeded"))

	out := err.Format()
	for _, want := range []string{
		"ERROR E100: Surface operation failed",
		"op: move",
		"cause: capacity exceeded",
		"Hint: Check the surface capacity",
		"Learn more: https://vela.dev/docs/errors/E100",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format() should not contain ANSI codes when colors are disabled")
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E161").WithDetail("server.port must be positive")

	var decoded map[string]any
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jerr != nil {
		t.Fatalf("FormatJSON() is not valid JSON: %v", jerr)
	}
	if decoded["code"] != "E161" {
		t.Errorf("code = %v, want E161", decoded["code"])
	}
	if decoded["category"] != "config" {
		t.Errorf("category = %v, want config", decoded["category"])
	}
	if decoded["detail"] != "server.port must be positive" {
		t.Errorf("detail = %v", decoded["detail"])
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("GetAllCodes() returned no codes")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("codes not sorted: %q before %q", codes[i-1], codes[i])
		}
	}
}

func TestRegister(t *testing.T) {
	Register("E900", ErrorTemplate{Category: CategoryCLI, Message: "Custom"})
	defer delete(registry, "E900")

	tmpl, ok := GetTemplate("E900")
	if !ok {
		t.Fatal("GetTemplate(E900) not found after Register")
	}
	if tmpl.Message != "Custom" {
		t.Errorf("Message = %q, want Custom", tmpl.Message)
	}
	if New("E900").Category != CategoryCLI {
		t.Error("New should use the registered category")
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  []string
	}{
		{"", 10, nil},
		{"short", 10, []string{"short"}},
		{"one two three four", 9, []string{"one two", "three", "four"}},
	}
	for _, tt := range tests {
		got := wrapText(tt.text, tt.width)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("wrapText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}
