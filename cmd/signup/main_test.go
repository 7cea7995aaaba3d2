package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func emptyStdin(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatalf("create stdin: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestRunReportsFieldErrors(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-name", "A", "-email", "bad", "-password", "short", "-api", "http://127.0.0.1:1"}, emptyStdin(t), &out)
	if err == nil {
		t.Fatal("expected an error for invalid input")
	}
	for _, want := range []string{
		"name: Name must be at least 2 characters",
		"email: Invalid email format",
		"password: Password must be at least 8 characters",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestRunSubmitsOnce(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"User registered successfully"}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run([]string{"-name", "Alice Smith", "-email", "alice@example.com", "-password", "longenough1", "-api", srv.URL}, emptyStdin(t), &out)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one request, got %d", calls)
	}
	if !strings.Contains(out.String(), "User registered successfully!") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunPromptsForMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"User already exists"}`))
	}))
	defer srv.Close()

	stdin := emptyStdin(t)
	if _, err := stdin.WriteString("Alice Smith\nalice@example.com\nlongenough1\n"); err != nil {
		t.Fatalf("write stdin: %v", err)
	}
	if _, err := stdin.Seek(0, 0); err != nil {
		t.Fatalf("seek stdin: %v", err)
	}

	var out bytes.Buffer
	err := run([]string{"-api", srv.URL}, stdin, &out)
	if err == nil {
		t.Fatal("expected registration failure")
	}
	if !strings.Contains(out.String(), "User already exists") {
		t.Fatalf("expected server message, got %q", out.String())
	}
}

func TestRunUsesConfiguredAPI(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"User registered successfully"}`))
	}))
	defer srv.Close()
	t.Setenv("SIGNUP_FORM_APIURL", srv.URL)

	var out bytes.Buffer
	err := run([]string{"-name", "Alice Smith", "-email", "alice@example.com", "-password", "longenough1"}, emptyStdin(t), &out)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected the configured api to be called once, got %d", calls)
	}
}
