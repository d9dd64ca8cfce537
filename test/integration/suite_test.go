//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
)

// scenario carries the last exchange of one feature scenario.
type scenario struct {
	baseURL string
	client  *http.Client
	status  int
	body    []byte
}

func (s *scenario) clear() {
	s.status = 0
	s.body = nil
}

func (s *scenario) send(method, path string, payload []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	if len(payload) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	s.status = resp.StatusCode
	s.body, err = io.ReadAll(resp.Body)

	return err
}

func (s *scenario) serviceRunning() error {
	if err := s.send(http.MethodGet, "/-/live", nil); err != nil {
		return fmt.Errorf("service not reachable at %s: %w", s.baseURL, err)
	}

	if s.status != http.StatusOK {
		return fmt.Errorf("liveness answered %d", s.status)
	}

	s.clear()

	return nil
}

func (s *scenario) get(path string) error  { return s.send(http.MethodGet, path, nil) }
func (s *scenario) post(path string) error { return s.send(http.MethodPost, path, nil) }

func (s *scenario) putJSON(path string, doc *godog.DocString) error {
	return s.send(http.MethodPut, path, []byte(doc.Content))
}

func (s *scenario) statusIs(want int) error {
	if s.status != want {
		return fmt.Errorf("status %d, want %d: %s", s.status, want, s.body)
	}

	return nil
}

func (s *scenario) bodyContains(text string) error {
	if !bytes.Contains(s.body, []byte(text)) {
		return fmt.Errorf("body lacks %q: %s", text, s.body)
	}

	return nil
}

// field resolves a dotted path like "quote.author" in the last body.
func (s *scenario) field(path string) (any, error) {
	var node any
	if err := json.Unmarshal(s.body, &node); err != nil {
		return nil, fmt.Errorf("body is not JSON: %w", err)
	}

	for _, key := range strings.Split(path, ".") {
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%q: %v is not an object", path, node)
		}

		if node, ok = obj[key]; !ok {
			return nil, fmt.Errorf("%q missing from %s", path, s.body)
		}
	}

	return node, nil
}

func (s *scenario) fieldIs(path, want string) error {
	got, err := s.field(path)
	if err != nil {
		return err
	}

	if fmt.Sprint(got) != want {
		return fmt.Errorf("%q is %v, want %s", path, got, want)
	}

	return nil
}

func (s *scenario) fieldPresent(path string) error {
	got, err := s.field(path)
	if err != nil {
		return err
	}

	if got == nil || fmt.Sprint(got) == "" {
		return fmt.Errorf("%q is empty", path)
	}

	return nil
}

func initializer(baseURL string) func(*godog.ScenarioContext) {
	return func(ctx *godog.ScenarioContext) {
		s := &scenario{baseURL: baseURL, client: &http.Client{Timeout: 10 * time.Second}}

		ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
			s.clear()
			return ctx, nil
		})

		ctx.Step(`^the service is running$`, s.serviceRunning)
		ctx.Step(`^I request GET "([^"]*)"$`, s.get)
		ctx.Step(`^I request POST "([^"]*)"$`, s.post)
		ctx.Step(`^I request PUT "([^"]*)" with body:$`, s.putJSON)
		ctx.Step(`^the response status should be (\d+)$`, s.statusIs)
		ctx.Step(`^the response should contain "([^"]*)"$`, s.bodyContains)
		ctx.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, s.fieldIs)
		ctx.Step(`^the JSON field "([^"]*)" should not be empty$`, s.fieldPresent)
	}
}

// TestFeatures runs the feature files against BASE_URL, or against an
// in-process widget whose remote providers are both down.
func TestFeatures(t *testing.T) {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		down := newUpstream(t, failing)
		baseURL = newWidgetServer(t, down, down, filepath.Join(t.TempDir(), "favorites.db")).server.URL
	}

	suite := godog.TestSuite{
		ScenarioInitializer: initializer(baseURL),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			Tags:     os.Getenv("GODOG_TAGS"),
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("feature scenarios failed")
	}
}
