package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if !s.Config.complete() {
		s.T().Skip("POSTS_ADDR, COMMENTS_ADDR, QUERY_ADDR and BUS_ADDR must be set")
	}
	s.client = &http.Client{Timeout: 5 * time.Second}
}

// Step prints a colorized header for a contextual test step
func (s *BaseHTTPSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Call sends a JSON request and decodes the JSON answer into out when out is not nil.
func (s *BaseHTTPSuite) Call(ctx context.Context, method, url string, in, out any) int {
	var body io.Reader
	var raw []byte
	if in != nil {
		var err error
		raw, err = json.Marshal(in)
		s.Require().NoError(err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	s.Require().NoError(err, "Failed to reach "+url)
	defer resp.Body.Close()
	answer, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "HTTP %s %s [%d] in %v", method, url, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		fmt.Fprintf(&logBuilder, "\nREQUEST:\n%s\nRESPONSE:\n%s", raw, answer)
	}
	s.T().Log(logBuilder.String())

	if out != nil && resp.StatusCode < http.StatusBadRequest {
		s.Require().NoError(json.Unmarshal(answer, out))
	}
	return resp.StatusCode
}
