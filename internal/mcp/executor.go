package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/agentcore-mcp/internal/common"
	"github.com/bobmcallan/agentcore-mcp/internal/openapi"
)

// DefaultTimeout is the per-call timeout when none is configured.
const DefaultTimeout = 30 * time.Second

// maxResponseSize caps the response body to prevent OOM from unexpectedly large responses.
const maxResponseSize = 50 << 20 // 50MB

// maxErrorBody caps how much of a failed response body ends up in the error message.
const maxErrorBody = 512

// Outcome is the result of one invocation. Failed outcomes carry an
// {"error", "tool"} object; successful ones carry the decoded response.
type Outcome struct {
	Value      any
	Failed     bool
	StatusCode int
}

// Executor turns tool arguments into HTTP requests against a binding's
// backing API. It holds no per-call state and is safe for concurrent use.
type Executor struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     *common.Logger
}

// NewExecutor creates an executor with a fixed per-call timeout.
func NewExecutor(timeout time.Duration, logger *common.Logger) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{
		httpClient: &http.Client{
			Timeout: timeout,
			// Redirects are reported as non-2xx responses, not followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		timeout:    timeout,
		logger:     logger,
	}
}

// Close drops idle keep-alive connections to upstream APIs. The executor
// stays usable afterwards.
func (e *Executor) Close() {
	e.httpClient.CloseIdleConnections()
}

// Timeout returns the per-call timeout.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

// Invoke performs the binding's HTTP call. It never returns an error:
// transport failures, non-2xx responses and panics all become failed
// outcomes.
func (e *Executor) Invoke(ctx context.Context, b Binding, args map[string]any) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Str("tool", b.Name).Str("panic", fmt.Sprint(r)).Msg("tool invocation panicked")
			out = failure(b.Name, fmt.Errorf("internal error: %v", r), 0)
		}
	}()

	req, err := e.buildRequest(ctx, b, args)
	if err != nil {
		e.logger.Error().Str("tool", b.Name).Err(err).Msg("failed to build request")
		return failure(b.Name, err, 0)
	}

	e.logger.Debug().Str("tool", b.Name).Str("method", req.Method).Str("url", req.URL.String()).Msg("tool request")

	start := time.Now()
	resp, err := e.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		e.logger.Error().Str("tool", b.Name).Str("method", req.Method).Str("path", req.URL.Path).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("tool request failed")
		return failure(b.Name, fmt.Errorf("request failed: %w", err), 0)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return failure(b.Name, fmt.Errorf("failed to read response: %w", err), resp.StatusCode)
	}

	e.logger.Debug().Str("tool", b.Name).Str("method", req.Method).Str("path", req.URL.Path).Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("tool response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e.logger.Error().Str("tool", b.Name).Str("method", req.Method).Str("path", req.URL.Path).Int("status", resp.StatusCode).Msg("tool request returned error status")
		return failure(b.Name, parseErrorResponse(resp.StatusCode, body), resp.StatusCode)
	}

	return Outcome{Value: decodeResponse(resp.StatusCode, body), StatusCode: resp.StatusCode}
}

// buildRequest assembles the outbound request from the binding's parameter
// list. Arguments without a matching parameter are ignored; absent or null
// arguments are left out.
func (e *Executor) buildRequest(ctx context.Context, b Binding, args map[string]any) (*http.Request, error) {
	op := b.Operation
	path := op.Path
	query := url.Values{}
	headers := http.Header{}
	var cookies []*http.Cookie
	body := map[string]any{}

	for _, param := range op.Parameters {
		if param.Name == "" {
			continue
		}
		val, ok := args[param.Name]
		if !ok || val == nil {
			continue
		}
		switch param.Location {
		case openapi.LocationPath:
			path = strings.ReplaceAll(path, "{"+param.Name+"}", url.PathEscape(stringify(val)))
		case openapi.LocationQuery:
			for _, s := range stringifyAll(val) {
				query.Add(param.Name, s)
			}
		case openapi.LocationHeader:
			headers.Set(param.Name, strings.Join(stringifyAll(val), ","))
		case openapi.LocationCookie:
			cookies = append(cookies, &http.Cookie{Name: param.Name, Value: stringify(val)})
		case openapi.LocationBody:
			body[param.Name] = val
		}
	}

	target := b.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	method := strings.ToUpper(op.Method)
	sendBody := len(body) > 0 && carriesBody(method)
	if sendBody {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if sendBody {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, vals := range headers {
		for _, v := range vals {
			req.Header.Set(key, v)
		}
	}
	for key, v := range b.Headers {
		req.Header.Set(key, v)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req, nil
}

// carriesBody reports whether method may send a JSON body. GET and DELETE never do.
func carriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// decodeResponse decodes a 2xx body as JSON, falling back to the raw text.
func decodeResponse(statusCode int, body []byte) any {
	if json.Valid(body) {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		var value any
		if err := dec.Decode(&value); err == nil {
			return value
		}
	}
	return map[string]any{
		"response":    string(body),
		"status_code": statusCode,
	}
}

// failure builds the error object returned for a failed invocation.
func failure(tool string, err error, statusCode int) Outcome {
	return Outcome{
		Value: map[string]any{
			"error": err.Error(),
			"tool":  tool,
		},
		Failed:     true,
		StatusCode: statusCode,
	}
}

// parseErrorResponse extracts a meaningful error message from an HTTP error response.
func parseErrorResponse(statusCode int, body []byte) error {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		for _, msg := range []string{errResp.Error, errResp.Message, errResp.Detail} {
			if msg != "" {
				return fmt.Errorf("server returned %d: %s", statusCode, msg)
			}
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		text = http.StatusText(statusCode)
	}
	if text == "" {
		return fmt.Errorf("server returned %d", statusCode)
	}
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody] + "..."
	}
	return fmt.Errorf("server returned %d: %s", statusCode, text)
}

// stringify renders a scalar argument the way it appears in a URL.
// Whole numbers decoded from JSON render without a decimal point.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case map[string]any, []any:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	default:
		return fmt.Sprint(t)
	}
}

// stringifyAll renders a slice argument as one string per element and any
// other argument as a single string.
func stringifyAll(v any) []string {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []string{stringify(v)}
	}
	out := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, stringify(rv.Index(i).Interface()))
	}
	return out
}
