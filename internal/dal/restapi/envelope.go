package restapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Envelope is the canonical response wrapper of the backend API. The
// backend is not fully consistent about it: some endpoints answer with
// a bare JSON array instead. Normalization happens here, once, so no
// call site has to guess at response shapes.
type Envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
}

// APIError is a non-2xx or success=false response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}

	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// decodeResponse normalizes a backend response into out. Enveloped
// payloads are unwrapped; bare arrays and bare objects are taken as
// the payload itself.
func decodeResponse(resp *http.Response, out any) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
		}
	}

	if out == nil {
		return nil
	}

	payload := raw
	if env, ok := parseEnvelope(raw); ok {
		if !env.Success {
			msg := env.Error
			if msg == "" {
				msg = env.Message
			}
			status := env.StatusCode
			if status == 0 {
				status = resp.StatusCode
			}

			return &APIError{StatusCode: status, Message: msg}
		}
		payload = env.Data
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response payload: %w", err)
	}

	return nil
}

// parseEnvelope reports whether raw is an enveloped response. A bare
// array can never be one; an object counts only when it carries the
// "success" discriminator.
func parseEnvelope(raw []byte) (Envelope, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Envelope{}, false
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return Envelope{}, false
	}
	if _, ok := probe["success"]; !ok {
		return Envelope{}, false
	}

	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Envelope{}, false
	}

	return env, true
}

func errorMessage(raw []byte) string {
	if env, ok := parseEnvelope(raw); ok {
		if env.Error != "" {
			return env.Error
		}

		return env.Message
	}

	return ""
}
