package output

import (
	"encoding/json"
	"io"
	"time"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	writer io.Writer
	now    func() time.Time
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w, now: time.Now}
}

// Output is the envelope of every JSON response printed by the CLI.
type Output struct {
	Success   bool         `json:"success"`
	Timestamp string       `json:"timestamp"`
	Command   string       `json:"command,omitempty"`
	Data      interface{}  `json:"data,omitempty"`
	Errors    []string     `json:"errors,omitempty"`
	Error     *ErrorOutput `json:"error,omitempty"`
}

// ErrorOutput represents error information in JSON output.
type ErrorOutput struct {
	Message    string   `json:"message"`
	Code       string   `json:"code,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Details    []string `json:"details,omitempty"`
}

// Write outputs data as indented JSON.
func (j *JSONFormatter) Write(output Output) error {
	if output.Timestamp == "" {
		output.Timestamp = j.now().UTC().Format(time.RFC3339)
	}
	encoder := json.NewEncoder(j.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// WriteSuccess outputs a successful command result.
func (j *JSONFormatter) WriteSuccess(cmd string, data interface{}) error {
	return j.Write(Output{Success: true, Command: cmd, Data: data})
}

// WriteFailure outputs a command that completed with user-facing errors.
func (j *JSONFormatter) WriteFailure(cmd string, errs []string) error {
	return j.Write(Output{Success: false, Command: cmd, Errors: errs})
}
