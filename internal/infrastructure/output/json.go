package output

import (
	"encoding/json"
	"io"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
)

// JSONFormatter formats evaluation responses as JSON.
type JSONFormatter struct {
	writer io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{
		writer: w,
		indent: indent,
	}
}

// Format writes the response as JSON followed by a newline.
func (f *JSONFormatter) Format(resp *dto.EvaluateOrderResponse) error {
	enc := json.NewEncoder(f.writer)
	if f.indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}
