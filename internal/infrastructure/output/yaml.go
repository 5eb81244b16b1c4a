package output

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
)

// YAMLFormatter formats evaluation responses as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the response as YAML.
func (f *YAMLFormatter) Format(resp *dto.EvaluateOrderResponse) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(resp); err != nil {
		return err
	}

	return encoder.Close()
}
