package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"cifcheck/internal/enterprise/domain"
	"cifcheck/internal/shared/validation"
)

// Format is the syntax of an enterprise document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the document format from a source name.
func FormatFor(source string) Format {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Loader reads enterprise records from documents. It holds no state and
// performs no logging.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

// Load reads source and returns the record it describes. Every failure is
// a *domain.LoadError; nothing is returned on partial success.
func (l *Loader) Load(source string) (domain.Record, error) {
	raw, err := os.ReadFile(source)
	if err != nil {
		return domain.Record{}, domain.NewLoadError(domain.ErrSourceUnavailable, source, err)
	}
	return l.decode(raw, FormatFor(source), source)
}

// Decode builds a record from raw document bytes.
func (l *Loader) Decode(raw []byte, format Format) (domain.Record, error) {
	return l.decode(raw, format, "")
}

func (l *Loader) decode(raw []byte, format Format, source string) (domain.Record, error) {
	doc, err := parseDocument(raw, format)
	if err != nil {
		return domain.Record{}, domain.NewLoadError(domain.ErrMalformedDocument, source, err)
	}

	values := make(map[string]string, len(domain.RequiredKeys))
	for _, key := range domain.RequiredKeys {
		v, exists := doc[key]
		if !exists {
			loadErr := domain.NewLoadError(domain.ErrMissingField, source, validation.NewMissingFieldError(key))
			loadErr.Field = key
			return domain.Record{}, loadErr
		}
		s, ok := fieldValue(key, v)
		if !ok {
			loadErr := domain.NewLoadError(domain.ErrMalformedDocument, source, fmt.Errorf("unsupported value of type %T", v))
			loadErr.Field = key
			return domain.Record{}, loadErr
		}
		values[key] = s
	}

	rec, err := domain.NewRecord(values[domain.KeyCIF], values[domain.KeyPhone], values[domain.KeyEnterpriseName])
	if err != nil {
		loadErr := domain.NewLoadError(domain.ErrInvalidIdentifier, source, fmt.Errorf("'%s' does not pass the CIF checksum", values[domain.KeyCIF]))
		loadErr.Field = domain.KeyCIF
		return domain.Record{}, loadErr
	}
	return rec, nil
}

// fieldValue renders a document value as text. The CIF must be a string;
// phone and name also accept numbers and booleans.
func fieldValue(key string, v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	if key == domain.KeyCIF {
		return "", false
	}
	switch n := v.(type) {
	case json.Number:
		return n.String(), true
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(n), true
	default:
		return "", false
	}
}

func parseDocument(raw []byte, format Format) (map[string]any, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("document is not valid UTF-8")
	}

	var doc map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		if doc == nil {
			doc = map[string]any{}
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, fmt.Errorf("document must be a JSON object")
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, fmt.Errorf("unexpected data after JSON object")
		}
	}
	return doc, nil
}
