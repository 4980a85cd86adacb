package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"launcher/internal/domain"
	"launcher/internal/metrics"
	"log/slog"
	"math"
	"sort"
	"strconv"
)

func newDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec
}

// expectEOF проверяет, что после JSON-значения во входных данных ничего нет.
func expectEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON value", domain.ErrMalformedResponse)
	}
	return nil
}

// decodeDocument разбирает JSON и требует, чтобы верхним уровнем был непустой (не null) объект.
func decodeDocument(data []byte) (domain.Document, error) {
	dec := newDecoder(data)
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", domain.ErrMalformedResponse, err)
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected JSON object, got %s", domain.ErrMalformedResponse, jsonKind(v))
	}
	return domain.Document(obj), nil
}

// decodeRaw проверяет, что данные являются корректным JSON, и возвращает их без изменений.
func decodeRaw(data []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: invalid JSON", domain.ErrMalformedResponse)
	}
	return json.RawMessage(trimmed), nil
}

// decodeInstances разбирает объект "имя -> данные инстанса" потоково, сохраняя порядок ключей документа.
// Значения, не являющиеся объектами, пропускаются с предупреждением.
// При повторяющемся ключе побеждает последнее значение, позиция остается от первого вхождения.
// Ключи-индексы ("0", "1", ...) идут первыми по возрастанию, как при обходе объекта в JavaScript.
func decodeInstances(data []byte, log *slog.Logger) ([]domain.Instance, error) {
	dec := newDecoder(data)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", domain.ErrMalformedResponse, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: invalid JSON structure: expected object", domain.ErrMalformedResponse)
	}
	instances := make([]domain.Instance, 0)
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: invalid JSON: %v", domain.ErrMalformedResponse, err)
		}
		name, _ := keyTok.(string)
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON: %v", domain.ErrMalformedResponse, err)
		}
		fields, ok := value.(map[string]any)
		if !ok {
			log.Warn("Skipping invalid or null instance",
				slog.String("instance", name),
				slog.String("kind", jsonKind(value)),
			)
			metrics.InstancesSkippedTotal.Inc()
			if i, dup := index[name]; dup {
				instances = append(instances[:i], instances[i+1:]...)
				delete(index, name)
				for k, j := range index {
					if j > i {
						index[k] = j - 1
					}
				}
			}
			continue
		}
		instance := make(domain.Instance, len(fields)+1)
		for k, v := range fields {
			instance[k] = v
		}
		instance["name"] = name
		if i, dup := index[name]; dup {
			instances[i] = instance
			continue
		}
		index[name] = len(instances)
		instances = append(instances, instance)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", domain.ErrMalformedResponse, err)
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	sort.SliceStable(instances, func(i, j int) bool {
		a, aIndex := arrayIndex(instances[i].Name())
		b, bIndex := arrayIndex(instances[j].Name())
		if aIndex && bIndex {
			return a < b
		}
		return aIndex && !bIndex
	})
	return instances, nil
}

// arrayIndex сообщает, является ли ключ каноническим индексом массива (0 .. 2^32-2).
func arrayIndex(key string) (uint64, bool) {
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == math.MaxUint32 || strconv.FormatUint(n, 10) != key {
		return 0, false
	}
	return n, true
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
