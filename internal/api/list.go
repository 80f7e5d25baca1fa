package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// list decodes either a bare JSON array or a paginated envelope
// {"count": n, "results": [...]}.
type list[T any] struct {
	Items []T
	Count int
}

func (l *list[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &l.Items); err != nil {
			return err
		}
		l.Count = len(l.Items)
		return nil
	}

	var page struct {
		Count   int `json:"count"`
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return fmt.Errorf("decoding paginated list: %w", err)
	}
	l.Items = page.Results
	l.Count = page.Count
	return nil
}
