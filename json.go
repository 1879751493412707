package tabjson

import (
	"encoding/json"
	"io"
)

func writeJSON(w io.Writer, ind Indented, records []*Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if ind != nil {
		enc.SetIndent("", ind.Indent())
	}
	if records == nil {
		records = []*Record{}
	}
	return enc.Encode(records)
}
