package tabjson

import (
	"io"
)

func writeJSONL(w io.Writer, records []*Record) error {
	for _, rec := range records {
		data, err := rec.MarshalJSON()
		if err != nil {
			return err
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}
