package tabjson

import (
	"io"

	"gopkg.in/yaml.v3"
)

func writeYAML(w io.Writer, ind Indented, records []*Record) error {
	enc := yaml.NewEncoder(w)
	if ind != nil {
		enc.SetIndent(len(ind.Indent()))
	}
	if records == nil {
		records = []*Record{}
	}
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}
