package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/zoobzio/pledge"
)

// report is what the commands print for a draft.
type report struct {
	Valid  bool              `json:"valid" yaml:"valid"`
	Sum    string            `json:"sum" yaml:"sum"`
	Rows   int               `json:"rows" yaml:"rows"`
	Errors map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func newReport(store *pledge.Store) report {
	v := store.Values()
	errs := store.Errors()
	r := report{
		Valid: errs.Empty(),
		Sum:   strconv.FormatFloat(v.Sum(), 'f', -1, 64),
		Rows:  len(v.Donations),
	}
	if !errs.Empty() {
		r.Errors = errs.Map()
	}
	return r
}

func outputCodec() (pledge.Codec, error) {
	switch format {
	case "json":
		return pledge.JSONCodec{}, nil
	case "yaml", "yml":
		return pledge.YAMLCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func writeReport(w io.Writer, store *pledge.Store) error {
	codec, err := outputCodec()
	if err != nil {
		return err
	}
	data, err := codec.Marshal(newReport(store))
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

// loadDraft reads the draft at path into a new store.
func loadDraft(ctx context.Context, path string, submitter pledge.Submitter, opts ...pledge.Option) (*pledge.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read draft: %w", err)
	}
	var v pledge.Values
	if err := pledge.CodecFor(path).Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", path, err)
	}
	store := pledge.New(submitter, opts...).Delay(delay)
	if err := store.Load(ctx, v); err != nil {
		return nil, err
	}
	return store, nil
}
