// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package config

import (
	"encoding/json"
	"errors"
	"time"
)

// Duration is a time.Duration with JSON marshal/unmarshal using [time.ParseDuration] format.
// A plain number is a count of seconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case float64:
		if v < 0 {
			return errors.New("negative duration")
		}
		d.Duration = time.Duration(v * float64(time.Second))
		return nil
	case string:
		var err error
		if d.Duration, err = time.ParseDuration(v); err != nil {
			return err
		}
		if d.Duration < 0 {
			return errors.New("negative duration")
		}
		return nil
	default:
		return errors.New("invalid duration")
	}
}
