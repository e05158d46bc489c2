package app

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration written as "10m" or "600s" in configuration files.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	duration, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("app.Duration: failed to parse: %s", err)
	}

	*d = Duration(duration)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalJSON(bytes []byte) error {
	var v string
	if err := json.Unmarshal(bytes, &v); err != nil {
		return err
	}

	duration, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("app.Duration: failed to parse: %s", err)
	}

	*d = Duration(duration)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d Duration) Validate() error {
	duration := time.Duration(d)

	if duration < 0 {
		return fmt.Errorf("app.Duration: must not be negative: %s", duration)
	}
	if duration > 0 && duration < time.Second {
		return fmt.Errorf("app.Duration: must be at least 1 second: %s given", duration)
	}

	return nil
}

func (d Duration) String() string {
	duration := time.Duration(d)
	switch {
	case duration == 0:
		return "0s"
	case duration%time.Hour == 0:
		return fmt.Sprintf("%dh", int(duration/time.Hour))
	case duration%time.Minute == 0:
		return fmt.Sprintf("%dm", int(duration/time.Minute))
	case duration%time.Second == 0:
		return fmt.Sprintf("%ds", int(duration/time.Second))
	default:
		return duration.String()
	}
}
