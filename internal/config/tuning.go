package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// StreamTuning holds the feed reconnect cool-downs, in seconds.
type StreamTuning struct {
	DialRetryWaitSec  int `yaml:"dial_retry_wait_sec"`
	FailureWaitSec    int `yaml:"failure_wait_sec"`
	ShortLivedSec     int `yaml:"short_lived_sec"`
	HealthySec        int `yaml:"healthy_sec"`
	ShortLivedWaitSec int `yaml:"short_lived_wait_sec"`
	MediumWaitSec     int `yaml:"medium_wait_sec"`
}

type Tuning struct {
	Stream StreamTuning `yaml:"stream"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Stream: StreamTuning{
			DialRetryWaitSec:  5,
			FailureWaitSec:    5,
			ShortLivedSec:     30,
			HealthySec:        45,
			ShortLivedWaitSec: 5,
			MediumWaitSec:     2,
		},
	}
}

// LoadTuning reads the tuning file, falling back to defaults when the file
// is absent. A present but unparseable file is an error.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse tuning: %w", err)
	}
	return t, nil
}

func (s StreamTuning) DialRetryWait() time.Duration  { return time.Duration(s.DialRetryWaitSec) * time.Second }
func (s StreamTuning) FailureWait() time.Duration    { return time.Duration(s.FailureWaitSec) * time.Second }
func (s StreamTuning) ShortLived() time.Duration     { return time.Duration(s.ShortLivedSec) * time.Second }
func (s StreamTuning) Healthy() time.Duration        { return time.Duration(s.HealthySec) * time.Second }
func (s StreamTuning) ShortLivedWait() time.Duration { return time.Duration(s.ShortLivedWaitSec) * time.Second }
func (s StreamTuning) MediumWait() time.Duration     { return time.Duration(s.MediumWaitSec) * time.Second }
