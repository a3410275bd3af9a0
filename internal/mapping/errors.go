package mapping

import "fmt"

// ConfigError reports a malformed mapping value in the configuration
// document. It is fatal for the whole run: no data can be parsed without a
// valid mapping.
type ConfigError struct {
	Path   string // element or attribute path where the value appeared
	Value  string // the offending raw value
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s at %q: %q", e.Reason, e.Path, e.Value)
}

// UnresolvedCounterError reports a ctr_id declaration that cannot be bound
// to a table opened at the same path. It indicates an inconsistent
// configuration and is fatal for the run.
type UnresolvedCounterError struct {
	Path   string
	Ref    CounterRef
	Reason string
}

func (e *UnresolvedCounterError) Error() string {
	return fmt.Sprintf("config: counter %s:%s at %q: %s", e.Ref.Table, e.Ref.ID, e.Path, e.Reason)
}
